package tracker

import (
	"fmt"
	"iter"
	"maps"
	"slices"
)

// LedgerVersion is the current schema version of the persisted ledger document.
const LedgerVersion = 1

// Ledger is the full collection of holdings for one installation.
//
// Holdings are keyed by (asset class, symbol); there is at most one holding
// per key. The ledger never stores a zero-quantity holding: removing a
// position deletes the record.
type Ledger struct {
	version  int
	currency string // display currency for the whole ledger
	holdings map[string]Holding
	cash     Money // uninvested balance, counted in the grand total
}

// NewLedger creates an empty ledger in the given display currency.
func NewLedger(currency string) *Ledger {
	if currency == "" {
		currency = "USD"
	}
	return &Ledger{
		version:  LedgerVersion,
		currency: currency,
		holdings: make(map[string]Holding),
	}
}

// Currency returns the ledger's display currency.
func (l *Ledger) Currency() string { return l.currency }

// Len returns the number of holdings in the ledger.
func (l *Ledger) Len() int { return len(l.holdings) }

// Holding returns the holding for (class, symbol), if any.
func (l *Ledger) Holding(class AssetClass, symbol string) (Holding, bool) {
	h, ok := l.holdings[class.String()+"/"+NormalizeSymbol(symbol)]
	return h, ok
}

// UpsertHolding inserts a new holding or merges it into an existing one with
// the same (class, symbol) key.
//
// By default quantities accumulate, and when both sides carry a cost basis
// the basis is re-averaged over the combined quantity. With replace set, the
// new holding overwrites the old one entirely. The merge policy is explicit:
// callers decide, the ledger never guesses.
func (l *Ledger) UpsertHolding(h Holding, replace bool) error {
	h.Symbol = NormalizeSymbol(h.Symbol)
	if err := h.Validate(); err != nil {
		return err
	}
	old, exists := l.holdings[h.Key()]
	if exists && !replace {
		merged := old
		combined := old.Quantity.Add(h.Quantity)
		if !old.CostBasisUnit.IsZero() && !h.CostBasisUnit.IsZero() && !combined.IsZero() {
			oldCost := old.CostBasisUnit.Mul(old.Quantity)
			newCost := h.CostBasisUnit.Mul(h.Quantity)
			merged.CostBasisUnit = oldCost.Add(newCost).Div(combined)
		} else if old.CostBasisUnit.IsZero() {
			merged.CostBasisUnit = h.CostBasisUnit
		}
		merged.Quantity = combined
		if !h.LastKnownPrice.IsZero() {
			merged.LastKnownPrice = h.LastKnownPrice
			merged.LastUpdated = h.LastUpdated
			merged.Source = h.Source
		}
		if h.Name != "" {
			merged.Name = h.Name
		}
		h = merged
	}
	l.holdings[h.Key()] = h
	return nil
}

// AdjustOp selects how AdjustQuantity combines the amount with the current quantity.
type AdjustOp int

const (
	AdjustSet AdjustOp = iota
	AdjustAdd
	AdjustSub
)

// AdjustQuantity sets, increases or decreases the quantity of an existing
// holding. The resulting quantity must not be negative; a result of exactly
// zero deletes the holding.
func (l *Ledger) AdjustQuantity(class AssetClass, symbol string, op AdjustOp, amount Quantity) (Holding, error) {
	symbol = NormalizeSymbol(symbol)
	h, ok := l.Holding(class, symbol)
	if !ok {
		return Holding{}, fmt.Errorf("no %s holding %q in ledger", class, symbol)
	}
	switch op {
	case AdjustSet:
		h.Quantity = amount
	case AdjustAdd:
		h.Quantity = h.Quantity.Add(amount)
	case AdjustSub:
		h.Quantity = h.Quantity.Sub(amount)
	}
	if h.Quantity.IsNegative() {
		return Holding{}, &ValidationError{Kind: NegativeQuantity, Value: h.Quantity.String()}
	}
	if h.Quantity.IsZero() {
		delete(l.holdings, h.Key())
		return h, nil
	}
	l.holdings[h.Key()] = h
	return h, nil
}

// Cash returns the uninvested cash balance.
func (l *Ledger) Cash() Money { return l.cash }

// AdjustCash sets, increases or decreases the cash balance and returns the
// new balance. The balance must never go negative.
func (l *Ledger) AdjustCash(op AdjustOp, amount Money) (Money, error) {
	var next Money
	switch op {
	case AdjustSet:
		next = amount
	case AdjustAdd:
		next = l.cash.Add(amount)
	case AdjustSub:
		next = l.cash.Sub(amount)
	}
	if next.IsNegative() {
		return Money{}, &ValidationError{Kind: NegativeCash, Value: next.String()}
	}
	l.cash = next
	return next, nil
}

// RemoveHolding deletes the holding for (class, symbol). It reports whether
// a holding was actually removed.
func (l *Ledger) RemoveHolding(class AssetClass, symbol string) bool {
	key := class.String() + "/" + NormalizeSymbol(symbol)
	_, ok := l.holdings[key]
	delete(l.holdings, key)
	return ok
}

// Holdings iterates over all holdings in a stable order: by asset class,
// then by symbol.
func (l *Ledger) Holdings() iter.Seq[Holding] {
	return func(yield func(Holding) bool) {
		keys := slices.Collect(maps.Keys(l.holdings))
		slices.Sort(keys)
		for _, k := range keys {
			if !yield(l.holdings[k]) {
				return
			}
		}
	}
}

// ClassHoldings iterates over the holdings of a single asset class, sorted
// by symbol.
func (l *Ledger) ClassHoldings(class AssetClass) iter.Seq[Holding] {
	return func(yield func(Holding) bool) {
		for h := range l.Holdings() {
			if h.Class != class {
				continue
			}
			if !yield(h) {
				return
			}
		}
	}
}
