package tracker

import "slices"

// HoldingFlag is a caller-visible warning attached to a valued holding.
type HoldingFlag string

const (
	// FlagStale marks a holding valued from a prior fetch, not this run.
	FlagStale HoldingFlag = "stale"
	// FlagUnpriced marks a holding with no usable price at all. It
	// contributes zero market value; a price is never fabricated.
	FlagUnpriced HoldingFlag = "unpriced"
	// FlagNoCostBasis marks a holding whose P&L cannot be computed.
	FlagNoCostBasis HoldingFlag = "no-cost-basis"
	// FlagManualFallback marks a holding valued from a manually entered price.
	FlagManualFallback HoldingFlag = "manual-fallback"
)

// HoldingValue is the valuation of a single holding.
type HoldingValue struct {
	Holding        Holding
	EffectivePrice Money  // unit price actually used, zero when unpriced
	MarketValue    Money  // quantity (in pricing units) x effective price
	PnL            *Money // unrealized P&L, nil when the cost basis is unknown
	Flags          []HoldingFlag
}

// Flagged reports whether the holding carries the given flag.
func (v HoldingValue) Flagged(f HoldingFlag) bool {
	for _, x := range v.Flags {
		if x == f {
			return true
		}
	}
	return false
}

// ClassTotal is the per-asset-class aggregation of a snapshot.
type ClassTotal struct {
	Class      AssetClass
	Count      int
	Subtotal   Money
	Allocation Percent
}

// ValuationSnapshot is the computed, point-in-time view of a ledger.
//
// It is ephemeral: constructed fresh on each run and never persisted. The
// ledger persists the inputs; the snapshot is a derived view.
type ValuationSnapshot struct {
	Currency string
	Holdings []HoldingValue // in ledger iteration order
	Classes  []ClassTotal   // non-empty classes, largest subtotal first
	Cash     Money          // uninvested balance, part of Total
	Total    Money
	Failed   []string // symbols that failed to refresh in this run
}

// CashAllocation returns the cash share of the grand total.
func (s *ValuationSnapshot) CashAllocation() Percent {
	return NewPercent(s.Cash, s.Total)
}

// Warnings returns the holdings flagged stale or manual-fallback, for
// caller-visible warnings.
func (s *ValuationSnapshot) Warnings() []HoldingValue {
	var out []HoldingValue
	for _, v := range s.Holdings {
		if v.Flagged(FlagStale) || v.Flagged(FlagManualFallback) {
			out = append(out, v)
		}
	}
	return out
}

// StoredQuotes turns the prices already persisted in the ledger into a quote
// resolution, for valuing the portfolio without any feed call. Prices kept
// after a failed refresh keep their stale confidence so the snapshot still
// flags them.
func StoredQuotes(l *Ledger) map[string]PriceQuote {
	quotes := make(map[string]PriceQuote, l.Len())
	for h := range l.Holdings() {
		if h.LastKnownPrice.IsZero() {
			continue
		}
		q := PriceQuote{
			Symbol:     h.Symbol,
			UnitPrice:  h.LastKnownPrice,
			AsOf:       h.LastUpdated,
			Source:     LiveAPI,
			Confidence: Fresh,
		}
		switch h.Source {
		case SourceManual:
			q.Source = ManualEntry
		case SourceCached:
			q.Source = FallbackCache
			q.Confidence = Stale
		}
		quotes[h.Symbol] = q
	}
	return quotes
}

// Value computes the valuation snapshot of a ledger given the quotes
// resolved for this run, keyed by symbol.
//
// It is a pure function: no I/O, fully deterministic, the same inputs always
// produce the same snapshot. Per holding, the effective unit price is the
// fresh quote when one exists, else the last known price (flagged stale),
// else nothing (flagged unpriced, zero market value).
func Value(l *Ledger, quotes map[string]PriceQuote) *ValuationSnapshot {
	s := &ValuationSnapshot{
		Currency: l.Currency(),
		Total:    M(0, l.Currency()),
	}

	subtotals := make(map[AssetClass]Money)
	counts := make(map[AssetClass]int)

	for h := range l.Holdings() {
		v := HoldingValue{Holding: h}

		q, ok := quotes[h.Symbol]
		switch {
		case ok && q.Confidence == Fresh:
			v.EffectivePrice = q.UnitPrice
			if q.Source == ManualEntry {
				v.Flags = append(v.Flags, FlagManualFallback)
			}
		case !h.LastKnownPrice.IsZero():
			v.EffectivePrice = h.LastKnownPrice
			v.Flags = append(v.Flags, FlagStale)
		default:
			v.Flags = append(v.Flags, FlagUnpriced)
		}

		if v.Flagged(FlagUnpriced) {
			v.MarketValue = M(0, l.Currency())
		} else {
			v.MarketValue = v.EffectivePrice.Mul(h.OunceQuantity())
		}

		if h.CostBasisUnit.IsZero() {
			v.Flags = append(v.Flags, FlagNoCostBasis)
		} else {
			pnl := v.MarketValue.Sub(h.CostBasisUnit.Mul(h.Quantity))
			v.PnL = &pnl
		}

		subtotals[h.Class] = subtotals[h.Class].Add(v.MarketValue)
		counts[h.Class]++
		s.Total = s.Total.Add(v.MarketValue)
		s.Holdings = append(s.Holdings, v)
	}

	s.Cash = l.Cash()
	s.Total = s.Total.Add(s.Cash)

	for _, class := range AssetClasses() {
		if counts[class] == 0 {
			continue
		}
		s.Classes = append(s.Classes, ClassTotal{
			Class:      class,
			Count:      counts[class],
			Subtotal:   subtotals[class],
			Allocation: NewPercent(subtotals[class], s.Total),
		})
	}
	// Largest class first; ties keep the display order above.
	slices.SortStableFunc(s.Classes, func(a, b ClassTotal) int {
		return b.Subtotal.Decimal().Cmp(a.Subtotal.Decimal())
	})
	return s
}
