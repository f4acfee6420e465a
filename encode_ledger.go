package tracker

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// MarshalJSON emits the holding with a canonical field order, omitting unset
// optional fields so that the persisted document stays minimal and stable.
func (h Holding) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("class", h.Class.String())
	w.Append("symbol", h.Symbol)
	w.Optional("name", h.Name)
	w.Append("quantity", h.Quantity)
	w.Optional("unit", h.Unit)
	if !h.CostBasisUnit.IsZero() {
		w.Append("costBasisUnit", h.CostBasisUnit)
	}
	if !h.LastKnownPrice.IsZero() {
		w.Append("lastKnownPrice", h.LastKnownPrice)
		w.Append("priceSource", h.Source.String())
	}
	if !h.LastUpdated.IsZero() {
		w.Append("lastUpdated", h.LastUpdated.UTC().Format(time.RFC3339))
	}
	return w.MarshalJSON()
}

// holdingCmd is a specialized struct for decoding a persisted holding.
// Unknown fields are deliberately ignored so that the document stays
// forward-readable across minor schema additions.
type holdingCmd struct {
	Class          string   `json:"class"`
	Symbol         string   `json:"symbol"`
	Name           string   `json:"name"`
	Quantity       Quantity `json:"quantity"`
	Unit           string   `json:"unit"`
	CostBasisUnit  *Money   `json:"costBasisUnit"`
	LastKnownPrice *Money   `json:"lastKnownPrice"`
	PriceSource    string   `json:"priceSource"`
	LastUpdated    string   `json:"lastUpdated"`
}

func (c holdingCmd) holding() (Holding, error) {
	class, err := ParseAssetClass(c.Class)
	if err != nil {
		return Holding{}, err
	}
	h := Holding{
		Class:    class,
		Symbol:   NormalizeSymbol(c.Symbol),
		Name:     c.Name,
		Quantity: c.Quantity,
		Unit:     c.Unit,
		Source:   parsePriceSource(c.PriceSource),
	}
	if c.CostBasisUnit != nil {
		h.CostBasisUnit = *c.CostBasisUnit
	}
	if c.LastKnownPrice != nil {
		h.LastKnownPrice = *c.LastKnownPrice
	}
	if c.LastUpdated != "" {
		t, err := time.Parse(time.RFC3339, c.LastUpdated)
		if err != nil {
			return Holding{}, fmt.Errorf("invalid lastUpdated for %s: %w", h.Key(), err)
		}
		h.LastUpdated = t
	}
	return h, h.Validate()
}

// EncodeLedger writes the ledger as a single canonical JSON document.
// Holdings are sorted by key so that encoding is deterministic: saving an
// unchanged ledger reproduces the previous bytes exactly.
func EncodeLedger(w io.Writer, l *Ledger) error {
	var doc jsonObjectWriter
	doc.Append("version", l.version)
	doc.Append("currency", l.currency)
	if !l.cash.IsZero() {
		doc.Append("cash", l.cash)
	}

	holdings := make([]json.RawMessage, 0, l.Len())
	for h := range l.Holdings() {
		b, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("failed to marshal holding %s: %w", h.Key(), err)
		}
		holdings = append(holdings, b)
	}
	doc.Append("holdings", holdings)

	data, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write ledger: %w", err)
	}
	return nil
}

// DecodeLedger reads a ledger document produced by EncodeLedger.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	var doc struct {
		Version  int          `json:"version"`
		Currency string       `json:"currency"`
		Cash     *Money       `json:"cash"`
		Holdings []holdingCmd `json:"holdings"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("could not decode ledger document: %w", err)
	}
	if doc.Version > LedgerVersion {
		return nil, fmt.Errorf("unsupported ledger version %d (this build reads up to %d)", doc.Version, LedgerVersion)
	}

	l := NewLedger(doc.Currency)
	if doc.Cash != nil {
		if doc.Cash.IsNegative() {
			return nil, &ValidationError{Kind: NegativeCash, Value: doc.Cash.String()}
		}
		l.cash = *doc.Cash
	}
	for _, c := range doc.Holdings {
		h, err := c.holding()
		if err != nil {
			return nil, fmt.Errorf("invalid holding in ledger document: %w", err)
		}
		l.holdings[h.Key()] = h
	}
	return l, nil
}
