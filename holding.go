package tracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetClass identifies the kind of asset a holding represents.
type AssetClass int

const (
	// Crypto is a cryptocurrency position priced by a crypto feed.
	Crypto AssetClass = iota
	// Metal is a physical precious metal position priced per troy ounce.
	Metal
	// Equity is a brokerage stock position.
	Equity
)

func (c AssetClass) String() string {
	switch c {
	case Crypto:
		return "crypto"
	case Metal:
		return "metal"
	case Equity:
		return "equity"
	default:
		return "unknown"
	}
}

// ParseAssetClass parses a string into an AssetClass.
func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "crypto":
		return Crypto, nil
	case "metal":
		return Metal, nil
	case "equity":
		return Equity, nil
	default:
		return 0, &ValidationError{Kind: UnknownAssetClass, Value: s}
	}
}

// AssetClasses lists all classes in display order.
func AssetClasses() []AssetClass { return []AssetClass{Crypto, Metal, Equity} }

// PriceSource records where a holding's last known price came from.
type PriceSource int

const (
	// SourceLive means the price was fetched from a live feed.
	SourceLive PriceSource = iota
	// SourceManual means the price was entered by the user.
	SourceManual
	// SourceCached means the price is a previously fetched value kept after
	// a failed refresh.
	SourceCached
)

func (s PriceSource) String() string {
	switch s {
	case SourceLive:
		return "live"
	case SourceManual:
		return "manual"
	case SourceCached:
		return "cached"
	default:
		return "unknown"
	}
}

func parsePriceSource(s string) PriceSource {
	switch s {
	case "manual":
		return SourceManual
	case "cached":
		return SourceCached
	default:
		return SourceLive
	}
}

// gramsPerTroyOunce is the exact conversion constant for precious metals.
var gramsPerTroyOunce = decimal.NewFromFloat(31.1034768)

// Holding is one owned position in a single asset.
//
// A zero CostBasisUnit means the basis is unknown: P&L is not computed for
// the holding and it is flagged accordingly in valuation snapshots. A zero
// LastKnownPrice means the holding has never been priced.
type Holding struct {
	Class          AssetClass
	Symbol         string // uppercase-normalized identifier
	Name           string // optional display name (e.g. the coin's full name)
	Quantity       Quantity
	Unit           string // metals only: "oz" (default) or "g"
	CostBasisUnit  Money  // average cost per unit, zero when unknown
	LastKnownPrice Money  // last successfully resolved unit price
	LastUpdated    time.Time
	Source         PriceSource
}

// NormalizeSymbol uppercases and trims a symbol.
func NormalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// Key returns the identity of the holding within a ledger.
func (h Holding) Key() string { return h.Class.String() + "/" + h.Symbol }

// OunceQuantity returns the quantity converted to troy ounces for metals
// entered in grams. All other holdings are returned unchanged.
func (h Holding) OunceQuantity() Quantity {
	if h.Class != Metal {
		return h.Quantity
	}
	switch strings.ToLower(h.Unit) {
	case "g", "gram", "grams":
		return Quantity{value: h.Quantity.value.Div(gramsPerTroyOunce)}
	default:
		return h.Quantity
	}
}

// Validate checks the holding for correctness before it is written to a ledger.
func (h Holding) Validate() error {
	if h.Symbol == "" {
		return &ValidationError{Kind: EmptySymbol}
	}
	if h.Quantity.IsNegative() {
		return &ValidationError{Kind: NegativeQuantity, Value: h.Quantity.String()}
	}
	return nil
}

// ValidationErrorKind enumerates the ways a ledger mutation can be rejected.
type ValidationErrorKind int

const (
	NegativeQuantity ValidationErrorKind = iota
	EmptySymbol
	UnknownAssetClass
	NegativeCash
)

func (k ValidationErrorKind) String() string {
	switch k {
	case NegativeQuantity:
		return "negative quantity"
	case EmptySymbol:
		return "empty symbol"
	case UnknownAssetClass:
		return "unknown asset class"
	case NegativeCash:
		return "negative cash balance"
	default:
		return "invalid"
	}
}

// ValidationError rejects a ledger mutation before any store write.
type ValidationError struct {
	Kind  ValidationErrorKind
	Value string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid: %s", e.Kind)
	}
	return fmt.Sprintf("invalid: %s (%q)", e.Kind, e.Value)
}
