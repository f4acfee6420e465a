package tracker

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Percent is an allocation or performance percentage, already rounded for display.
type Percent float64

// NewPercent computes part/total as a percentage rounded to one decimal
// place using round-half-to-even. A zero total yields exactly 0 for every
// part, never a division error.
func NewPercent(part, total Money) Percent {
	if total.IsZero() {
		return 0
	}
	ratio := part.Decimal().Div(total.Decimal()).Mul(decimal.NewFromInt(100))
	return Percent(ratio.RoundBank(1).InexactFloat64())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.1f%%", float64(p))
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.1f%%", float64(p))
	if res == "+0.0%" {
		return "-"
	}
	return res
}
