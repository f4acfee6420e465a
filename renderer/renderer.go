// Package renderer turns valuation snapshots into markdown reports.
// No business logic lives here: it formats the typed results computed by
// the tracker package.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/tracker"
)

// SummaryMarkdown renders the portfolio overview: one row per non-empty
// asset class with its value and allocation, then the grand total.
func SummaryMarkdown(s *tracker.ValuationSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Portfolio Summary\n\n")

	if s.Total.IsZero() && len(s.Holdings) == 0 {
		fmt.Fprintln(&b, "No holdings yet. Use `pt add` to add your first position.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Asset Class | Holdings | Value | Allocation |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|")
	for _, c := range s.Classes {
		fmt.Fprintf(&b, "| %s | %d | %s | %s |\n", classLabel(c.Class), c.Count, c.Subtotal, c.Allocation)
	}
	if !s.Cash.IsZero() {
		fmt.Fprintf(&b, "| Cash | | %s | %s |\n", s.Cash, s.CashAllocation())
	}
	fmt.Fprintf(&b, "| **TOTAL** | | **%s** | |\n", s.Total)

	renderWarnings(&b, s)
	return b.String()
}

// HoldingsMarkdown renders the detailed per-holding tables, one section per
// non-empty asset class.
func HoldingsMarkdown(s *tracker.ValuationSnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Holdings\n\n")

	for _, c := range s.Classes {
		fmt.Fprintf(&b, "## %s\n\n", classLabel(c.Class))
		fmt.Fprintln(&b, "| Symbol | Quantity | Avg Cost | Price | Value | P&L | Notes |")
		fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|---:|:---|")
		for _, v := range s.Holdings {
			if v.Holding.Class != c.Class {
				continue
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
				symbolLabel(v.Holding),
				quantityLabel(v.Holding),
				costLabel(v.Holding),
				priceLabel(v),
				v.MarketValue,
				pnlLabel(v),
				notesLabel(v),
			)
		}
		fmt.Fprintf(&b, "| **Subtotal** | | | | **%s** | | %s |\n\n", c.Subtotal, c.Allocation)
	}
	if !s.Cash.IsZero() {
		fmt.Fprintf(&b, "**Cash: %s**\n\n", s.Cash)
	}
	fmt.Fprintf(&b, "**Total: %s**\n", s.Total)

	renderWarnings(&b, s)
	return b.String()
}

func renderWarnings(b *strings.Builder, s *tracker.ValuationSnapshot) {
	if len(s.Failed) > 0 {
		fmt.Fprintf(b, "\n> ⚠ could not refresh: %s\n", strings.Join(s.Failed, ", "))
	}
	for _, v := range s.Warnings() {
		if v.Flagged(tracker.FlagStale) {
			fmt.Fprintf(b, "> %s priced from its last known value", v.Holding.Symbol)
			if !v.Holding.LastUpdated.IsZero() {
				fmt.Fprintf(b, " (%s)", v.Holding.LastUpdated.Format("2006-01-02"))
			}
			fmt.Fprintln(b)
		}
		if v.Flagged(tracker.FlagManualFallback) {
			fmt.Fprintf(b, "> %s priced from a manual entry\n", v.Holding.Symbol)
		}
	}
}

func classLabel(c tracker.AssetClass) string {
	switch c {
	case tracker.Crypto:
		return "Cryptocurrency"
	case tracker.Metal:
		return "Precious Metals"
	case tracker.Equity:
		return "Equities"
	default:
		return c.String()
	}
}

func symbolLabel(h tracker.Holding) string {
	if h.Name != "" && h.Name != h.Symbol {
		return fmt.Sprintf("%s (%s)", h.Symbol, h.Name)
	}
	return h.Symbol
}

func quantityLabel(h tracker.Holding) string {
	if h.Class == tracker.Metal && h.Unit != "" {
		return fmt.Sprintf("%s %s", h.Quantity, h.Unit)
	}
	return h.Quantity.String()
}

func costLabel(h tracker.Holding) string {
	if h.CostBasisUnit.IsZero() {
		return "-"
	}
	return h.CostBasisUnit.String()
}

func priceLabel(v tracker.HoldingValue) string {
	if v.Flagged(tracker.FlagUnpriced) {
		return "-"
	}
	return v.EffectivePrice.String()
}

func pnlLabel(v tracker.HoldingValue) string {
	if v.PnL == nil {
		return "-"
	}
	return v.PnL.SignedString()
}

func notesLabel(v tracker.HoldingValue) string {
	if len(v.Flags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(v.Flags))
	for _, f := range v.Flags {
		parts = append(parts, string(f))
	}
	return strings.Join(parts, ", ")
}
