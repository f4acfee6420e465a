// Package tracker provides the core model for a local, single-user
// investment tracker that aggregates cryptocurrency, precious metal and
// brokerage equity positions into a unified portfolio view.
//
// The core functionalities include:
//   - Ledger Management: a versioned collection of holdings keyed by asset
//     class and symbol, persisted atomically as a single JSON document.
//   - Price Feeds: a uniform Feed interface implemented by provider
//     subpackages (coingecko, goldapi, robinhood), returning typed
//     PriceQuote values or typed FeedError values, never panics.
//   - Valuation Engine: a pure, deterministic calculator that derives
//     market values, unrealized P&L and asset-class allocations from a
//     ledger and a set of resolved quotes.
//   - Refresh Orchestration: a one-pass price refresh over all holdings
//     that tolerates partial feed failures, falling back to last known
//     prices and surfacing the failed symbols to the caller.
//
// This package serves as the foundational logic for the `pt` command-line
// tool; presentation and terminal prompting live outside of it.
package tracker
