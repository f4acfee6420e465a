package tracker

import (
	"context"
	"fmt"
	"time"
)

// QuoteSource identifies where a quote's price came from.
type QuoteSource int

const (
	// LiveAPI is a price returned by an external feed during this run.
	LiveAPI QuoteSource = iota
	// FallbackCache is a previously fetched price reused after a feed failure.
	FallbackCache
	// ManualEntry is a price typed in by the user.
	ManualEntry
)

func (s QuoteSource) String() string {
	switch s {
	case LiveAPI:
		return "live-api"
	case FallbackCache:
		return "fallback-cache"
	case ManualEntry:
		return "manual-entry"
	default:
		return "unknown"
	}
}

// Confidence qualifies how much a quote can be trusted.
type Confidence int

const (
	// Fresh quotes were resolved during the current run.
	Fresh Confidence = iota
	// Stale quotes come from a prior successful fetch.
	Stale
	// Unknown quotes carry no usable price. They must never override a
	// holding's existing last known price.
	Unknown
)

func (c Confidence) String() string {
	switch c {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "unknown"
	}
}

// PriceQuote is the result of one feed lookup for one symbol.
type PriceQuote struct {
	Symbol     string
	UnitPrice  Money
	AsOf       time.Time
	Source     QuoteSource
	Confidence Confidence
}

// Feed fetches a current unit price for a symbol from an external source.
//
// Implementations are stateless; the context bounds the call (callers attach
// the timeout). All failures are returned as *FeedError values: a feed never
// panics past this boundary.
type Feed interface {
	FetchPrice(ctx context.Context, symbol string) (PriceQuote, error)
}

// FeedErrorKind classifies a feed failure.
type FeedErrorKind int

const (
	// FeedTimeout is a network timeout or cancelled context.
	FeedTimeout FeedErrorKind = iota
	// FeedUnreachable is a connection failure or unexpected HTTP status.
	FeedUnreachable
	// FeedNotFound means the feed does not know the symbol.
	FeedNotFound
	// FeedParseError means the response body had an unexpected shape.
	FeedParseError
	// FeedUnauthorized means the feed rejected the credentials.
	FeedUnauthorized
)

func (k FeedErrorKind) String() string {
	switch k {
	case FeedTimeout:
		return "timeout"
	case FeedUnreachable:
		return "unreachable"
	case FeedNotFound:
		return "not found"
	case FeedParseError:
		return "parse error"
	case FeedUnauthorized:
		return "unauthorized"
	default:
		return "error"
	}
}

// FeedError is a typed feed failure, recoverable by the refresh orchestrator.
type FeedError struct {
	Kind   FeedErrorKind
	Symbol string
	Err    error
}

func (e *FeedError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("feed %s for %q", e.Kind, e.Symbol)
	}
	return fmt.Sprintf("feed %s for %q: %v", e.Kind, e.Symbol, e.Err)
}

func (e *FeedError) Unwrap() error { return e.Err }
