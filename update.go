package tracker

import (
	"context"
	"errors"
	"log"
	"slices"
	"sync"
	"time"
)

// DefaultFetchTimeout bounds a single feed call.
const DefaultFetchTimeout = 10 * time.Second

// DefaultWorkers bounds the number of in-flight feed calls during a refresh.
const DefaultWorkers = 4

// ManualResolver supplies a price for a holding whose feeds failed.
// The terminal prompting implementation lives in the CLI layer; tests and
// non-interactive runs simply leave it nil.
type ManualResolver interface {
	// ResolvePrice returns the unit price for the holding, or false to skip it.
	ResolvePrice(h Holding) (Money, bool)
}

// Refresher walks all holdings needing a price refresh, applies the
// partial-failure policy and writes the updated ledger through the store.
type Refresher struct {
	Store  Store
	Feeds  map[AssetClass]Feed
	Manual ManualResolver // optional
	Now    func() time.Time

	// Workers bounds concurrent fetches (DefaultWorkers when zero). Fetches
	// for distinct holdings are independent; bounding them is a latency
	// optimization, the partial-failure policy holds regardless of ordering.
	Workers int
	// Timeout bounds each individual fetch (DefaultFetchTimeout when zero).
	Timeout time.Duration
}

// Refresh performs one refresh pass: load the ledger, fetch a quote per
// holding (all of them, or only the given symbols), fold the results back
// into the ledger, value it, persist it, and return the snapshot.
//
// A feed failure never aborts the batch: the holding keeps its last known
// price unchanged, its source becomes cached, and its symbol joins the
// snapshot's failure list. Only store errors are fatal.
func (r *Refresher) Refresh(ctx context.Context, symbols ...string) (*ValuationSnapshot, error) {
	ledger, err := r.Store.Load()
	if err != nil {
		return nil, err
	}

	targets := r.targets(ledger, symbols)
	quotes, failed := r.fetchAll(ctx, targets)

	// Manually resolve what the feeds could not.
	if r.Manual != nil {
		still := failed[:0]
		for _, sym := range failed {
			h, _ := findHolding(targets, sym)
			price, ok := r.Manual.ResolvePrice(h)
			if !ok || price.IsZero() {
				still = append(still, sym)
				continue
			}
			quotes[sym] = PriceQuote{
				Symbol:     sym,
				UnitPrice:  price,
				AsOf:       r.now(),
				Source:     ManualEntry,
				Confidence: Fresh,
			}
		}
		failed = still
	}

	// Fold resolved quotes back into the ledger. Failed holdings keep their
	// last known price untouched.
	for _, h := range targets {
		q, ok := quotes[h.Symbol]
		if ok && q.Confidence == Fresh {
			h.LastKnownPrice = q.UnitPrice
			h.LastUpdated = q.AsOf
			if q.Source == ManualEntry {
				h.Source = SourceManual
			} else {
				h.Source = SourceLive
			}
		} else {
			h.Source = SourceCached
		}
		ledger.holdings[h.Key()] = h
	}

	snapshot := Value(ledger, quotes)
	slices.Sort(failed)
	snapshot.Failed = failed

	if err := r.Store.Save(ledger); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// targets selects the holdings to refresh: all of them, or the subset whose
// symbol is listed.
func (r *Refresher) targets(l *Ledger, symbols []string) []Holding {
	var wanted map[string]bool
	if len(symbols) > 0 {
		wanted = make(map[string]bool, len(symbols))
		for _, s := range symbols {
			wanted[NormalizeSymbol(s)] = true
		}
	}
	var out []Holding
	for h := range l.Holdings() {
		if wanted == nil || wanted[h.Symbol] {
			out = append(out, h)
		}
	}
	return out
}

// fetchAll issues one feed call per holding through a bounded worker pool.
// Each call has its own timeout so a hung feed cannot block the others.
func (r *Refresher) fetchAll(ctx context.Context, targets []Holding) (map[string]PriceQuote, []string) {
	workers := r.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	quotes := make(map[string]PriceQuote, len(targets))
	var failed []string

	// Partition out holdings whose class has no configured feed (e.g. no
	// brokerage credentials) before any worker starts, so the failure list
	// is only ever appended to under the mutex below.
	var fetchable []Holding
	for _, h := range targets {
		if _, ok := r.Feeds[h.Class]; !ok {
			failed = append(failed, h.Symbol)
			continue
		}
		fetchable = append(fetchable, h)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)
	for _, h := range fetchable {
		feed := r.Feeds[h.Class]

		wg.Add(1)
		sem <- struct{}{}
		go func(h Holding, feed Feed) {
			defer wg.Done()
			defer func() { <-sem }()

			cctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			quote, err := feed.FetchPrice(cctx, h.Symbol)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				var fe *FeedError
				if errors.As(err, &fe) {
					log.Printf("%s %s: feed %s, keeping last known price", h.Class, h.Symbol, fe.Kind)
				} else {
					log.Printf("%s %s: feed error %v, keeping last known price", h.Class, h.Symbol, err)
				}
				failed = append(failed, h.Symbol)
				return
			}
			if quote.Confidence == Unknown || quote.UnitPrice.IsZero() {
				// An unknown quote must never override the last known price.
				failed = append(failed, h.Symbol)
				return
			}
			quotes[h.Symbol] = quote
		}(h, feed)
	}
	wg.Wait()
	return quotes, failed
}

func (r *Refresher) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func findHolding(hs []Holding, symbol string) (Holding, bool) {
	for _, h := range hs {
		if h.Symbol == symbol {
			return h, true
		}
	}
	return Holding{}, false
}
