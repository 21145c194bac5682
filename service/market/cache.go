package market

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	ex "stockanalyzer/data/extensions"
	"stockanalyzer/service/metrics"
	m "stockanalyzer/service/models"
)

const DefaultQuoteTTL = 60 * time.Second

// QuoteCache sits in front of the provider. Entries younger than the ttl are
// served verbatim, concurrent misses for one symbol share a single upstream call.
type QuoteCache struct {
	provider Provider
	store    CacheStore
	ttl      time.Duration
	workers  int
	metrics  *metrics.Metrics
	group    singleflight.Group
	now      func() time.Time
}

func NewQuoteCache(provider Provider, store CacheStore, ttl time.Duration, workers int, mt *metrics.Metrics) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultQuoteTTL
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &QuoteCache{
		provider: provider,
		store:    store,
		ttl:      ttl,
		workers:  ex.Max(workers, 1),
		metrics:  mt,
		now:      time.Now,
	}
}

// Get returns the cached quote or fetches it. Provider errors are returned
// unchanged and nothing is stored for them.
func (qc *QuoteCache) Get(ctx context.Context, symbol string) (*m.Quote, error) {
	key := ex.NormalizeSymbol(symbol)
	if key == "" {
		return nil, fmt.Errorf("%w: empty symbol", ErrNoData)
	}

	entry, err := qc.store.Get(ctx, key)
	if err != nil {
		slog.Warn("quote cache read failed, treating as miss", "symbol", key, "error", err)
	}
	if entry != nil && qc.fresh(entry) {
		qc.metrics.ObserveCacheLookup(metrics.CacheHit)
		payload := entry.Payload
		return &payload, nil
	}

	v, err, shared := qc.group.Do(key, func() (any, error) {
		// the fetch outlives any single waiting request
		fetchCtx := context.WithoutCancel(ctx)

		// a flight that finished between our read and Do already stored a fresh entry
		if entry, err := qc.store.Get(fetchCtx, key); err == nil && entry != nil && qc.fresh(entry) {
			return entry.Payload, nil
		}

		quote, err := qc.provider.FetchQuote(fetchCtx, key)
		if err != nil {
			return nil, err
		}
		quote.Symbol = key

		entry := CacheEntry{Symbol: key, Payload: *quote, FetchedAt: qc.now()}
		if err := qc.store.Set(fetchCtx, entry, qc.ttl); err != nil {
			slog.Warn("quote cache write failed", "symbol", key, "error", err)
		}
		return entry.Payload, nil
	})

	if shared {
		qc.metrics.ObserveCacheLookup(metrics.CacheShared)
	} else {
		qc.metrics.ObserveCacheLookup(metrics.CacheMiss)
	}
	if err != nil {
		return nil, err
	}

	payload := v.(m.Quote)
	return &payload, nil
}

func (qc *QuoteCache) fresh(entry *CacheEntry) bool {
	return qc.now().Sub(entry.FetchedAt) < qc.ttl
}

// Lookup is Get with the static fallback table behind it. The boolean is false
// only when neither the provider nor the table know the symbol.
func (qc *QuoteCache) Lookup(ctx context.Context, symbol string) (*m.Quote, bool) {
	quote, err := qc.Get(ctx, symbol)
	if err == nil {
		return quote, true
	}

	slog.Info("quote provider failed, using static quote", "symbol", symbol, "error", err)
	return StaticQuote(symbol, qc.now())
}

// LookupMany resolves symbols concurrently, keeping input order and skipping unknown symbols
func (qc *QuoteCache) LookupMany(ctx context.Context, symbols []string) []m.Quote {
	results := make([]*m.Quote, len(symbols))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(qc.workers)
	for i, symbol := range symbols {
		g.Go(func() error {
			if quote, ok := qc.Lookup(gctx, symbol); ok {
				results[i] = quote
			}
			return nil
		})
	}
	_ = g.Wait()

	quotes := make([]m.Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}
