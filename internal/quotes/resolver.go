package quotes

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MuzPas1/fleety-mobile/pkg/config"
	"github.com/MuzPas1/fleety-mobile/pkg/logger"
	"github.com/MuzPas1/fleety-mobile/pkg/quoting"
)

// Fetcher is the external quote-service surface the resolver depends on.
type Fetcher interface {
	GetQuote(ctx context.Context, restaurantID, addressID string) (quoting.Quote, error)
}

type quoteCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	QuoteKey(restaurantID, addressID string) string
}

type cartReader interface {
	IsEmpty(userID string) bool
	RestaurantID(userID string) string
}

// Resolver owns delivery-quote resolution for the bill. It skips the
// external call while the cart is empty, serves a short-lived cache, and
// keeps the last successfully resolved quote per user so a transient
// quote-service failure never blanks an already-priced cart.
type Resolver struct {
	fetcher  Fetcher
	cache    quoteCache
	carts    cartReader
	log      *logger.Logger
	cacheTTL time.Duration

	mu      sync.Mutex
	nextGen map[string]uint64
	applied map[string]uint64
	last    map[string]quoting.Quote
}

// NewResolver builds a resolver. The cache is optional; everything else
// is required.
func NewResolver(fetcher Fetcher, cache quoteCache, carts cartReader, log *logger.Logger, cfg config.QuotingConfig) (*Resolver, error) {
	if fetcher == nil {
		return nil, fmt.Errorf("quote fetcher required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart reader required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &Resolver{
		fetcher:  fetcher,
		cache:    cache,
		carts:    carts,
		log:      log,
		cacheTTL: ttl,
		nextGen:  make(map[string]uint64),
		applied:  make(map[string]uint64),
		last:     make(map[string]quoting.Quote),
	}, nil
}

// Resolve returns the quote to price the user's current cart against.
//
// An empty cart resolves to a zero quote without touching the external
// service. A fetch failure is logged and the previous successfully
// resolved quote (or zero) is returned instead of an error, so the bill
// keeps rendering. When overlapping resolutions complete out of order,
// the one started last wins.
func (r *Resolver) Resolve(ctx context.Context, userID, addressID string) (quoting.Quote, error) {
	if r.carts.IsEmpty(userID) {
		return quoting.Quote{}, nil
	}
	restaurantID := r.carts.RestaurantID(userID)
	if restaurantID == "" {
		return quoting.Quote{}, nil
	}

	gen := r.begin(userID)

	if cached, ok := r.fromCache(ctx, restaurantID, addressID); ok {
		return r.commit(userID, gen, cached), nil
	}

	quote, err := r.fetcher.GetQuote(ctx, restaurantID, addressID)
	if err != nil {
		r.log.Error(ctx, "quote fetch failed, serving last resolved quote", err)
		return r.LastResolved(userID), nil
	}

	r.storeCache(ctx, restaurantID, addressID, quote)
	return r.commit(userID, gen, quote), nil
}

// LastResolved returns the most recent successfully resolved quote for
// the user, or a zero quote when none has resolved yet.
func (r *Resolver) LastResolved(userID string) quoting.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last[userID]
}

// Invalidate drops the retained quote, forcing the next Resolve to fetch.
// Called after order placement empties the cart. Restaurant or address
// changes need no invalidation, they resolve under a different
// (restaurant, address) cache key.
func (r *Resolver) Invalidate(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.last, userID)
	delete(r.applied, userID)
}

func (r *Resolver) begin(userID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextGen[userID]++
	return r.nextGen[userID]
}

// commit records the quote unless a later-started resolution already
// landed, and returns whichever quote is current afterwards.
func (r *Resolver) commit(userID string, gen uint64, quote quoting.Quote) quoting.Quote {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen >= r.applied[userID] {
		r.applied[userID] = gen
		r.last[userID] = quote
	}
	return r.last[userID]
}

func (r *Resolver) fromCache(ctx context.Context, restaurantID, addressID string) (quoting.Quote, bool) {
	if r.cache == nil {
		return quoting.Quote{}, false
	}
	raw, err := r.cache.Get(ctx, r.cache.QuoteKey(restaurantID, addressID))
	if err != nil || raw == "" {
		return quoting.Quote{}, false
	}
	var quote quoting.Quote
	if err := json.Unmarshal([]byte(raw), &quote); err != nil {
		return quoting.Quote{}, false
	}
	return quote, true
}

func (r *Resolver) storeCache(ctx context.Context, restaurantID, addressID string, quote quoting.Quote) {
	if r.cache == nil {
		return
	}
	payload, err := json.Marshal(quote)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, r.cache.QuoteKey(restaurantID, addressID), payload, r.cacheTTL); err != nil {
		r.log.Warn(ctx, "quote cache write failed")
	}
}
