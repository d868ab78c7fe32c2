package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// staleSuffix is appended to a key to form its stale-copy slot.
const staleSuffix = ":stale"

// StaleKey returns the key of the stale copy consulted when the producer for
// key fails.
func StaleKey(key string) string {
	return key + staleSuffix
}

// Producer fetches a fresh value on a cache miss.
type Producer[T any] func(ctx context.Context) (T, error)

// Gate is a cache-aside wrapper around a Store.
//
// By default the gate neither coalesces concurrent misses nor writes stale
// copies. The stale fallback therefore only fires when something else has
// populated key+":stale"; enable WithStaleCopy to have the gate maintain that
// slot itself.
type Gate struct {
	store *Store

	coalesce bool
	group    singleflight.Group

	// staleTTL > 0 makes every successful fill also write a stale copy.
	staleTTL time.Duration

	// bypass sends every request straight to the producer.
	bypass bool

	logger zerolog.Logger

	hits        atomic.Int64
	misses      atomic.Int64
	staleServed atomic.Int64
	failures    atomic.Int64
	shared      atomic.Int64
}

// GateOption configures a Gate.
type GateOption func(*Gate)

// WithCoalescing makes concurrent misses on the same key share one producer
// call. Waiters receive the leader's result or error. The shared call runs
// without the leader's cancellation, so one caller giving up neither cancels
// the producer nor fails the others; each caller stops waiting when its own
// context is done.
func WithCoalescing() GateOption {
	return func(g *Gate) {
		g.coalesce = true
	}
}

// WithStaleCopy writes a copy of every successful result to StaleKey(key)
// with the given TTL, so later producer failures can degrade to it.
// A ttl <= 0 leaves stale copies disabled.
func WithStaleCopy(ttl time.Duration) GateOption {
	return func(g *Gate) {
		g.staleTTL = ttl
	}
}

// WithBypass disables caching: every request calls the producer and nothing
// is read from or written to the store.
func WithBypass() GateOption {
	return func(g *Gate) {
		g.bypass = true
	}
}

// WithGateLogger sets the logger for hit/miss/stale events.
func WithGateLogger(l zerolog.Logger) GateOption {
	return func(g *Gate) {
		g.logger = l
	}
}

// NewGate creates a gate over store.
func NewGate(store *Store, opts ...GateOption) *Gate {
	g := &Gate{
		store:  store,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Store returns the underlying store.
func (g *Gate) Store() *Store {
	return g.store
}

// GateStats counts gate outcomes since creation.
type GateStats struct {
	Hits        int64 `json:"hits"`
	Misses      int64 `json:"misses"`
	StaleServed int64 `json:"stale_served"`
	Failures    int64 `json:"failures"`
	Shared      int64 `json:"shared"`
}

// Stats returns the gate counters.
func (g *Gate) Stats() GateStats {
	return GateStats{
		Hits:        g.hits.Load(),
		Misses:      g.misses.Load(),
		StaleServed: g.staleServed.Load(),
		Failures:    g.failures.Load(),
		Shared:      g.shared.Load(),
	}
}

// CachedRequest returns the live value cached under key, or calls produce on
// a miss and caches its result with ttl (ttl <= 0 uses the store policy).
//
// On a hit produce is not called. When produce fails, the value at
// StaleKey(key) is returned if present; otherwise the producer's error is
// returned unchanged.
func CachedRequest[T any](
	ctx context.Context,
	g *Gate,
	key string,
	produce Producer[T],
	ttl time.Duration,
) (T, error) {
	if g.bypass {
		return produce(ctx)
	}

	if v, ok := GetAs[T](g.store, key); ok {
		g.hits.Add(1)
		g.logger.Debug().Ctx(ctx).Str("key", key).Msg("cache hit")
		return v, nil
	}

	g.misses.Add(1)
	g.logger.Debug().Ctx(ctx).Str("key", key).Msg("cache miss, calling producer")

	result, err := load(ctx, g, key, produce, ttl)
	if err == nil {
		return result, nil
	}

	g.failures.Add(1)
	if stale, ok := GetAs[T](g.store, StaleKey(key)); ok {
		g.staleServed.Add(1)
		g.logger.Warn().Ctx(ctx).Err(err).Str("key", key).Msg("producer failed, serving stale copy")
		return stale, nil
	}

	var zero T
	return zero, err
}

// load runs fill directly, or through the singleflight group when
// coalescing is enabled.
func load[T any](ctx context.Context, g *Gate, key string, produce Producer[T], ttl time.Duration) (T, error) {
	if !g.coalesce {
		return fill(ctx, g, key, produce, ttl)
	}

	ch := g.group.DoChan(key, func() (any, error) {
		return fill(context.WithoutCancel(ctx), g, key, produce, ttl)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res = <-ch:
	}

	if res.Shared {
		g.shared.Add(1)
	}
	if res.Err != nil {
		var zero T
		return zero, res.Err
	}

	typed, ok := res.Val.(T)
	if !ok {
		// Two callers coalesced on one key with different result types.
		var zero T
		return zero, fmt.Errorf("cache key %q: coalesced result has type %T", key, res.Val)
	}
	return typed, nil
}

// fill calls the producer and writes a successful result (and its stale
// copy, when enabled) to the store.
func fill[T any](ctx context.Context, g *Gate, key string, produce Producer[T], ttl time.Duration) (T, error) {
	result, err := produce(ctx)
	if err != nil {
		return result, err
	}

	g.store.Set(key, result, ttl)
	if g.staleTTL > 0 {
		g.store.Set(StaleKey(key), result, g.staleTTL)
	}
	return result, nil
}
