// Package cache provides the in-process TTL cache that sits between finboard's
// service layer and the remote trading API.
//
// Key features:
//   - Store: string keys mapped to timestamped values with a per-entry TTL
//   - Policy: default TTLs chosen by namespace substring (stocks, cryptos, positions, summary)
//   - Gate: cache-aside wrapper around a producer with a stale-copy fallback on failure
//   - Router: exact-key and pattern-based invalidation used by mutating flows
//   - Stats/Info: introspection for diagnostics
//
// The cache is advisory. Losing it changes latency and upstream traffic, never
// correctness. Nothing is persisted and there is no size bound.
//
// Expired entries are removed lazily on Get/Has, by a sweep after every Set,
// and optionally by a background janitor (see Store.RunJanitor). Stats reports
// the raw map without sweeping first, so it can briefly list expired keys.
package cache
