// Package dashboard is the cached service layer between callers and the
// trading API.
//
// Every read goes through a cache.Gate under a key from the cache key
// catalogue. Every mutation first applies its invalidation rule through a
// cache.Router and only then calls the upstream, so a reader racing the
// mutation may repopulate the cache with pre-mutation data until the next
// expiry. Alert checks and health probes are never cached.
package dashboard
