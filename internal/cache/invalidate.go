package cache

import (
	"errors"
	"fmt"
)

// Rule names what a mutating operation must evict: exact keys and
// regular-expression patterns.
type Rule struct {
	Name     string
	Keys     []string
	Patterns []string
}

// Router applies invalidations to a store on behalf of mutating flows.
// Every call is synchronous: once it returns, reads of matched keys miss.
type Router struct {
	store *Store
}

// NewRouter creates a router over store.
func NewRouter(store *Store) *Router {
	return &Router{store: store}
}

// Invalidate removes each key.
func (r *Router) Invalidate(keys ...string) {
	for _, key := range keys {
		r.store.Invalidate(key)
	}
}

// InvalidatePrefix removes every key matching each namespace pattern, for
// example "stocks:". Patterns are unanchored regular expressions whatever
// matcher the store uses for InvalidatePattern. All patterns are attempted;
// compile errors are joined and returned.
func (r *Router) InvalidatePrefix(patterns ...string) error {
	var errs []error
	for _, p := range patterns {
		m, err := RegexMatcher(p)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalidate pattern %q: %w", p, err))
			continue
		}
		r.store.InvalidateMatching(m)
	}
	return errors.Join(errs...)
}

// Apply evicts the rule's keys, then its patterns.
func (r *Router) Apply(rule Rule) error {
	r.Invalidate(rule.Keys...)
	if err := r.InvalidatePrefix(rule.Patterns...); err != nil {
		return fmt.Errorf("rule %s: %w", rule.Name, err)
	}
	r.store.logger.Debug().
		Str("rule", rule.Name).
		Strs("keys", rule.Keys).
		Strs("patterns", rule.Patterns).
		Msg("cache invalidation applied")
	return nil
}
