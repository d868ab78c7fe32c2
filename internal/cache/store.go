package cache

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Store is an in-memory TTL key-value store. It is safe for concurrent use;
// every operation takes the same mutex and none performs I/O while holding it.
type Store struct {
	// mu protects entries.
	mu sync.Mutex

	// entries holds at most one entry per key.
	entries map[string]*Entry

	clock  Clock
	policy *Policy

	// compile turns an invalidation pattern into a Matcher.
	compile func(pattern string) (Matcher, error)

	// writeSweep controls the full expiry sweep after every Set.
	writeSweep bool

	logger zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(s *Store) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithPolicy sets the default-TTL policy.
func WithPolicy(p *Policy) Option {
	return func(s *Store) {
		if p != nil {
			s.policy = p
		}
	}
}

// WithLogger sets the logger used for sweep and invalidation events.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithoutWriteSweep disables the O(n) sweep that follows every Set. Expired
// entries are then removed only on read, by Sweep, or by RunJanitor.
func WithoutWriteSweep() Option {
	return func(s *Store) {
		s.writeSweep = false
	}
}

// WithMatcherFactory replaces the regular-expression compiler used by
// InvalidatePattern.
func WithMatcherFactory(f func(pattern string) (Matcher, error)) Option {
	return func(s *Store) {
		if f != nil {
			s.compile = f
		}
	}
}

// New creates an empty store. Without options it uses the wall clock, the
// default namespace policy, regex invalidation and the write-triggered sweep.
func New(opts ...Option) *Store {
	s := &Store{
		entries:    make(map[string]*Entry),
		clock:      SystemClock(),
		policy:     DefaultPolicy(),
		compile:    RegexMatcher,
		writeSweep: true,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Set stores value under key, replacing any previous entry. A ttl <= 0 means
// "use the policy default for this key". Every Set then sweeps all expired
// entries unless the store was built WithoutWriteSweep.
func (s *Store) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.policy.Resolve(key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock.Now()
	s.entries[key] = newEntry(value, now, ttl)

	if s.writeSweep {
		s.sweepLocked(now)
	}
}

// Get returns the live value stored under key. An expired entry is deleted
// and reported absent. Reads never extend an entry's lifetime.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.liveLocked(key)
	if !ok {
		return nil, false
	}
	return entry.Value, true
}

// GetAs is Get with a type assertion. A value of a different type is
// reported absent.
func GetAs[T any](s *Store, key string) (T, bool) {
	var zero T
	v, ok := s.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Has reports whether a live entry exists, evicting it if expired.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.liveLocked(key)
	return ok
}

// Invalidate removes key and reports whether a live entry was removed.
// Missing keys are a no-op.
func (s *Store) Invalidate(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return false
	}
	delete(s.entries, key)
	return entry.IsLive(s.clock.Now())
}

// InvalidatePattern removes every key the pattern matches and returns how
// many were removed. The pattern is compiled by the store's matcher factory
// (a regular expression by default); a compile error is returned as-is and
// nothing is removed.
func (s *Store) InvalidatePattern(pattern string) (int, error) {
	m, err := s.compile(pattern)
	if err != nil {
		return 0, err
	}

	n := s.InvalidateMatching(m)
	s.logger.Debug().Str("pattern", pattern).Int("removed", n).Msg("cache pattern invalidated")
	return n, nil
}

// InvalidateMatching removes every key m matches and returns the count.
func (s *Store) InvalidateMatching(m Matcher) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key := range s.entries {
		if m.Match(key) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Clear removes all entries and returns how many there were, expired or not.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	clear(s.entries)
	return n
}

// Sweep removes every expired entry and returns the number removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sweepLocked(s.clock.Now())
}

// RunJanitor sweeps expired entries every interval until ctx is done.
// It blocks; run it in its own goroutine.
func (s *Store) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("janitor interval must be positive, got %s", interval)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug().Int("evicted", n).Msg("cache janitor sweep")
			}
		}
	}
}

// Stats reports the current number of entries and their keys (sorted).
// No sweep runs first, so expired entries not yet removed are included.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.entries))
	for key := range s.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return Stats{Size: len(keys), Keys: keys}
}

// Info describes a single entry without evicting it, even if expired.
func (s *Store) Info(key string) Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.entries[key]
	if !ok {
		return Info{Exists: false}
	}

	now := s.clock.Now()
	return Info{
		Exists:    true,
		Age:       entry.Age(now),
		TTL:       entry.TTL,
		ExpiresIn: entry.ExpiresIn(now),
		ExpiresAt: entry.ExpiresAt(),
	}
}

// Policy returns the store's default-TTL policy.
func (s *Store) Policy() *Policy {
	return s.policy
}

// liveLocked returns the entry for key if live, deleting it if expired.
// Must be called with mu held.
func (s *Store) liveLocked(key string) (*Entry, bool) {
	entry, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if entry.IsExpired(s.clock.Now()) {
		delete(s.entries, key)
		return nil, false
	}
	return entry, true
}

// sweepLocked deletes all entries expired at now. Must be called with mu held.
func (s *Store) sweepLocked(now time.Time) int {
	removed := 0
	for key, entry := range s.entries {
		if entry.IsExpired(now) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}
