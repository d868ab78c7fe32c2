package cache

import "time"

// Entry is a single cached value with its storage time and TTL.
type Entry struct {
	// Value is the cached value.
	Value any

	// StoredAt is when the value was written.
	StoredAt time.Time

	// TTL is how long after StoredAt the entry stays live.
	TTL time.Duration
}

// newEntry creates an entry stored at now.
func newEntry(value any, now time.Time, ttl time.Duration) *Entry {
	return &Entry{
		Value:    value,
		StoredAt: now,
		TTL:      ttl,
	}
}

// IsLive reports whether the entry is still within its TTL at now.
// An entry is live while now - StoredAt <= TTL.
func (e *Entry) IsLive(now time.Time) bool {
	return e.Age(now) <= e.TTL
}

// IsExpired is the inverse of IsLive.
func (e *Entry) IsExpired(now time.Time) bool {
	return !e.IsLive(now)
}

// Age returns the duration since the entry was stored.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.StoredAt)
}

// ExpiresIn returns the remaining lifetime of the entry.
// Returns 0 if already expired.
func (e *Entry) ExpiresIn(now time.Time) time.Duration {
	remaining := e.TTL - e.Age(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// ExpiresAt returns the last instant at which the entry is live.
func (e *Entry) ExpiresAt() time.Time {
	return e.StoredAt.Add(e.TTL)
}
