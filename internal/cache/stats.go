package cache

import "time"

// Stats is a snapshot of the store's map.
type Stats struct {
	Size int      `json:"size"`
	Keys []string `json:"keys"`
}

// Info describes one key. The other fields are zero when Exists is false.
type Info struct {
	Exists    bool          `json:"exists"`
	Age       time.Duration `json:"-"`
	TTL       time.Duration `json:"-"`
	ExpiresIn time.Duration `json:"-"`
	ExpiresAt time.Time     `json:"-"`
}

// InfoView is the millisecond rendering of Info used by the HTTP surface.
type InfoView struct {
	Key         string     `json:"key"`
	Exists      bool       `json:"exists"`
	AgeMS       *int64     `json:"age_ms,omitempty"`
	TTLMS       *int64     `json:"ttl_ms,omitempty"`
	ExpiresInMS *int64     `json:"expires_in_ms,omitempty"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// View converts the info to milliseconds, omitting fields for missing keys.
func (i Info) View(key string) InfoView {
	v := InfoView{Key: key, Exists: i.Exists}
	if !i.Exists {
		return v
	}
	age, ttl, expires := i.Age.Milliseconds(), i.TTL.Milliseconds(), i.ExpiresIn.Milliseconds()
	v.AgeMS, v.TTLMS, v.ExpiresInMS = &age, &ttl, &expires
	at := i.ExpiresAt
	v.ExpiresAt = &at
	return v
}
