package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDefaultTTL(t *testing.T) {
	tests := []struct {
		key  string
		want time.Duration
	}{
		{key: "stocks:all", want: 5 * time.Minute},
		{key: "cryptos:all", want: 3 * time.Minute},
		{key: "positions:manual", want: 2 * time.Minute},
		{key: "autotrader:summary", want: time.Minute},
		{key: "unrelated:key", want: 5 * time.Minute},
		// Substring, not prefix.
		{key: "portfolio:stocks:positions", want: 5 * time.Minute},
		{key: "my-cryptos-positions", want: 3 * time.Minute},
		// Priority order: positions before summary.
		{key: "positions:summary", want: 2 * time.Minute},
		// No match without the plural namespace.
		{key: "stock:AAPL", want: 5 * time.Minute},
		{key: "crypto:BTC", want: 5 * time.Minute},
		{key: "", want: 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveDefaultTTL(tt.key))
		})
	}
}

func TestPolicy_Classify(t *testing.T) {
	p := DefaultPolicy()

	ns, ttl := p.Classify("positions:autotrader:stock")
	assert.Equal(t, NamespacePositions, ns)
	assert.Equal(t, DefaultPositionsTTL, ttl)

	ns, ttl = p.Classify("alerts:all")
	assert.Empty(t, ns)
	assert.Equal(t, DefaultFallbackTTL, ttl)
}

func TestNewPolicy(t *testing.T) {
	t.Run("valid keeps order", func(t *testing.T) {
		p, err := NewPolicy([]NamespaceTTL{
			{Namespace: "summary", TTL: time.Second},
			{Namespace: "stocks", TTL: time.Hour},
		}, time.Minute)
		require.NoError(t, err)
		assert.Equal(t, time.Second, p.Resolve("stocks:summary"))
	})

	t.Run("copies input", func(t *testing.T) {
		in := []NamespaceTTL{{Namespace: "stocks", TTL: time.Hour}}
		p, err := NewPolicy(in, time.Minute)
		require.NoError(t, err)
		in[0].TTL = time.Second
		assert.Equal(t, time.Hour, p.Resolve("stocks:all"))
	})

	t.Run("empty namespace", func(t *testing.T) {
		_, err := NewPolicy([]NamespaceTTL{{Namespace: "", TTL: time.Hour}}, time.Minute)
		assert.ErrorIs(t, err, ErrEmptyNamespace)
	})

	t.Run("non-positive ttl", func(t *testing.T) {
		_, err := NewPolicy([]NamespaceTTL{{Namespace: "stocks", TTL: 0}}, time.Minute)
		assert.ErrorIs(t, err, ErrNonPositiveTTL)

		_, err = NewPolicy(nil, 0)
		assert.ErrorIs(t, err, ErrNonPositiveTTL)
	})
}
