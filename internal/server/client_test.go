package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/finboard/internal/cache"
)

func newTestClient(t *testing.T, env *testEnv) *Client {
	t.Helper()
	srv := httptest.NewServer(env.handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	return c
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("127.0.0.1:8080")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", c.baseURL.String())

	_, err = NewClient("http://")
	require.Error(t, err)
}

func TestClient_CacheAdmin(t *testing.T) {
	env := newTestEnv(t)
	client := newTestClient(t, env)
	ctx := context.Background()

	env.store.Set(cache.KeyStocksAll, 1, time.Minute)
	env.store.Set(cache.KeyStocksByScore, 1, time.Minute)
	env.store.Set(cache.KeyCryptosAll, 1, time.Minute)
	env.store.Set("positions:manual", 1, time.Minute)

	stats, err := client.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Size)

	info, err := client.Info(ctx, cache.KeyCryptosAll)
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.Equal(t, cache.KeyCryptosAll, info.Key)

	n, err := client.Invalidate(ctx, "^stocks:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = client.Delete(ctx, cache.KeyCryptosAll)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	n, err = client.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = client.Clear(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, env.store.Stats().Size)
}

func TestClient_KeysWithReservedCharacters(t *testing.T) {
	env := newTestEnv(t)
	client := newTestClient(t, env)
	ctx := context.Background()

	keys := []string{
		cache.CryptoDetailKey("BTC/USD"),
		"alerts:a;b,c",
		"stock:what?",
		"literal:100%",
		"spaced key",
	}

	for _, key := range keys {
		t.Run(key, func(t *testing.T) {
			env.store.Set(key, "v", time.Minute)

			info, err := client.Info(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, key, info.Key)
			assert.True(t, info.Exists)

			n, err := client.Delete(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, 1, n)
			assert.False(t, env.store.Has(key))
		})
	}
}

func TestClient_DeleteExpired(t *testing.T) {
	env := newTestEnv(t)
	client := newTestClient(t, env)

	env.store.Set("stocks:all", "v", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	n, err := client.Delete(context.Background(), "stocks:all")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	assert.Equal(t, 0, env.store.Stats().Size)
}

func TestClient_Errors(t *testing.T) {
	t.Run("server error message is surfaced", func(t *testing.T) {
		client := newTestClient(t, newTestEnv(t))

		_, err := client.Invalidate(context.Background(), "stocks:(")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "POST /cache/invalidate")
		assert.Contains(t, err.Error(), "missing closing )")
	})

	t.Run("non-json error body uses the status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		t.Cleanup(srv.Close)

		client, err := NewClient(srv.URL)
		require.NoError(t, err)
		_, err = client.Stats(context.Background())
		require.Error(t, err)
		assert.True(t, strings.HasSuffix(err.Error(), "500 Internal Server Error"))
	})

	t.Run("unreachable server", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		client, err := NewClient(url)
		require.NoError(t, err)
		_, err = client.Sweep(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "calling POST /cache/sweep")
	})
}
