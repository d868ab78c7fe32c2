package server

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/finboard/internal/cache"
)

func TestCacheStats(t *testing.T) {
	env := newTestEnv(t)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/v1/stocks", "").Code)
	require.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/api/v1/stocks", "").Code)

	rec := env.do(t, http.MethodGet, "/cache/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[StatsResponse](t, rec)
	assert.Equal(t, 1, stats.Size)
	assert.Equal(t, []string{cache.KeyStocksAll}, stats.Keys)
	assert.Equal(t, int64(1), stats.Gate.Hits)
	assert.Equal(t, int64(1), stats.Gate.Misses)
}

func TestCacheInfo(t *testing.T) {
	env := newTestEnv(t)
	env.store.Set("portfolio:stocks:positions", "v", time.Minute)

	rec := env.do(t, http.MethodGet, "/cache/info/portfolio:stocks:positions", "")
	require.Equal(t, http.StatusOK, rec.Code)
	info := decode[cache.InfoView](t, rec)
	assert.True(t, info.Exists)
	assert.Equal(t, "portfolio:stocks:positions", info.Key)
	require.NotNil(t, info.TTLMS)
	assert.Equal(t, int64(60000), *info.TTLMS)

	rec = env.do(t, http.MethodGet, "/cache/info/missing", "")
	require.Equal(t, http.StatusOK, rec.Code)
	info = decode[cache.InfoView](t, rec)
	assert.False(t, info.Exists)
	assert.Nil(t, info.TTLMS)
}

func TestCacheInvalidate(t *testing.T) {
	env := newTestEnv(t)
	env.store.Set(cache.KeyStocksAll, 1, time.Minute)
	env.store.Set(cache.KeyStocksByScore, 1, time.Minute)
	env.store.Set(cache.KeyCryptosAll, 1, time.Minute)

	rec := env.do(t, http.MethodPost, "/cache/invalidate", `{"pattern":"stocks:"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decode[CountResponse](t, rec).Removed)
	assert.Equal(t, []string{cache.KeyCryptosAll}, env.store.Stats().Keys)

	t.Run("bad regex", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/cache/invalidate", `{"pattern":"cryptos:("}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decode[errorResponse](t, rec).Error, "missing closing )")
		assert.True(t, env.store.Has(cache.KeyCryptosAll))
	})

	t.Run("empty pattern", func(t *testing.T) {
		rec := env.do(t, http.MethodPost, "/cache/invalidate", `{}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCacheDeleteAndClear(t *testing.T) {
	env := newTestEnv(t)
	env.store.Set("a:1", 1, time.Minute)
	env.store.Set("b:2", 2, time.Minute)

	rec := env.do(t, http.MethodDelete, "/cache/keys/a:1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[CountResponse](t, rec).Removed)

	rec = env.do(t, http.MethodDelete, "/cache/keys/a:1", "")
	assert.Equal(t, 0, decode[CountResponse](t, rec).Removed)

	rec = env.do(t, http.MethodDelete, "/cache", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[CountResponse](t, rec).Removed)
	assert.Equal(t, 0, env.store.Stats().Size)
}

func TestCacheSweep(t *testing.T) {
	env := newTestEnv(t)
	env.store.Set("short", 1, time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	rec := env.do(t, http.MethodPost, "/cache/sweep", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[CountResponse](t, rec).Removed)
}
