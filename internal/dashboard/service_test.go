package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/finboard/internal/cache"
	"github.com/rshade/finboard/internal/upstream"
)

func TestService_ReadsAreCached(t *testing.T) {
	svc, src := newTestService()
	ctx := context.Background()

	tests := []struct {
		name   string
		method string
		key    string
		read   func() error
	}{
		{name: "stocks", method: "Stocks", key: cache.KeyStocksAll, read: func() error {
			_, err := svc.Stocks(ctx, false)
			return err
		}},
		{name: "stocks by score", method: "Stocks", key: cache.KeyStocksByScore, read: func() error {
			_, err := svc.Stocks(ctx, true)
			return err
		}},
		{name: "stock detail", method: "Stock", key: "stock:AAPL", read: func() error {
			_, err := svc.Stock(ctx, "AAPL")
			return err
		}},
		{name: "cryptos", method: "Cryptos", key: cache.KeyCryptosAll, read: func() error {
			_, err := svc.Cryptos(ctx, false)
			return err
		}},
		{name: "crypto detail", method: "Crypto", key: "crypto:BTC", read: func() error {
			_, err := svc.Crypto(ctx, "BTC")
			return err
		}},
		{name: "autotrader positions", method: "AutotraderPositions", key: "positions:autotrader:stock", read: func() error {
			_, err := svc.AutotraderPositions(ctx, upstream.AssetStock)
			return err
		}},
		{name: "manual positions", method: "ManualPositions", key: cache.KeyPositionsManual, read: func() error {
			_, err := svc.ManualPositions(ctx)
			return err
		}},
		{name: "analysis", method: "PositionAnalysis", key: "position:analysis:TSLA", read: func() error {
			_, err := svc.PositionAnalysis(ctx, "TSLA")
			return err
		}},
		{name: "summary", method: "AutotraderSummary", key: cache.KeyAutotraderSummary, read: func() error {
			_, err := svc.AutotraderSummary(ctx)
			return err
		}},
		{name: "overview", method: "PortfolioOverview", key: cache.KeyPortfolioOverview, read: func() error {
			_, err := svc.PortfolioOverview(ctx)
			return err
		}},
		{name: "transactions", method: "Transactions", key: "portfolio:stocks:transactions:20:all", read: func() error {
			_, err := svc.Transactions(ctx, upstream.PortfolioStocks, 20, "")
			return err
		}},
		{name: "alerts", method: "Alerts", key: "alerts:all", read: func() error {
			_, err := svc.Alerts(ctx, "")
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := src.count(tt.method)
			require.NoError(t, tt.read())
			require.NoError(t, tt.read())

			assert.Equal(t, before+1, src.count(tt.method))
			assert.True(t, svc.Store().Has(tt.key), "expected key %s", tt.key)
		})
	}
}

func TestService_TTLOverrides(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.PositionAnalysis(ctx, "AAPL")
	require.NoError(t, err)
	_, err = svc.PortfolioPositions(ctx, upstream.PortfolioCrypto)
	require.NoError(t, err)
	_, err = svc.Performance(ctx, upstream.PortfolioStocks, 0)
	require.NoError(t, err)
	_, err = svc.Comparison(ctx)
	require.NoError(t, err)
	_, err = svc.Alerts(ctx, "p1")
	require.NoError(t, err)
	_, err = svc.Cryptos(ctx, true)
	require.NoError(t, err)

	store := svc.Store()
	assert.Equal(t, AnalysisTTL, store.Info(cache.PositionAnalysisKey("AAPL")).TTL)
	assert.Equal(t, PortfolioTTL, store.Info("portfolio:crypto:positions").TTL)
	assert.Equal(t, PerformanceTTL, store.Info("portfolio:stocks:performance:default").TTL)
	assert.Equal(t, PortfolioTTL, store.Info(cache.KeyPortfolioComparison).TTL)
	assert.Equal(t, AlertsTTL, store.Info("alerts:p1").TTL)
	// No override: namespace default.
	assert.Equal(t, cache.DefaultCryptosTTL, store.Info(cache.KeyCryptosByScore).TTL)
}

func TestService_MutationsInvalidateFirst(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		method string
		seed   []string
		gone   []string
		kept   []string
		mutate func(*Service) error
	}{
		{
			name:   "refresh stocks",
			method: "RefreshStocks",
			seed:   []string{cache.KeyStocksAll, cache.KeyStocksByScore, "stock:AAPL", cache.KeyCryptosAll},
			gone:   []string{cache.KeyStocksAll, cache.KeyStocksByScore},
			kept:   []string{"stock:AAPL", cache.KeyCryptosAll},
			mutate: func(s *Service) error { return s.RefreshStocks(ctx) },
		},
		{
			name:   "refresh cryptos",
			method: "RefreshCryptos",
			seed:   []string{cache.KeyCryptosAll, cache.KeyStocksAll},
			gone:   []string{cache.KeyCryptosAll},
			kept:   []string{cache.KeyStocksAll},
			mutate: func(s *Service) error { return s.RefreshCryptos(ctx) },
		},
		{
			name:   "create manual position",
			method: "CreateManualPosition",
			seed:   []string{cache.KeyPositionsManual, cache.KeyPositionsAutotrader},
			gone:   []string{cache.KeyPositionsManual},
			kept:   []string{cache.KeyPositionsAutotrader},
			mutate: func(s *Service) error {
				_, err := s.CreateManualPosition(ctx, upstream.ManualPosition{Symbol: "TSLA"})
				return err
			},
		},
		{
			name:   "update manual position",
			method: "UpdateManualPosition",
			seed:   []string{cache.KeyPositionsManual},
			gone:   []string{cache.KeyPositionsManual},
			mutate: func(s *Service) error {
				_, err := s.UpdateManualPosition(ctx, "m1", upstream.ManualPosition{Symbol: "TSLA"})
				return err
			},
		},
		{
			name:   "delete manual position",
			method: "DeleteManualPosition",
			seed:   []string{cache.KeyPositionsManual},
			gone:   []string{cache.KeyPositionsManual},
			mutate: func(s *Service) error { return s.DeleteManualPosition(ctx, "m1") },
		},
		{
			name:   "refresh positions",
			method: "RefreshPositions",
			seed:   []string{cache.KeyPositionsManual, "positions:autotrader:crypto", "position:analysis:BTC"},
			gone:   []string{cache.KeyPositionsManual, "positions:autotrader:crypto"},
			kept:   []string{"position:analysis:BTC"},
			mutate: func(s *Service) error { return s.RefreshPositions(ctx) },
		},
		{
			name:   "autotrader run",
			method: "RunAutotrader",
			seed:   []string{cache.KeyAutotraderSummary, cache.KeyPositionsAutotrader, cache.KeyPortfolioOverview},
			gone:   []string{cache.KeyAutotraderSummary, cache.KeyPositionsAutotrader},
			kept:   []string{cache.KeyPortfolioOverview},
			mutate: func(s *Service) error {
				_, err := s.RunAutotrader(ctx)
				return err
			},
		},
		{
			name:   "refresh portfolio",
			method: "RefreshPortfolio",
			seed:   []string{cache.KeyPortfolioOverview, "portfolio:stocks:transactions:all:all", cache.KeyStocksAll},
			gone:   []string{cache.KeyPortfolioOverview, "portfolio:stocks:transactions:all:all"},
			kept:   []string{cache.KeyStocksAll},
			mutate: func(s *Service) error { return s.RefreshPortfolio(ctx) },
		},
		{
			name:   "create alert",
			method: "CreateAlert",
			seed:   []string{"alerts:all", "alerts:p1"},
			gone:   []string{"alerts:all", "alerts:p1"},
			mutate: func(s *Service) error {
				_, err := s.CreateAlert(ctx, upstream.AlertConfig{PositionID: "p1"})
				return err
			},
		},
		{
			name:   "update alert",
			method: "UpdateAlert",
			seed:   []string{"alerts:all"},
			gone:   []string{"alerts:all"},
			mutate: func(s *Service) error {
				_, err := s.UpdateAlert(ctx, "al1", upstream.AlertConfig{})
				return err
			},
		},
		{
			name:   "delete alert",
			method: "DeleteAlert",
			seed:   []string{"alerts:all"},
			gone:   []string{"alerts:all"},
			mutate: func(s *Service) error { return s.DeleteAlert(ctx, "al1") },
		},
		{
			name:   "dismiss alert",
			method: "DismissAlert",
			seed:   []string{"alerts:all"},
			gone:   []string{"alerts:all"},
			mutate: func(s *Service) error { return s.DismissAlert(ctx, "al1") },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, src := newTestService()
			store := svc.Store()
			for _, k := range tt.seed {
				store.Set(k, "cached", time.Hour)
			}

			// The upstream call observes the cache already invalidated.
			src.onCall = func(method string) {
				if method != tt.method {
					return
				}
				for _, k := range tt.gone {
					assert.False(t, store.Has(k), "key %s still cached during %s", k, method)
				}
			}

			require.NoError(t, tt.mutate(svc))
			assert.Equal(t, 1, src.count(tt.method))

			for _, k := range tt.gone {
				assert.False(t, store.Has(k), "key %s should be invalidated", k)
			}
			for _, k := range tt.kept {
				assert.True(t, store.Has(k), "key %s should survive", k)
			}
		})
	}
}

func TestService_MutationFailureStillInvalidates(t *testing.T) {
	svc, src := newTestService()
	errDown := errors.New("upstream down")
	src.setFail("RefreshStocks", errDown)
	svc.Store().Set(cache.KeyStocksAll, "cached", time.Hour)

	err := svc.RefreshStocks(context.Background())
	require.ErrorIs(t, err, errDown)
	assert.False(t, svc.Store().Has(cache.KeyStocksAll))
}

func TestService_CheckAlertsNeverCached(t *testing.T) {
	svc, src := newTestService()
	ctx := context.Background()

	for range 3 {
		alerts, err := svc.CheckAlerts(ctx)
		require.NoError(t, err)
		require.Len(t, alerts, 1)
	}
	assert.Equal(t, 3, src.count("CheckAlerts"))
	assert.Equal(t, 0, svc.Store().Stats().Size)

	errDown := errors.New("down")
	src.setFail("CheckAlerts", errDown)
	_, err := svc.CheckAlerts(ctx)
	require.ErrorIs(t, err, errDown)
}

func TestService_HealthNeverCached(t *testing.T) {
	svc, src := newTestService()
	for range 2 {
		_, err := svc.Health(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, 2, src.count("Health"))
}

func TestService_StaleFallback(t *testing.T) {
	svc, src := newTestService(cache.WithStaleCopy(time.Hour))
	ctx := context.Background()

	first, err := svc.Stocks(ctx, false)
	require.NoError(t, err)

	svc.Store().Invalidate(cache.KeyStocksAll)
	src.setFail("Stocks", errors.New("upstream down"))

	second, err := svc.Stocks(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), svc.Gate().Stats().StaleServed)
}
