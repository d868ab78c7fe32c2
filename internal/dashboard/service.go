package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/rshade/finboard/internal/cache"
	"github.com/rshade/finboard/internal/upstream"
)

// TTL overrides for endpoints whose freshness differs from their namespace
// default. Zero means "resolve from the key".
const (
	AnalysisTTL     = 5 * time.Minute
	PortfolioTTL    = 5 * time.Minute
	TransactionsTTL = 10 * time.Minute
	PerformanceTTL  = 10 * time.Minute
	AlertsTTL       = time.Minute
)

// Service serves dashboard data through the cache.
type Service struct {
	src    Source
	gate   *cache.Gate
	router *cache.Router
	logger zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// NewService returns a Service reading from src through gate.
func NewService(src Source, gate *cache.Gate, opts ...Option) *Service {
	s := &Service{
		src:    src,
		gate:   gate,
		router: cache.NewRouter(gate.Store()),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Gate returns the cache gate.
func (s *Service) Gate() *cache.Gate {
	return s.gate
}

// Store returns the underlying cache store.
func (s *Service) Store() *cache.Store {
	return s.gate.Store()
}

// Health probes the upstream. Never cached.
func (s *Service) Health(ctx context.Context) (upstream.Health, error) {
	return s.src.Health(ctx)
}

// invalidate applies rule before a mutation. A rule failure is logged and
// does not block the mutation; the predefined rules never fail.
func (s *Service) invalidate(rule cache.Rule) {
	if err := s.router.Apply(rule); err != nil {
		s.logger.Error().Err(err).Str("rule", rule.Name).Msg("cache invalidation failed")
	}
}

// Stocks lists stocks, optionally ordered by score.
func (s *Service) Stocks(ctx context.Context, byScore bool) ([]upstream.Stock, error) {
	key := cache.KeyStocksAll
	if byScore {
		key = cache.KeyStocksByScore
	}
	return cache.CachedRequest(ctx, s.gate, key, func(ctx context.Context) ([]upstream.Stock, error) {
		return s.src.Stocks(ctx, byScore)
	}, 0)
}

// Stock returns one stock.
func (s *Service) Stock(ctx context.Context, symbol string) (upstream.Stock, error) {
	return cache.CachedRequest(ctx, s.gate, cache.StockDetailKey(symbol), func(ctx context.Context) (upstream.Stock, error) {
		return s.src.Stock(ctx, symbol)
	}, 0)
}

// RefreshStocks drops cached stock lists and asks the upstream to recompute.
func (s *Service) RefreshStocks(ctx context.Context) error {
	s.invalidate(cache.RuleRefreshStocks)
	return s.src.RefreshStocks(ctx)
}

// Cryptos lists cryptos, optionally ordered by score.
func (s *Service) Cryptos(ctx context.Context, byScore bool) ([]upstream.Crypto, error) {
	key := cache.KeyCryptosAll
	if byScore {
		key = cache.KeyCryptosByScore
	}
	return cache.CachedRequest(ctx, s.gate, key, func(ctx context.Context) ([]upstream.Crypto, error) {
		return s.src.Cryptos(ctx, byScore)
	}, 0)
}

// Crypto returns one crypto.
func (s *Service) Crypto(ctx context.Context, symbol string) (upstream.Crypto, error) {
	return cache.CachedRequest(ctx, s.gate, cache.CryptoDetailKey(symbol), func(ctx context.Context) (upstream.Crypto, error) {
		return s.src.Crypto(ctx, symbol)
	}, 0)
}

// RefreshCryptos drops cached crypto lists and asks the upstream to recompute.
func (s *Service) RefreshCryptos(ctx context.Context) error {
	s.invalidate(cache.RuleRefreshCryptos)
	return s.src.RefreshCryptos(ctx)
}

// AutotraderPositions lists autotrader positions, optionally for one asset type.
func (s *Service) AutotraderPositions(ctx context.Context, assetType string) ([]upstream.Position, error) {
	key := cache.AutotraderPositionsKey(assetType)
	return cache.CachedRequest(ctx, s.gate, key, func(ctx context.Context) ([]upstream.Position, error) {
		return s.src.AutotraderPositions(ctx, assetType)
	}, 0)
}

// ManualPositions lists manual positions.
func (s *Service) ManualPositions(ctx context.Context) ([]upstream.Position, error) {
	return cache.CachedRequest(ctx, s.gate, cache.KeyPositionsManual, s.src.ManualPositions, 0)
}

// CreateManualPosition creates a manual position.
func (s *Service) CreateManualPosition(ctx context.Context, p upstream.ManualPosition) (upstream.Position, error) {
	s.invalidate(cache.RuleManualPositionChanged)
	return s.src.CreateManualPosition(ctx, p)
}

// UpdateManualPosition updates a manual position.
func (s *Service) UpdateManualPosition(ctx context.Context, id string, p upstream.ManualPosition) (upstream.Position, error) {
	s.invalidate(cache.RuleManualPositionChanged)
	return s.src.UpdateManualPosition(ctx, id, p)
}

// DeleteManualPosition deletes a manual position.
func (s *Service) DeleteManualPosition(ctx context.Context, id string) error {
	s.invalidate(cache.RuleManualPositionChanged)
	return s.src.DeleteManualPosition(ctx, id)
}

// RefreshPositions drops every cached position list and asks the upstream to reprice.
func (s *Service) RefreshPositions(ctx context.Context) error {
	s.invalidate(cache.RuleRefreshPositions)
	return s.src.RefreshPositions(ctx)
}

// PositionAnalysis returns the analysis of a position.
func (s *Service) PositionAnalysis(ctx context.Context, symbol string) (upstream.PositionAnalysis, error) {
	key := cache.PositionAnalysisKey(symbol)
	return cache.CachedRequest(ctx, s.gate, key, func(ctx context.Context) (upstream.PositionAnalysis, error) {
		return s.src.PositionAnalysis(ctx, symbol)
	}, AnalysisTTL)
}

// RunAutotrader drops positions and the summary, then runs an autotrader cycle.
func (s *Service) RunAutotrader(ctx context.Context) (upstream.AutotraderRunResult, error) {
	s.invalidate(cache.RuleAutotraderRun)
	return s.src.RunAutotrader(ctx)
}

// AutotraderSummary returns the last cycle summary.
func (s *Service) AutotraderSummary(ctx context.Context) (upstream.AutotraderSummary, error) {
	return cache.CachedRequest(ctx, s.gate, cache.KeyAutotraderSummary, s.src.AutotraderSummary, 0)
}

// PortfolioOverview returns the portfolio overview.
func (s *Service) PortfolioOverview(ctx context.Context) (upstream.PortfolioOverview, error) {
	return cache.CachedRequest(ctx, s.gate, cache.KeyPortfolioOverview, s.src.PortfolioOverview, PortfolioTTL)
}

// PortfolioPositions returns the holdings of one portfolio.
func (s *Service) PortfolioPositions(ctx context.Context, kind string) (upstream.PortfolioPositionsResponse, error) {
	key := cache.PortfolioPositionsKey(kind)
	return cache.CachedRequest(ctx, s.gate, key, func(ctx context.Context) (upstream.PortfolioPositionsResponse, error) {
		return s.src.PortfolioPositions(ctx, kind)
	}, PortfolioTTL)
}

// Transactions lists a portfolio's trades.
func (s *Service) Transactions(ctx context.Context, kind string, limit int, symbol string) (upstream.TransactionsResponse, error) {
	key := cache.TransactionsKey(kind, limit, symbol)
	return cache.CachedRequest(ctx, s.gate, key, func(ctx context.Context) (upstream.TransactionsResponse, error) {
		return s.src.Transactions(ctx, kind, limit, symbol)
	}, TransactionsTTL)
}

// Performance returns a portfolio performance report.
func (s *Service) Performance(ctx context.Context, kind string, days int) (upstream.PerformanceResponse, error) {
	key := cache.PerformanceKey(kind, days)
	return cache.CachedRequest(ctx, s.gate, key, func(ctx context.Context) (upstream.PerformanceResponse, error) {
		return s.src.Performance(ctx, kind, days)
	}, PerformanceTTL)
}

// Comparison compares the two portfolios.
func (s *Service) Comparison(ctx context.Context) (upstream.ComparisonAnalysis, error) {
	return cache.CachedRequest(ctx, s.gate, cache.KeyPortfolioComparison, s.src.Comparison, PortfolioTTL)
}

// RefreshPortfolio drops every cached portfolio view and asks the upstream to recompute.
func (s *Service) RefreshPortfolio(ctx context.Context) error {
	s.invalidate(cache.RuleRefreshPortfolio)
	return s.src.RefreshPortfolio(ctx)
}

// Alerts lists alerts, optionally for one position.
func (s *Service) Alerts(ctx context.Context, positionID string) ([]upstream.Alert, error) {
	return cache.CachedRequest(ctx, s.gate, cache.AlertsKey(positionID), func(ctx context.Context) ([]upstream.Alert, error) {
		return s.src.Alerts(ctx, positionID)
	}, AlertsTTL)
}

// CreateAlert creates an alert.
func (s *Service) CreateAlert(ctx context.Context, cfg upstream.AlertConfig) (upstream.Alert, error) {
	s.invalidate(cache.RuleAlertsChanged)
	return s.src.CreateAlert(ctx, cfg)
}

// UpdateAlert updates an alert.
func (s *Service) UpdateAlert(ctx context.Context, id string, cfg upstream.AlertConfig) (upstream.Alert, error) {
	s.invalidate(cache.RuleAlertsChanged)
	return s.src.UpdateAlert(ctx, id, cfg)
}

// DeleteAlert deletes an alert.
func (s *Service) DeleteAlert(ctx context.Context, id string) error {
	s.invalidate(cache.RuleAlertsChanged)
	return s.src.DeleteAlert(ctx, id)
}

// DismissAlert dismisses an alert.
func (s *Service) DismissAlert(ctx context.Context, id string) error {
	s.invalidate(cache.RuleAlertsChanged)
	return s.src.DismissAlert(ctx, id)
}

// CheckAlerts evaluates alerts now. Never cached.
func (s *Service) CheckAlerts(ctx context.Context) ([]upstream.Alert, error) {
	alerts, err := s.src.CheckAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking alerts: %w", err)
	}
	return alerts, nil
}
