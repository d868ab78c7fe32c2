package dashboard

import (
	"context"

	"github.com/rshade/finboard/internal/upstream"
)

// Source is the upstream API as seen by the Service. *upstream.Client
// implements it.
type Source interface {
	Health(ctx context.Context) (upstream.Health, error)

	Stocks(ctx context.Context, byScore bool) ([]upstream.Stock, error)
	Stock(ctx context.Context, symbol string) (upstream.Stock, error)
	RefreshStocks(ctx context.Context) error

	Cryptos(ctx context.Context, byScore bool) ([]upstream.Crypto, error)
	Crypto(ctx context.Context, symbol string) (upstream.Crypto, error)
	RefreshCryptos(ctx context.Context) error

	AutotraderPositions(ctx context.Context, assetType string) ([]upstream.Position, error)
	ManualPositions(ctx context.Context) ([]upstream.Position, error)
	CreateManualPosition(ctx context.Context, p upstream.ManualPosition) (upstream.Position, error)
	UpdateManualPosition(ctx context.Context, id string, p upstream.ManualPosition) (upstream.Position, error)
	DeleteManualPosition(ctx context.Context, id string) error
	RefreshPositions(ctx context.Context) error
	PositionAnalysis(ctx context.Context, symbol string) (upstream.PositionAnalysis, error)

	RunAutotrader(ctx context.Context) (upstream.AutotraderRunResult, error)
	AutotraderSummary(ctx context.Context) (upstream.AutotraderSummary, error)

	PortfolioOverview(ctx context.Context) (upstream.PortfolioOverview, error)
	PortfolioPositions(ctx context.Context, kind string) (upstream.PortfolioPositionsResponse, error)
	Transactions(ctx context.Context, kind string, limit int, symbol string) (upstream.TransactionsResponse, error)
	Performance(ctx context.Context, kind string, days int) (upstream.PerformanceResponse, error)
	Comparison(ctx context.Context) (upstream.ComparisonAnalysis, error)
	RefreshPortfolio(ctx context.Context) error

	Alerts(ctx context.Context, positionID string) ([]upstream.Alert, error)
	CreateAlert(ctx context.Context, cfg upstream.AlertConfig) (upstream.Alert, error)
	UpdateAlert(ctx context.Context, id string, cfg upstream.AlertConfig) (upstream.Alert, error)
	DeleteAlert(ctx context.Context, id string) error
	DismissAlert(ctx context.Context, id string) error
	CheckAlerts(ctx context.Context) ([]upstream.Alert, error)
}

var _ Source = (*upstream.Client)(nil)
