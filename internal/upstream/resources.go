package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Stocks lists stock quotes, ordered by score when byScore is set.
func (c *Client) Stocks(ctx context.Context, byScore bool) ([]Stock, error) {
	var out []Stock
	if err := c.get(ctx, "/stocks", sortQuery(byScore), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Stock returns one stock quote.
func (c *Client) Stock(ctx context.Context, symbol string) (Stock, error) {
	seg, err := segment(symbol)
	if err != nil {
		return Stock{}, err
	}
	var out Stock
	if err := c.get(ctx, "/stocks/"+seg, nil, &out); err != nil {
		return Stock{}, err
	}
	return out, nil
}

// RefreshStocks asks the upstream to recompute stock scores.
func (c *Client) RefreshStocks(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/stocks/refresh", nil, nil, nil)
}

// Cryptos lists crypto quotes, ordered by score when byScore is set.
func (c *Client) Cryptos(ctx context.Context, byScore bool) ([]Crypto, error) {
	var out []Crypto
	if err := c.get(ctx, "/cryptos", sortQuery(byScore), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Crypto returns one crypto quote.
func (c *Client) Crypto(ctx context.Context, symbol string) (Crypto, error) {
	seg, err := segment(symbol)
	if err != nil {
		return Crypto{}, err
	}
	var out Crypto
	if err := c.get(ctx, "/cryptos/"+seg, nil, &out); err != nil {
		return Crypto{}, err
	}
	return out, nil
}

// RefreshCryptos asks the upstream to recompute crypto scores.
func (c *Client) RefreshCryptos(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/cryptos/refresh", nil, nil, nil)
}

// AutotraderPositions lists autotrader positions, optionally for one asset
// type (AssetStock or AssetCrypto).
func (c *Client) AutotraderPositions(ctx context.Context, assetType string) ([]Position, error) {
	var q url.Values
	switch assetType {
	case "":
	case AssetStock, AssetCrypto:
		q = url.Values{"type": {assetType}}
	default:
		return nil, fmt.Errorf("%w: asset type must be %q or %q, got %q",
			ErrInvalidArgument, AssetStock, AssetCrypto, assetType)
	}
	var out []Position
	if err := c.get(ctx, "/positions/autotrader", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ManualPositions lists manually entered positions.
func (c *Client) ManualPositions(ctx context.Context) ([]Position, error) {
	var out []Position
	if err := c.get(ctx, "/positions/manual", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateManualPosition creates a manual position.
func (c *Client) CreateManualPosition(ctx context.Context, p ManualPosition) (Position, error) {
	var out Position
	if err := c.do(ctx, http.MethodPost, "/positions/manual", nil, p, &out); err != nil {
		return Position{}, err
	}
	return out, nil
}

// UpdateManualPosition replaces a manual position.
func (c *Client) UpdateManualPosition(ctx context.Context, id string, p ManualPosition) (Position, error) {
	seg, err := segment(id)
	if err != nil {
		return Position{}, err
	}
	var out Position
	if err := c.do(ctx, http.MethodPut, "/positions/manual/"+seg, nil, p, &out); err != nil {
		return Position{}, err
	}
	return out, nil
}

// DeleteManualPosition deletes a manual position.
func (c *Client) DeleteManualPosition(ctx context.Context, id string) error {
	seg, err := segment(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/positions/manual/"+seg, nil, nil, nil)
}

// RefreshPositions asks the upstream to reprice all positions.
func (c *Client) RefreshPositions(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/positions/refresh", nil, nil, nil)
}

// PositionAnalysis returns the analysis of the position in symbol.
func (c *Client) PositionAnalysis(ctx context.Context, symbol string) (PositionAnalysis, error) {
	seg, err := segment(symbol)
	if err != nil {
		return PositionAnalysis{}, err
	}
	var out PositionAnalysis
	if err := c.get(ctx, "/positions/analysis/"+seg, nil, &out); err != nil {
		return PositionAnalysis{}, err
	}
	return out, nil
}

// RunAutotrader triggers an autotrader cycle.
func (c *Client) RunAutotrader(ctx context.Context) (AutotraderRunResult, error) {
	var out AutotraderRunResult
	if err := c.do(ctx, http.MethodPost, "/autotrader/run", nil, nil, &out); err != nil {
		return AutotraderRunResult{}, err
	}
	return out, nil
}

// AutotraderSummary returns the last cycle summary.
func (c *Client) AutotraderSummary(ctx context.Context) (AutotraderSummary, error) {
	var out AutotraderSummary
	if err := c.get(ctx, "/autotrader/summary", nil, &out); err != nil {
		return AutotraderSummary{}, err
	}
	return out, nil
}

// PortfolioOverview returns both portfolios and their combined summary.
func (c *Client) PortfolioOverview(ctx context.Context) (PortfolioOverview, error) {
	var out PortfolioOverview
	if err := c.get(ctx, "/portfolio/overview", nil, &out); err != nil {
		return PortfolioOverview{}, err
	}
	return out, nil
}

// PortfolioPositions lists the holdings of the stocks or crypto portfolio.
func (c *Client) PortfolioPositions(ctx context.Context, kind string) (PortfolioPositionsResponse, error) {
	if err := checkPortfolioKind(kind); err != nil {
		return PortfolioPositionsResponse{}, err
	}
	var out PortfolioPositionsResponse
	if err := c.get(ctx, "/portfolio/"+kind+"/positions", nil, &out); err != nil {
		return PortfolioPositionsResponse{}, err
	}
	return out, nil
}

// Transactions lists trades of a portfolio. A zero limit and an empty symbol
// are omitted from the query.
func (c *Client) Transactions(ctx context.Context, kind string, limit int, symbol string) (TransactionsResponse, error) {
	if err := checkPortfolioKind(kind); err != nil {
		return TransactionsResponse{}, err
	}
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", itoa(limit))
	}
	if symbol != "" {
		q.Set("symbol", symbol)
	}
	var out TransactionsResponse
	if err := c.get(ctx, "/portfolio/"+kind+"/transactions", q, &out); err != nil {
		return TransactionsResponse{}, err
	}
	return out, nil
}

// Performance returns a portfolio performance report over days; zero uses
// the upstream default period.
func (c *Client) Performance(ctx context.Context, kind string, days int) (PerformanceResponse, error) {
	if err := checkPortfolioKind(kind); err != nil {
		return PerformanceResponse{}, err
	}
	var q url.Values
	if days > 0 {
		q = url.Values{"days": {itoa(days)}}
	}
	var out PerformanceResponse
	if err := c.get(ctx, "/portfolio/"+kind+"/performance", q, &out); err != nil {
		return PerformanceResponse{}, err
	}
	return out, nil
}

// Comparison compares the two portfolios.
func (c *Client) Comparison(ctx context.Context) (ComparisonAnalysis, error) {
	var out ComparisonAnalysis
	if err := c.get(ctx, "/portfolio/analytics/comparison", nil, &out); err != nil {
		return ComparisonAnalysis{}, err
	}
	return out, nil
}

// RefreshPortfolio asks the upstream to recompute portfolio figures.
func (c *Client) RefreshPortfolio(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/portfolio/refresh", nil, nil, nil)
}

// Alerts lists alerts, optionally for one position.
func (c *Client) Alerts(ctx context.Context, positionID string) ([]Alert, error) {
	var q url.Values
	if positionID != "" {
		q = url.Values{"positionId": {positionID}}
	}
	var out []Alert
	if err := c.get(ctx, "/alerts", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateAlert creates an alert.
func (c *Client) CreateAlert(ctx context.Context, cfg AlertConfig) (Alert, error) {
	var out Alert
	if err := c.do(ctx, http.MethodPost, "/alerts", nil, cfg, &out); err != nil {
		return Alert{}, err
	}
	return out, nil
}

// UpdateAlert updates an alert's configuration.
func (c *Client) UpdateAlert(ctx context.Context, id string, cfg AlertConfig) (Alert, error) {
	seg, err := segment(id)
	if err != nil {
		return Alert{}, err
	}
	var out Alert
	if err := c.do(ctx, http.MethodPut, "/alerts/"+seg, nil, cfg, &out); err != nil {
		return Alert{}, err
	}
	return out, nil
}

// DeleteAlert deletes an alert.
func (c *Client) DeleteAlert(ctx context.Context, id string) error {
	seg, err := segment(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodDelete, "/alerts/"+seg, nil, nil, nil)
}

// DismissAlert marks an alert dismissed.
func (c *Client) DismissAlert(ctx context.Context, id string) error {
	seg, err := segment(id)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPatch, "/alerts/"+seg+"/dismiss", nil, nil, nil)
}

// CheckAlerts evaluates all alerts now and returns the triggered ones.
func (c *Client) CheckAlerts(ctx context.Context) ([]Alert, error) {
	var out []Alert
	if err := c.get(ctx, "/alerts/check", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func sortQuery(byScore bool) url.Values {
	if !byScore {
		return nil
	}
	return url.Values{"sort": {"score"}}
}
