package upstream

import (
	"encoding/json"
	"time"
)

// Asset types accepted by the autotrader positions filter.
const (
	AssetStock  = "stock"
	AssetCrypto = "crypto"
)

// Portfolio kinds used in portfolio endpoints.
const (
	PortfolioStocks = "stocks"
	PortfolioCrypto = "crypto"
)

// Position sources and sides.
const (
	SourceAutotrader = "autotrader"
	SourceManual     = "manual"

	SideLong  = "LONG"
	SideShort = "SHORT"
)

// Stock is a scored stock quote.
type Stock struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"currentPrice"`
	Score         float64 `json:"score"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
	MarketCap     float64 `json:"marketCap,omitempty"`
	Sector        string  `json:"sector,omitempty"`
}

// quoteWire accepts both camelCase and snake_case spellings of quote fields.
type quoteWire struct {
	ID                 string  `json:"id"`
	Symbol             string  `json:"symbol"`
	Name               string  `json:"name"`
	CurrentPrice       float64 `json:"currentPrice"`
	CurrentPriceSnake  float64 `json:"current_price"`
	Score              float64 `json:"score"`
	Change             float64 `json:"change"`
	ChangePercent      float64 `json:"changePercent"`
	ChangePercentSnake float64 `json:"change_percent"`
	Volume             float64 `json:"volume"`
	MarketCap          float64 `json:"marketCap"`
	MarketCapSnake     float64 `json:"market_cap"`
	Sector             string  `json:"sector"`
}

// UnmarshalJSON accepts current_price/currentPrice style field pairs.
func (s *Stock) UnmarshalJSON(data []byte) error {
	var w quoteWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*s = Stock{
		ID:            w.ID,
		Symbol:        w.Symbol,
		Name:          w.Name,
		CurrentPrice:  firstNonZero(w.CurrentPrice, w.CurrentPriceSnake),
		Score:         w.Score,
		Change:        w.Change,
		ChangePercent: firstNonZero(w.ChangePercent, w.ChangePercentSnake),
		Volume:        w.Volume,
		MarketCap:     firstNonZero(w.MarketCap, w.MarketCapSnake),
		Sector:        w.Sector,
	}
	return nil
}

// Crypto is a scored crypto quote.
type Crypto struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	CurrentPrice  float64 `json:"currentPrice"`
	Score         float64 `json:"score"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"changePercent"`
	Volume        float64 `json:"volume"`
	MarketCap     float64 `json:"marketCap,omitempty"`
}

// UnmarshalJSON accepts current_price/currentPrice style field pairs.
func (c *Crypto) UnmarshalJSON(data []byte) error {
	var w quoteWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Crypto{
		ID:            w.ID,
		Symbol:        w.Symbol,
		Name:          w.Name,
		CurrentPrice:  firstNonZero(w.CurrentPrice, w.CurrentPriceSnake),
		Score:         w.Score,
		Change:        w.Change,
		ChangePercent: firstNonZero(w.ChangePercent, w.ChangePercentSnake),
		Volume:        w.Volume,
		MarketCap:     firstNonZero(w.MarketCap, w.MarketCapSnake),
	}
	return nil
}

// Position is an open position held by the autotrader or entered manually.
type Position struct {
	ID           string  `json:"id"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Quantity     float64 `json:"quantity"`
	EntryPrice   float64 `json:"entryPrice"`
	CurrentPrice float64 `json:"currentPrice"`
	Value        float64 `json:"value"`
	PnL          float64 `json:"pnl"`
	PnLPercent   float64 `json:"pnlPercent"`
	Source       string  `json:"source"`
	PositionSide string  `json:"positionSide,omitempty"`
	CreatedAt    string  `json:"createdAt,omitempty"`
	UpdatedAt    string  `json:"updatedAt,omitempty"`
}

type positionWire struct {
	ID                string  `json:"id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	Type              string  `json:"type"`
	Quantity          float64 `json:"quantity"`
	EntryPrice        float64 `json:"entryPrice"`
	EntryPriceSnake   float64 `json:"entry_price"`
	CurrentPrice      float64 `json:"currentPrice"`
	CurrentPriceSnake float64 `json:"current_price"`
	Value             float64 `json:"value"`
	PnL               float64 `json:"pnl"`
	PnLPercent        float64 `json:"pnlPercent"`
	PnLPercentSnake   float64 `json:"pnl_percent"`
	Source            string  `json:"source"`
	PositionSide      string  `json:"positionSide"`
	PositionSideSnake string  `json:"position_side"`
	CreatedAt         string  `json:"createdAt"`
	CreatedAtSnake    string  `json:"created_at"`
	UpdatedAt         string  `json:"updatedAt"`
	UpdatedAtSnake    string  `json:"updated_at"`
}

// UnmarshalJSON accepts entry_price/entryPrice style field pairs.
func (p *Position) UnmarshalJSON(data []byte) error {
	var w positionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*p = Position{
		ID:           w.ID,
		Symbol:       w.Symbol,
		Name:         w.Name,
		Type:         w.Type,
		Quantity:     w.Quantity,
		EntryPrice:   firstNonZero(w.EntryPriceSnake, w.EntryPrice),
		CurrentPrice: firstNonZero(w.CurrentPriceSnake, w.CurrentPrice),
		Value:        w.Value,
		PnL:          w.PnL,
		PnLPercent:   firstNonZero(w.PnLPercentSnake, w.PnLPercent),
		Source:       w.Source,
		PositionSide: firstNonZero(w.PositionSideSnake, w.PositionSide),
		CreatedAt:    firstNonZero(w.CreatedAtSnake, w.CreatedAt),
		UpdatedAt:    firstNonZero(w.UpdatedAtSnake, w.UpdatedAt),
	}
	return nil
}

// ManualPosition is the create/update payload for a manual position.
type ManualPosition struct {
	ID           string  `json:"id,omitempty"`
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Type         string  `json:"type"`
	Quantity     float64 `json:"quantity"`
	EntryPrice   float64 `json:"entryPrice"`
	PositionSide string  `json:"positionSide,omitempty"`
	Notes        string  `json:"notes,omitempty"`
}

// AutotraderSummary reports the last autotrader cycle.
type AutotraderSummary struct {
	CycleStart   string  `json:"cycle_start"`
	ActionsTaken int     `json:"actions_taken"`
	BuySignals   int     `json:"buy_signals"`
	SellSignals  int     `json:"sell_signals"`
	TotalValue   float64 `json:"total_value"`
	TotalPnL     float64 `json:"total_pnl"`
	SuccessRate  float64 `json:"success_rate"`
}

// AutotraderRunResult is returned by a manual autotrader run.
type AutotraderRunResult struct {
	Success bool              `json:"success"`
	Summary AutotraderSummary `json:"summary"`
	Message string            `json:"message,omitempty"`
}

// PortfolioData is one portfolio's capital account.
type PortfolioData struct {
	InitialCapital float64 `json:"initial_capital"`
	CurrentCapital float64 `json:"current_capital"`
	AvailableCash  float64 `json:"available_cash"`
	InvestedAmount float64 `json:"invested_amount"`
	TotalPnL       float64 `json:"total_pnl"`
	ROIPercent     float64 `json:"roi_percent"`
	TotalTrades    int     `json:"total_trades"`
}

// PortfolioOverview combines the stocks and crypto portfolios.
type PortfolioOverview struct {
	Portfolios struct {
		Stocks PortfolioData `json:"stocks"`
		Crypto PortfolioData `json:"crypto"`
	} `json:"portfolios"`
	Summary struct {
		TotalInitialCapital float64 `json:"total_initial_capital"`
		TotalCurrentCapital float64 `json:"total_current_capital"`
		TotalPnL            float64 `json:"total_pnl"`
		TotalROIPercent     float64 `json:"total_roi_percent"`
	} `json:"summary"`
}

// PortfolioPosition is an aggregated holding within a portfolio.
type PortfolioPosition struct {
	Symbol               string  `json:"symbol"`
	Quantity             float64 `json:"quantity"`
	AvgEntryPrice        float64 `json:"avg_entry_price"`
	TotalInvested        float64 `json:"total_invested"`
	CurrentPrice         float64 `json:"current_price"`
	CurrentValue         float64 `json:"current_value"`
	UnrealizedPnL        float64 `json:"unrealized_pnl"`
	UnrealizedPnLPercent float64 `json:"unrealized_pnl_percent"`
}

// PortfolioPositionsResponse lists a portfolio's holdings.
type PortfolioPositionsResponse struct {
	PortfolioType string              `json:"portfolio_type"`
	Positions     []PortfolioPosition `json:"positions"`
	Summary       struct {
		TotalPositions     int     `json:"total_positions"`
		TotalInvested      float64 `json:"total_invested"`
		TotalCurrentValue  float64 `json:"total_current_value"`
		TotalUnrealizedPnL float64 `json:"total_unrealized_pnl"`
	} `json:"summary"`
}

// Transaction is one executed trade.
type Transaction struct {
	Symbol      string  `json:"symbol"`
	Action      string  `json:"action"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	TotalAmount float64 `json:"total_amount"`
	Fees        float64 `json:"fees"`
	Reason      string  `json:"reason"`
	Score       float64 `json:"score"`
	Timestamp   string  `json:"timestamp"`
	Source      string  `json:"source"`
}

// TransactionsResponse lists a portfolio's trades.
type TransactionsResponse struct {
	PortfolioType string        `json:"portfolio_type"`
	Transactions  []Transaction `json:"transactions"`
	Summary       struct {
		TotalTransactions int     `json:"total_transactions"`
		BuyTransactions   int     `json:"buy_transactions"`
		SellTransactions  int     `json:"sell_transactions"`
		TotalVolume       float64 `json:"total_volume"`
	} `json:"summary"`
}

// PerformanceMetrics summarizes a portfolio over a period.
type PerformanceMetrics struct {
	InitialCapital      float64 `json:"initial_capital"`
	CurrentCapital      float64 `json:"current_capital"`
	TotalPnL            float64 `json:"total_pnl"`
	ROIPercent          float64 `json:"roi_percent"`
	RealizedPnLPeriod   float64 `json:"realized_pnl_period"`
	TotalTrades         int     `json:"total_trades"`
	WinRate             float64 `json:"win_rate"`
	BuyVolumePeriod     float64 `json:"buy_volume_period"`
	SellVolumePeriod    float64 `json:"sell_volume_period"`
	SymbolsTradedPeriod int     `json:"symbols_traded_period"`
	AvgTradeSize        float64 `json:"avg_trade_size"`
}

// PerformanceResponse is a portfolio performance report.
type PerformanceResponse struct {
	PortfolioType string             `json:"portfolio_type"`
	PeriodDays    int                `json:"period_days"`
	Metrics       PerformanceMetrics `json:"metrics"`
	SymbolsTraded []string           `json:"symbols_traded"`
}

// ComparisonAnalysis compares the stocks and crypto portfolios.
type ComparisonAnalysis struct {
	Stocks   PortfolioData `json:"stocks"`
	Crypto   PortfolioData `json:"crypto"`
	Analysis struct {
		BetterPerformer   string  `json:"better_performer"`
		ROIDifference     float64 `json:"roi_difference"`
		TotalPortfolioROI float64 `json:"total_portfolio_roi"`
		RiskAssessment    string  `json:"risk_assessment"`
	} `json:"analysis"`
}

// PositionAnalysis is the technical and fundamental analysis of a position.
// Nested sections are kept raw; finboard passes them through untouched.
type PositionAnalysis struct {
	Symbol         string          `json:"symbol"`
	Recommendation string          `json:"recommendation"`
	Score          float64         `json:"score"`
	LastUpdated    string          `json:"lastUpdated"`
	Technical      json.RawMessage `json:"technical,omitempty"`
	Fundamental    json.RawMessage `json:"fundamental,omitempty"`
	PriceHistory   json.RawMessage `json:"priceHistory,omitempty"`
	RiskMetrics    json.RawMessage `json:"riskMetrics,omitempty"`
	ExitStrategies json.RawMessage `json:"exitStrategies,omitempty"`
}

// Alert types, conditions and statuses.
const (
	AlertStatusActive    = "active"
	AlertStatusTriggered = "triggered"
	AlertStatusExpired   = "expired"
	AlertStatusDismissed = "dismissed"
)

// AlertConfig is the create/update payload of a position alert.
type AlertConfig struct {
	ID           string  `json:"id,omitempty"`
	PositionID   string  `json:"positionId"`
	Symbol       string  `json:"symbol"`
	Type         string  `json:"type"`
	Condition    string  `json:"condition"`
	Value        float64 `json:"value"`
	Message      string  `json:"message,omitempty"`
	SoundEnabled bool    `json:"soundEnabled,omitempty"`
	EmailEnabled bool    `json:"emailEnabled,omitempty"`
	ExpiresAt    string  `json:"expiresAt,omitempty"`
	CreatedAt    string  `json:"createdAt,omitempty"`
}

// Alert is a configured alert and its current state.
type Alert struct {
	ID          string      `json:"id"`
	Config      AlertConfig `json:"config"`
	Status      string      `json:"status"`
	TriggeredAt string      `json:"triggeredAt,omitempty"`
	DismissedAt string      `json:"dismissedAt,omitempty"`
	ActualValue *float64    `json:"actualValue,omitempty"`
	Message     string      `json:"message"`
}

// Health is the upstream liveness response.
type Health struct {
	Status  string `json:"status"`
	Service string `json:"service,omitempty"`
	Version string `json:"version,omitempty"`

	// Latency is measured by the client, not reported by the server.
	Latency time.Duration `json:"-"`
}

func firstNonZero[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
