package dashboard

import (
	"context"
	"sync"

	"github.com/rshade/finboard/internal/cache"
	"github.com/rshade/finboard/internal/upstream"
)

// fakeSource records calls and serves canned data. Setting fail[method]
// makes that method return the error.
type fakeSource struct {
	mu    sync.Mutex
	calls map[string]int
	order []string
	fail  map[string]error

	// onCall runs inside every call after it is recorded.
	onCall func(method string)
}

func newFakeSource() *fakeSource {
	return &fakeSource{calls: make(map[string]int), fail: make(map[string]error)}
}

func (f *fakeSource) record(method string) error {
	f.mu.Lock()
	f.calls[method]++
	f.order = append(f.order, method)
	err := f.fail[method]
	hook := f.onCall
	f.mu.Unlock()

	if hook != nil {
		hook(method)
	}
	return err
}

func (f *fakeSource) count(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *fakeSource) setFail(method string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail[method] = err
}

func (f *fakeSource) Health(context.Context) (upstream.Health, error) {
	return upstream.Health{Status: "healthy", Version: "1.0.0"}, f.record("Health")
}

func (f *fakeSource) Stocks(_ context.Context, byScore bool) ([]upstream.Stock, error) {
	if err := f.record("Stocks"); err != nil {
		return nil, err
	}
	if byScore {
		return []upstream.Stock{{Symbol: "NVDA", Score: 9}, {Symbol: "AAPL", Score: 7}}, nil
	}
	return []upstream.Stock{{Symbol: "AAPL", Score: 7}, {Symbol: "NVDA", Score: 9}}, nil
}

func (f *fakeSource) Stock(_ context.Context, symbol string) (upstream.Stock, error) {
	return upstream.Stock{Symbol: symbol}, f.record("Stock")
}

func (f *fakeSource) RefreshStocks(context.Context) error { return f.record("RefreshStocks") }

func (f *fakeSource) Cryptos(context.Context, bool) ([]upstream.Crypto, error) {
	if err := f.record("Cryptos"); err != nil {
		return nil, err
	}
	return []upstream.Crypto{{Symbol: "BTC", Score: 8.5}}, nil
}

func (f *fakeSource) Crypto(_ context.Context, symbol string) (upstream.Crypto, error) {
	return upstream.Crypto{Symbol: symbol}, f.record("Crypto")
}

func (f *fakeSource) RefreshCryptos(context.Context) error { return f.record("RefreshCryptos") }

func (f *fakeSource) AutotraderPositions(_ context.Context, assetType string) ([]upstream.Position, error) {
	if err := f.record("AutotraderPositions"); err != nil {
		return nil, err
	}
	return []upstream.Position{{ID: "a1", Type: assetType, Source: upstream.SourceAutotrader}}, nil
}

func (f *fakeSource) ManualPositions(context.Context) ([]upstream.Position, error) {
	if err := f.record("ManualPositions"); err != nil {
		return nil, err
	}
	return []upstream.Position{{ID: "m1", Source: upstream.SourceManual}}, nil
}

func (f *fakeSource) CreateManualPosition(_ context.Context, p upstream.ManualPosition) (upstream.Position, error) {
	return upstream.Position{ID: "m2", Symbol: p.Symbol}, f.record("CreateManualPosition")
}

func (f *fakeSource) UpdateManualPosition(_ context.Context, id string, p upstream.ManualPosition) (upstream.Position, error) {
	return upstream.Position{ID: id, Symbol: p.Symbol}, f.record("UpdateManualPosition")
}

func (f *fakeSource) DeleteManualPosition(context.Context, string) error {
	return f.record("DeleteManualPosition")
}

func (f *fakeSource) RefreshPositions(context.Context) error { return f.record("RefreshPositions") }

func (f *fakeSource) PositionAnalysis(_ context.Context, symbol string) (upstream.PositionAnalysis, error) {
	return upstream.PositionAnalysis{Symbol: symbol, Recommendation: "HOLD"}, f.record("PositionAnalysis")
}

func (f *fakeSource) RunAutotrader(context.Context) (upstream.AutotraderRunResult, error) {
	return upstream.AutotraderRunResult{Success: true}, f.record("RunAutotrader")
}

func (f *fakeSource) AutotraderSummary(context.Context) (upstream.AutotraderSummary, error) {
	return upstream.AutotraderSummary{ActionsTaken: 2}, f.record("AutotraderSummary")
}

func (f *fakeSource) PortfolioOverview(context.Context) (upstream.PortfolioOverview, error) {
	var o upstream.PortfolioOverview
	o.Summary.TotalPnL = 1234.5
	return o, f.record("PortfolioOverview")
}

func (f *fakeSource) PortfolioPositions(_ context.Context, kind string) (upstream.PortfolioPositionsResponse, error) {
	return upstream.PortfolioPositionsResponse{PortfolioType: kind}, f.record("PortfolioPositions")
}

func (f *fakeSource) Transactions(_ context.Context, kind string, _ int, _ string) (upstream.TransactionsResponse, error) {
	return upstream.TransactionsResponse{PortfolioType: kind}, f.record("Transactions")
}

func (f *fakeSource) Performance(_ context.Context, kind string, days int) (upstream.PerformanceResponse, error) {
	return upstream.PerformanceResponse{PortfolioType: kind, PeriodDays: days}, f.record("Performance")
}

func (f *fakeSource) Comparison(context.Context) (upstream.ComparisonAnalysis, error) {
	return upstream.ComparisonAnalysis{}, f.record("Comparison")
}

func (f *fakeSource) RefreshPortfolio(context.Context) error { return f.record("RefreshPortfolio") }

func (f *fakeSource) Alerts(_ context.Context, positionID string) ([]upstream.Alert, error) {
	if err := f.record("Alerts"); err != nil {
		return nil, err
	}
	return []upstream.Alert{{ID: "al1", Config: upstream.AlertConfig{PositionID: positionID}}}, nil
}

func (f *fakeSource) CreateAlert(_ context.Context, cfg upstream.AlertConfig) (upstream.Alert, error) {
	return upstream.Alert{ID: "al2", Config: cfg}, f.record("CreateAlert")
}

func (f *fakeSource) UpdateAlert(_ context.Context, id string, cfg upstream.AlertConfig) (upstream.Alert, error) {
	return upstream.Alert{ID: id, Config: cfg}, f.record("UpdateAlert")
}

func (f *fakeSource) DeleteAlert(context.Context, string) error  { return f.record("DeleteAlert") }
func (f *fakeSource) DismissAlert(context.Context, string) error { return f.record("DismissAlert") }

func (f *fakeSource) CheckAlerts(context.Context) ([]upstream.Alert, error) {
	if err := f.record("CheckAlerts"); err != nil {
		return nil, err
	}
	return []upstream.Alert{{ID: "al1", Status: upstream.AlertStatusTriggered}}, nil
}

var _ Source = (*fakeSource)(nil)

// newTestService wires a service over a fresh fake source and store.
func newTestService(gateOpts ...cache.GateOption) (*Service, *fakeSource) {
	src := newFakeSource()
	gate := cache.NewGate(cache.New(), gateOpts...)
	return NewService(src, gate), src
}
