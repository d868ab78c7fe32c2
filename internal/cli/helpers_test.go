package cli_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/finboard/internal/cli"
	"github.com/rshade/finboard/internal/config"
)

// fakeAPI is a trading API stub that counts hits per "METHOD path".
type fakeAPI struct {
	mu      sync.Mutex
	hits    map[string]int
	down    bool
	version string
}

func (f *fakeAPI) count(route string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[route]
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	route := r.Method + " " + r.URL.Path
	f.mu.Lock()
	f.hits[route]++
	down, version := f.down, f.version
	f.mu.Unlock()

	if down {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	switch route {
	case "GET /health":
		_, _ = io.WriteString(w, `{"status":"healthy","service":"trading-api","version":"`+version+`"}`)
	case "GET /api/v1/stocks":
		_, _ = io.WriteString(w, `[
			{"id":"1","symbol":"AAPL","name":"Apple Inc.","current_price":189.5,"score":8.2,"change_percent":1.25,"volume":52000000},
			{"id":"2","symbol":"INTC","name":"Intel","currentPrice":30,"score":3.1,"changePercent":-2}
		]`)
	case "GET /api/v1/stocks/AAPL":
		_, _ = io.WriteString(w, `{"id":"1","symbol":"AAPL","name":"Apple Inc.","current_price":189.5,"score":8.2}`)
	case "GET /api/v1/cryptos":
		_, _ = io.WriteString(w, `[{"id":"3","symbol":"BTC","name":"Bitcoin","currentPrice":65000,"score":6.4}]`)
	case "GET /api/v1/positions/autotrader":
		_, _ = io.WriteString(w, `[{"id":"a1","symbol":"NVDA","type":"stock","quantity":3,"entry_price":800,
			"current_price":900,"value":2700,"pnl":300,"pnl_percent":12.5,"source":"autotrader","position_side":"LONG"}]`)
	case "GET /api/v1/positions/manual":
		_, _ = io.WriteString(w, `[{"id":"m1","symbol":"TSLA","type":"stock","quantity":2,"entryPrice":250,
			"currentPrice":240,"value":480,"pnl":20,"source":"manual","positionSide":"SHORT"}]`)
	case "GET /api/v1/autotrader/summary":
		_, _ = io.WriteString(w, `{"cycle_start":"2026-03-01T09:00:00Z","actions_taken":4,"buy_signals":3,
			"sell_signals":1,"total_value":15000,"total_pnl":-42.5,"success_rate":75}`)
	case "POST /api/v1/autotrader/run":
		_, _ = io.WriteString(w, `{"success":true,"message":"cycle complete","summary":{"actions_taken":2}}`)
	case "GET /api/v1/portfolio/overview":
		_, _ = io.WriteString(w, `{"summary":{"total_initial_capital":20000,"total_current_capital":21000,"total_pnl":1000}}`)
	case "POST /api/v1/stocks/refresh", "POST /api/v1/cryptos/refresh", "POST /api/v1/positions/refresh":
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

// newFakeAPI starts a fake trading API.
func newFakeAPI(t *testing.T) (*fakeAPI, string) {
	t.Helper()
	api := &fakeAPI{hits: make(map[string]int), version: "2.1.0"}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, srv.URL
}

// testCLI runs finboard commands with an isolated home directory and an
// injected environment.
type testCLI struct {
	env  map[string]string
	home string
}

func newTestCLI(t *testing.T, apiURL string) *testCLI {
	t.Helper()
	home := t.TempDir()
	t.Setenv(config.EnvHome, home)
	return &testCLI{
		env: map[string]string{
			config.EnvAPIURL:   apiURL,
			config.EnvLogLevel: "error",
		},
		home: home,
	}
}

func (c *testCLI) lookupEnv(key string) (string, bool) {
	v, ok := c.env[key]
	return v, ok
}

// run executes args and returns combined stdout and stderr.
func (c *testCLI) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return c.runContext(t, context.Background(), args...)
}

func (c *testCLI) runContext(t *testing.T, ctx context.Context, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	cmd := cli.NewRootCmdWithArgs("test", append([]string{"--project-dir", t.TempDir()}, args...), c.lookupEnv)
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	err := cmd.ExecuteContext(ctx)
	return buf.String(), err
}

// writeGlobalConfig writes content as the global config file.
func (c *testCLI) writeGlobalConfig(t *testing.T, content string) {
	t.Helper()
	path, err := config.DefaultConfigPath()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}
