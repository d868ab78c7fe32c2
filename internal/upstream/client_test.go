package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient starts a server running handler and returns a client for it.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(server.URL, time.Second)
	require.NoError(t, err)
	client.HTTPClient = server.Client()
	return client
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestNewClient(t *testing.T) {
	c, err := NewClient("http://localhost:8000/", 0)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8000", c.BaseURL())
	assert.Equal(t, DefaultTimeout, c.HTTPClient.Timeout)

	_, err = NewClient("localhost:8000", time.Second)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestClient_Stocks(t *testing.T) {
	var gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/stocks", r.URL.Path)
		gotQuery = r.URL.RawQuery
		_, _ = io.WriteString(w, `[
			{"id":"1","symbol":"AAPL","name":"Apple","current_price":190.5,"score":8.2,"change_percent":1.5,"market_cap":3e12},
			{"id":"2","symbol":"MSFT","name":"Microsoft","currentPrice":410,"score":6,"changePercent":-0.4}
		]`)
	})

	stocks, err := client.Stocks(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, "sort=score", gotQuery)
	require.Len(t, stocks, 2)

	assert.InDelta(t, 190.5, stocks[0].CurrentPrice, 1e-9)
	assert.InDelta(t, 1.5, stocks[0].ChangePercent, 1e-9)
	assert.InDelta(t, 3e12, stocks[0].MarketCap, 1)
	assert.InDelta(t, 410, stocks[1].CurrentPrice, 1e-9)
	assert.InDelta(t, -0.4, stocks[1].ChangePercent, 1e-9)

	_, err = client.Stocks(context.Background(), false)
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestClient_PositionsSnakeCase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/positions/autotrader", r.URL.Path)
		assert.Equal(t, "crypto", r.URL.Query().Get("type"))
		_, _ = io.WriteString(w, `[{"id":"p1","symbol":"BTC","type":"crypto","quantity":0.5,
			"entry_price":60000,"current_price":65000,"pnl":2500,"pnl_percent":8.3,
			"source":"autotrader","position_side":"SHORT","created_at":"2024-01-01"}]`)
	})

	positions, err := client.AutotraderPositions(context.Background(), AssetCrypto)
	require.NoError(t, err)
	require.Len(t, positions, 1)

	p := positions[0]
	assert.InDelta(t, 60000, p.EntryPrice, 1e-9)
	assert.InDelta(t, 65000, p.CurrentPrice, 1e-9)
	assert.InDelta(t, 8.3, p.PnLPercent, 1e-9)
	assert.Equal(t, SideShort, p.PositionSide)
	assert.Equal(t, "2024-01-01", p.CreatedAt)

	// Re-encoding uses camelCase.
	data, err := json.Marshal(p)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"entryPrice":60000`)
	assert.Contains(t, string(data), `"positionSide":"SHORT"`)

	_, err = client.AutotraderPositions(context.Background(), "bond")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestClient_Mutations(t *testing.T) {
	type call struct{ method, path, body string }
	var calls []call

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		calls = append(calls, call{r.Method, r.URL.EscapedPath(), string(body)})
		switch r.URL.Path {
		case "/api/v1/positions/manual", "/api/v1/positions/manual/m 1":
			writeJSON(t, w, map[string]any{"id": "m1", "symbol": "TSLA", "entry_price": 200})
		case "/api/v1/autotrader/run":
			writeJSON(t, w, AutotraderRunResult{Success: true, Summary: AutotraderSummary{ActionsTaken: 3}})
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	})
	ctx := context.Background()

	created, err := client.CreateManualPosition(ctx, ManualPosition{Symbol: "TSLA", Quantity: 2, EntryPrice: 200})
	require.NoError(t, err)
	assert.InDelta(t, 200, created.EntryPrice, 1e-9)

	_, err = client.UpdateManualPosition(ctx, "m 1", ManualPosition{Symbol: "TSLA"})
	require.NoError(t, err)
	require.NoError(t, client.DeleteManualPosition(ctx, "m1"))
	require.NoError(t, client.RefreshStocks(ctx))
	require.NoError(t, client.DismissAlert(ctx, "a1"))

	run, err := client.RunAutotrader(ctx)
	require.NoError(t, err)
	assert.True(t, run.Success)
	assert.Equal(t, 3, run.Summary.ActionsTaken)

	require.Len(t, calls, 6)
	assert.Equal(t, http.MethodPost, calls[0].method)
	assert.Contains(t, calls[0].body, `"entryPrice":200`)
	assert.Equal(t, call{http.MethodPut, "/api/v1/positions/manual/m%201", `{"symbol":"TSLA","name":"","type":"","quantity":0,"entryPrice":0}`}, calls[1])
	assert.Equal(t, http.MethodDelete, calls[2].method)
	assert.Equal(t, "/api/v1/stocks/refresh", calls[3].path)
	assert.Equal(t, call{http.MethodPatch, "/api/v1/alerts/a1/dismiss", ""}, calls[4])

	require.ErrorIs(t, client.DeleteManualPosition(ctx, " "), ErrInvalidArgument)
}

func TestClient_PortfolioQueries(t *testing.T) {
	var paths []string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		_, _ = io.WriteString(w, `{}`)
	})
	ctx := context.Background()

	_, err := client.Transactions(ctx, PortfolioStocks, 50, "AAPL")
	require.NoError(t, err)
	_, err = client.Transactions(ctx, PortfolioCrypto, 0, "")
	require.NoError(t, err)
	_, err = client.Performance(ctx, PortfolioCrypto, 30)
	require.NoError(t, err)
	_, err = client.PortfolioPositions(ctx, PortfolioStocks)
	require.NoError(t, err)
	_, err = client.Alerts(ctx, "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/api/v1/portfolio/stocks/transactions?limit=50&symbol=AAPL",
		"/api/v1/portfolio/crypto/transactions",
		"/api/v1/portfolio/crypto/performance?days=30",
		"/api/v1/portfolio/stocks/positions",
		"/api/v1/alerts?positionId=p1",
	}, paths)

	_, err = client.Performance(ctx, "bonds", 0)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestClient_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"detail":"symbol not found"}`, http.StatusNotFound)
	})

	_, err := client.Stock(context.Background(), "NOPE")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, `{"detail":"symbol not found"}`, apiErr.Body)
	assert.Equal(t, "/stocks/NOPE", apiErr.Path)
	assert.True(t, IsNotFound(err))
	assert.Contains(t, err.Error(), "404 Not Found")
}

func TestClient_DecodeError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `not json`)
	})

	_, err := client.AutotraderSummary(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding GET /autotrader/summary response")
}

func TestClient_Health(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/health", r.URL.Path)
		writeJSON(t, w, Health{Status: "healthy", Service: "trading-api", Version: "1.4.2"})
	})

	h, err := client.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", h.Status)
	assert.Equal(t, "1.4.2", h.Version)
	assert.Positive(t, h.Latency)
}

func TestClient_HealthTimeout(t *testing.T) {
	release := make(chan struct{})
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)
	WithHealthTimeout(20 * time.Millisecond)(client)

	_, err := client.Health(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
