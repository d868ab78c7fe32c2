package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rshade/finboard/internal/upstream"
)

type healthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Uptime  string `json:"uptime"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Service: "finboard",
		Uptime:  time.Since(s.started).Truncate(time.Second).String(),
	})
}

type upstreamHealthResponse struct {
	upstream.Health
	LatencyMS int64 `json:"latency_ms"`
}

func (s *Server) upstreamHealth(w http.ResponseWriter, r *http.Request) {
	h, err := s.svc.Health(r.Context())
	respond(w, r, http.StatusOK, upstreamHealthResponse{Health: h, LatencyMS: h.Latency.Milliseconds()}, err)
}

func (s *Server) snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func byScore(r *http.Request) bool {
	return r.URL.Query().Get("sort") == "score"
}

func (s *Server) listStocks(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Stocks(r.Context(), byScore(r))
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) getStock(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Stock(r.Context(), chi.URLParam(r, "symbol"))
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) refreshStocks(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusNoContent, nil, s.svc.RefreshStocks(r.Context()))
}

func (s *Server) listCryptos(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Cryptos(r.Context(), byScore(r))
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) getCrypto(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Crypto(r.Context(), chi.URLParam(r, "symbol"))
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) refreshCryptos(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusNoContent, nil, s.svc.RefreshCryptos(r.Context()))
}

func (s *Server) autotraderPositions(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.AutotraderPositions(r.Context(), r.URL.Query().Get("type"))
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) manualPositions(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.ManualPositions(r.Context())
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) createManualPosition(w http.ResponseWriter, r *http.Request) {
	var p upstream.ManualPosition
	if err := decodeBody(r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	v, err := s.svc.CreateManualPosition(r.Context(), p)
	respond(w, r, http.StatusCreated, v, err)
}

func (s *Server) updateManualPosition(w http.ResponseWriter, r *http.Request) {
	var p upstream.ManualPosition
	if err := decodeBody(r, &p); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	v, err := s.svc.UpdateManualPosition(r.Context(), chi.URLParam(r, "id"), p)
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) deleteManualPosition(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusNoContent, nil, s.svc.DeleteManualPosition(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) refreshPositions(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusNoContent, nil, s.svc.RefreshPositions(r.Context()))
}

func (s *Server) positionAnalysis(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.PositionAnalysis(r.Context(), chi.URLParam(r, "symbol"))
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) runAutotrader(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.RunAutotrader(r.Context())
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) autotraderSummary(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.AutotraderSummary(r.Context())
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) portfolioOverview(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.PortfolioOverview(r.Context())
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) refreshPortfolio(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusNoContent, nil, s.svc.RefreshPortfolio(r.Context()))
}

func (s *Server) portfolioComparison(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Comparison(r.Context())
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) portfolioPositions(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.PortfolioPositions(r.Context(), chi.URLParam(r, "kind"))
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) portfolioTransactions(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	v, err := s.svc.Transactions(r.Context(), chi.URLParam(r, "kind"), limit, r.URL.Query().Get("symbol"))
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) portfolioPerformance(w http.ResponseWriter, r *http.Request) {
	days, err := queryInt(r, "days")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	v, err := s.svc.Performance(r.Context(), chi.URLParam(r, "kind"), days)
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.Alerts(r.Context(), r.URL.Query().Get("positionId"))
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) createAlert(w http.ResponseWriter, r *http.Request) {
	var cfg upstream.AlertConfig
	if err := decodeBody(r, &cfg); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	v, err := s.svc.CreateAlert(r.Context(), cfg)
	respond(w, r, http.StatusCreated, v, err)
}

func (s *Server) updateAlert(w http.ResponseWriter, r *http.Request) {
	var cfg upstream.AlertConfig
	if err := decodeBody(r, &cfg); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	v, err := s.svc.UpdateAlert(r.Context(), chi.URLParam(r, "id"), cfg)
	respond(w, r, http.StatusOK, v, err)
}

func (s *Server) deleteAlert(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusNoContent, nil, s.svc.DeleteAlert(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) dismissAlert(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusNoContent, nil, s.svc.DismissAlert(r.Context(), chi.URLParam(r, "id")))
}

func (s *Server) checkAlerts(w http.ResponseWriter, r *http.Request) {
	v, err := s.svc.CheckAlerts(r.Context())
	respond(w, r, http.StatusOK, v, err)
}
