package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rshade/finboard/internal/dashboard"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Server serves the dashboard API.
type Server struct {
	svc     *dashboard.Service
	logger  zerolog.Logger
	started time.Time
}

// New returns a Server for svc.
func New(svc *dashboard.Service, logger zerolog.Logger) *Server {
	return &Server{
		svc:     svc,
		logger:  logger,
		started: time.Now(),
	}
}

// Routes builds the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(traceMiddleware(s.logger))
	r.Use(middleware.Recoverer)

	r.Get("/health", s.health)
	r.Get("/health/upstream", s.upstreamHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/dashboard", s.snapshot)

		r.Route("/stocks", func(r chi.Router) {
			r.Get("/", s.listStocks)
			r.Post("/refresh", s.refreshStocks)
			r.Get("/{symbol}", s.getStock)
		})

		r.Route("/cryptos", func(r chi.Router) {
			r.Get("/", s.listCryptos)
			r.Post("/refresh", s.refreshCryptos)
			r.Get("/{symbol}", s.getCrypto)
		})

		r.Route("/positions", func(r chi.Router) {
			r.Get("/autotrader", s.autotraderPositions)
			r.Get("/manual", s.manualPositions)
			r.Post("/manual", s.createManualPosition)
			r.Put("/manual/{id}", s.updateManualPosition)
			r.Delete("/manual/{id}", s.deleteManualPosition)
			r.Post("/refresh", s.refreshPositions)
			r.Get("/analysis/{symbol}", s.positionAnalysis)
		})

		r.Route("/autotrader", func(r chi.Router) {
			r.Post("/run", s.runAutotrader)
			r.Get("/summary", s.autotraderSummary)
		})

		r.Route("/portfolio", func(r chi.Router) {
			r.Get("/overview", s.portfolioOverview)
			r.Post("/refresh", s.refreshPortfolio)
			r.Get("/analytics/comparison", s.portfolioComparison)
			r.Get("/{kind}/positions", s.portfolioPositions)
			r.Get("/{kind}/transactions", s.portfolioTransactions)
			r.Get("/{kind}/performance", s.portfolioPerformance)
		})

		r.Route("/alerts", func(r chi.Router) {
			r.Get("/", s.listAlerts)
			r.Post("/", s.createAlert)
			r.Get("/check", s.checkAlerts)
			r.Put("/{id}", s.updateAlert)
			r.Delete("/{id}", s.deleteAlert)
			r.Patch("/{id}/dismiss", s.dismissAlert)
		})
	})

	r.Route("/cache", func(r chi.Router) {
		r.Get("/stats", s.cacheStats)
		r.Get("/info/*", s.cacheInfo)
		r.Delete("/", s.cacheClear)
		r.Delete("/keys/*", s.cacheDelete)
		r.Post("/invalidate", s.cacheInvalidate)
		r.Post("/sweep", s.cacheSweep)
	})

	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, readTimeout, writeTimeout)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.Routes(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readTimeout,
		WriteTimeout:      writeTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info().Str("addr", ln.Addr().String()).Msg("finboard server listening")

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info().Msg("finboard server stopped")
	return nil
}
