package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rshade/finboard/internal/cache"
	"github.com/rshade/finboard/internal/logging"
)

// StatsResponse is the body of GET /cache/stats.
type StatsResponse struct {
	cache.Stats
	Gate cache.GateStats `json:"gate"`
}

// InvalidateRequest is the body of POST /cache/invalidate.
type InvalidateRequest struct {
	Pattern string `json:"pattern"`
}

// CountResponse reports how many entries an operation removed.
type CountResponse struct {
	Removed int `json:"removed"`
}

func (s *Server) cacheStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, StatsResponse{
		Stats: s.svc.Store().Stats(),
		Gate:  s.svc.Gate().Stats(),
	})
}

// wildcardKey returns the unescaped key captured by a trailing "*" route.
// chi matches on RawPath when the request has one, so escaped separators
// such as %2F arrive still escaped.
func wildcardKey(r *http.Request) (string, error) {
	key := chi.URLParam(r, "*")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(key)
		if err != nil {
			return "", fmt.Errorf("invalid cache key %q: %w", key, err)
		}
		key = unescaped
	}
	if strings.TrimSpace(key) == "" {
		return "", errors.New("cache key is required")
	}
	return key, nil
}

func (s *Server) cacheInfo(w http.ResponseWriter, r *http.Request) {
	key, err := wildcardKey(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.svc.Store().Info(key).View(key))
}

func (s *Server) cacheClear(w http.ResponseWriter, r *http.Request) {
	n := s.svc.Store().Clear()
	logging.FromContext(r.Context()).Info().Int("removed", n).Msg("cache cleared")
	writeJSON(w, http.StatusOK, CountResponse{Removed: n})
}

func (s *Server) cacheDelete(w http.ResponseWriter, r *http.Request) {
	key, err := wildcardKey(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	removed := 0
	if s.svc.Store().Invalidate(key) {
		removed = 1
	}
	writeJSON(w, http.StatusOK, CountResponse{Removed: removed})
}

func (s *Server) cacheInvalidate(w http.ResponseWriter, r *http.Request) {
	var req InvalidateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if req.Pattern == "" {
		writeError(w, r, http.StatusBadRequest, errors.New("pattern is required"))
		return
	}

	n, err := s.svc.Store().InvalidatePattern(req.Pattern)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, fmt.Errorf("invalid pattern %q: %w", req.Pattern, err))
		return
	}
	logging.FromContext(r.Context()).Info().
		Str("pattern", req.Pattern).
		Int("removed", n).
		Msg("cache invalidated")
	writeJSON(w, http.StatusOK, CountResponse{Removed: n})
}

func (s *Server) cacheSweep(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, CountResponse{Removed: s.svc.Store().Sweep()})
}
