// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httpapi is the thin HTTP entry point over the federated search
// engine. It parses request parameters into the canonical query, invokes
// the federator, and serializes the aggregate. The engine never signals
// failure by omission: every search response is a well-formed aggregate
// with an explicit ok flag, including the one written by panic recovery.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/pdiddy/metasearch/internal/federator"
	"github.com/pdiddy/metasearch/internal/history"
	"github.com/pdiddy/metasearch/pkg/types"
)

// Server wires the federator to its HTTP routes.
type Server struct {
	fed    *federator.Federator
	hist   *history.Store // nil when history is disabled
	logger *zap.Logger
}

// NewServer creates the HTTP API server. hist may be nil.
func NewServer(fed *federator.Federator, hist *history.Store, logger *zap.Logger) *Server {
	return &Server{fed: fed, hist: hist, logger: logger}
}

// Handler builds the chi router with logging, metrics, and recovery.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(loggingMiddleware(s.logger))
	r.Use(metricsMiddleware)
	r.Use(s.recoverer)

	r.Get("/v1/search", s.handleSearch)
	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}

// handleSearch handles GET /v1/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := parseQuery(r)
	resp := s.fed.Search(r.Context(), q)

	for _, code := range resp.Errors {
		providerErrorsTotal.WithLabelValues(code).Inc()
	}

	if s.hist != nil && resp.OK {
		if err := s.hist.Record(r.Context(), q, resp); err != nil {
			s.logger.Warn("history record failed", zap.Error(err))
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"providers": s.fed.ProviderIDs(),
	})
}

// parseQuery maps request parameters onto the canonical query. The limit
// is parsed leniently and clamped; the structured filter fields are only
// meaningful for the legal-document provider.
func parseQuery(r *http.Request) types.Query {
	params := r.URL.Query()

	q := types.Query{
		FreeText: params.Get("q"),
		Provider: params.Get("provider"),
		Limit:    federator.ParseLimit(params.Get("limit")),
	}
	if q.Provider == "" {
		q.Provider = "all"
	}

	filters := types.FilterSet{
		Term:      params.Get("term"),
		Types:     params.Get("types"),
		Number:    params.Get("number"),
		Years:     params.Get("year"),
		Locality:  params.Get("locality"),
		Authority: params.Get("authority"),
		Exclude:   params.Get("exclude"),
	}
	if !filters.Empty() {
		q.Filters = &filters
	}
	return q
}

// recoverer converts a handler panic into the generic error aggregate
// instead of crashing the caller with a bare 500.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.logger.Error("panic in handler", zap.Any("panic", rec))
				writeJSON(w, http.StatusOK, types.AggregateResponse{
					Errors: []string{federator.ErrInternal},
					Items:  []types.Item{},
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
