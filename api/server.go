// Package api exposes the last computed report over a read-only HTTP
// surface for monitoring dashboards.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"regpulse/domain/report"
	"regpulse/internal"
)

// Server serves the latest analytics report. The report is replaced
// wholesale after each run; handlers only ever read it.
type Server struct {
	router *chi.Mux
	logger *internal.Logger

	mu      sync.RWMutex
	current *report.Report
	records []report.IndicatorRecord
}

// NewServer creates the monitoring API server.
func NewServer(logger *internal.Logger) *Server {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		router: chi.NewRouter(),
		logger: logger,
	}
	s.routes()
	return s
}

// SetReport publishes a freshly computed report to the API.
func (s *Server) SetReport(rpt *report.Report, records []report.IndicatorRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = rpt
	s.records = records
}

// Handler returns the HTTP handler for mounting or serving.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving the API on the given address.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("monitoring API listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) routes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/report", s.handleReport)
		r.Get("/indicators", s.handleIndicators)
		r.Get("/indicators/{state}", s.handleStateIndicators)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	ready := s.current != nil
	s.mu.RUnlock()

	status := map[string]interface{}{
		"status":       "ok",
		"report_ready": ready,
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	rpt := s.current
	s.mu.RUnlock()

	if rpt == nil {
		writeError(w, http.StatusNotFound, "no report computed yet")
		return
	}
	writeJSON(w, http.StatusOK, rpt)
}

func (s *Server) handleIndicators(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	records := s.records
	s.mu.RUnlock()

	if records == nil {
		writeError(w, http.StatusNotFound, "no report computed yet")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleStateIndicators(w http.ResponseWriter, r *http.Request) {
	state := chi.URLParam(r, "state")

	s.mu.RLock()
	rpt := s.current
	s.mu.RUnlock()

	if rpt == nil {
		writeError(w, http.StatusNotFound, "no report computed yet")
		return
	}
	si, ok := rpt.Indicators[state]
	if !ok {
		writeError(w, http.StatusNotFound, "no indicators for state "+state)
		return
	}
	writeJSON(w, http.StatusOK, si)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
