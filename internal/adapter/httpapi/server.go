// Package httpapi serves the dashboard page, the JSON API behind it, the
// export downloads, and the operational endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roadwatch/accident-insight/internal/dataset"
	"github.com/roadwatch/accident-insight/internal/export"
	"github.com/roadwatch/accident-insight/internal/observability"
	"github.com/roadwatch/accident-insight/internal/query"
)

// TableProvider supplies the derived table and reports readiness.
// *dataset.Loader satisfies it.
type TableProvider interface {
	Load(ctx context.Context) (*dataset.Table, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the dashboard UI, JSON API, exports, and health endpoints.
type Server struct {
	httpServer *http.Server
	provider   TableProvider
	engine     *query.Engine
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewServer creates the HTTP server and wires all routes.
func NewServer(addr string, provider TableProvider, engine *query.Engine, metrics *observability.Metrics, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		provider: provider,
		engine:   engine,
		metrics:  metrics,
		logger:   logger,
	}

	mux.HandleFunc("GET /{$}", s.handleDashboard)

	mux.HandleFunc("GET /api/summary", s.withView(s.handleSummary))
	mux.HandleFunc("GET /api/records", s.withView(s.handleRecords))
	mux.HandleFunc("GET /api/categories", s.withView(s.handleCategories))
	mux.HandleFunc("GET /api/regions", s.withView(s.handleRegions))
	mux.HandleFunc("GET /api/map", s.withView(s.handleMap))
	mux.HandleFunc("GET /api/options", s.handleOptions)

	mux.HandleFunc("GET /export/csv", s.withView(s.handleExportCSV))
	mux.HandleFunc("GET /export/xlsx", s.withView(s.handleExportXLSX))
	mux.HandleFunc("GET /export/chart.png", s.withView(s.handleExportChart))

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

// filterFromRequest builds a Filter from query parameters.
//
// An absent types parameter selects all types, matching the UI default of
// every box checked. A present-but-empty parameter is the all-boxes-
// unchecked state and selects zero rows.
func filterFromRequest(r *http.Request) query.Filter {
	q := r.URL.Query()

	f := query.Filter{Province: q.Get("province")}
	if f.Province == "" {
		f.Province = query.ProvinceAll
	}

	if vals, ok := q["types"]; ok {
		types := []string{}
		for _, v := range vals {
			for _, t := range strings.Split(v, ",") {
				if t = strings.TrimSpace(t); t != "" {
					types = append(types, t)
				}
			}
		}
		f.Types = types
	}

	return f
}

// withView loads the table, computes the filtered view, and hands it to the
// handler. A failed load blocks the response; there is no partial dashboard.
func (s *Server) withView(handler func(http.ResponseWriter, *http.Request, *query.View)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table, err := s.provider.Load(r.Context())
		if err != nil {
			s.serveLoadError(w, err)
			return
		}
		handler(w, r, s.engine.View(table, filterFromRequest(r)))
	}
}

func (s *Server) serveLoadError(w http.ResponseWriter, err error) {
	s.logger.Error("dataset load failed", "error", err)
	status := http.StatusInternalServerError
	if errors.Is(err, dataset.ErrDataUnavailable) {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request, v *query.View) {
	writeJSON(w, http.StatusOK, v.Summary)
}

func (s *Server) handleRecords(w http.ResponseWriter, _ *http.Request, v *query.View) {
	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(v.Rows),
		"rows":  v.Rows,
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request, v *query.View) {
	writeJSON(w, http.StatusOK, v.Categories)
}

func (s *Server) handleRegions(w http.ResponseWriter, _ *http.Request, v *query.View) {
	writeJSON(w, http.StatusOK, v.TopRegions)
}

// handleMap returns the mappable points plus the zoom level: close-up when
// a single province is selected, country-wide otherwise.
func (s *Server) handleMap(w http.ResponseWriter, r *http.Request, v *query.View) {
	zoom := 6
	if p := r.URL.Query().Get("province"); p != "" && p != query.ProvinceAll {
		zoom = 10
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"zoom":   zoom,
		"points": v.Points,
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	table, err := s.provider.Load(r.Context())
	if err != nil {
		s.serveLoadError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, query.OptionsFor(table.Records, r.URL.Query().Get("province")))
}

func (s *Server) handleExportCSV(w http.ResponseWriter, _ *http.Request, v *query.View) {
	s.metrics.ExportRequests.WithLabelValues("csv").Inc()
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="traffic_accident_analysis.csv"`)
	if err := export.WriteCSV(w, v.Rows); err != nil {
		s.logger.Error("csv export failed", "error", err)
	}
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, _ *http.Request, v *query.View) {
	s.metrics.ExportRequests.WithLabelValues("xlsx").Inc()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="traffic_accident_analysis.xlsx"`)
	if err := export.WriteXLSX(w, v.Rows); err != nil {
		s.logger.Error("xlsx export failed", "error", err)
	}
}

func (s *Server) handleExportChart(w http.ResponseWriter, _ *http.Request, v *query.View) {
	s.metrics.ExportRequests.WithLabelValues("png").Inc()
	w.Header().Set("Content-Type", "image/png")
	if err := export.RenderTopRegionsChart(w, v.TopRegions); err != nil {
		s.logger.Error("chart export failed", "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.provider.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
