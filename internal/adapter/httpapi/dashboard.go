package httpapi

import (
	_ "embed"
	"html/template"
	"net/http"

	"github.com/roadwatch/accident-insight/internal/dataset"
)

//go:embed dashboard.html
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

type dashboardData struct {
	Meta dataset.Meta
}

// handleDashboard renders the page shell; the browser populates it through
// the JSON API.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	table, err := s.provider.Load(r.Context())
	if err != nil {
		s.serveLoadError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := dashboardTmpl.Execute(w, dashboardData{Meta: table.Meta}); err != nil {
		s.logger.Error("dashboard render failed", "error", err)
	}
}
