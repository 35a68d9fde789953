// Package http exposes a read-mostly JSON view of the overlay so dashboards
// can embed its state, plus the pin-list input endpoint. POST /overlay/pins
// feeds the engine exactly like a changed prop: full resolve, full re-render,
// no incremental path.
package http

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/galhadida80/planpin/pkg/domain"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Engine defines the overlay surface this adapter serves.
type Engine interface {
	Pins() []domain.Pin
	SetPins(ctx context.Context, pins []domain.Pin)
	Groups() []domain.Group
	Statuses() map[string]domain.Status
	Viewport() domain.Viewport
}

// Server wires the overlay engine into a chi router.
type Server struct {
	engine  Engine
	logger  *slog.Logger
	version string
}

// NewHandler creates the HTTP handler for the overlay API. The embedded
// OpenAPI document is validated on startup so drift fails fast.
func NewHandler(engine Engine, logger *slog.Logger, version string, gatherer prometheus.Gatherer) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err := doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}

	s := &Server{engine: engine, logger: logger, version: version}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/overlay/pins", s.GetPins)
	r.Post("/overlay/pins", s.PostPins)
	r.Get("/overlay/groups", s.GetGroups)
	r.Get("/overlay/groups.geojson", s.GetGroupsGeoJSON)
	r.Get("/overlay/viewport", s.GetViewport)

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get("/openapi.yaml", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	return r, nil
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Planpin API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

// GroupView is the wire shape of one rendered group.
type GroupView struct {
	Cluster              bool          `json:"cluster"`
	Count                int           `json:"count"`
	CentroidX            float64       `json:"centroid_x"`
	CentroidY            float64       `json:"centroid_y"`
	RepresentativeStatus domain.Status `json:"representative_status"`
	Color                string        `json:"color"`
	Members              []domain.Pin  `json:"members"`
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"app":     "planpin-http",
		"version": s.version,
	})
}

// GetPins handles GET /overlay/pins.
func (s *Server) GetPins(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.engine.Pins())
}

// PostPins handles POST /overlay/pins: it replaces the engine's pin list.
func (s *Server) PostPins(w http.ResponseWriter, r *http.Request) {
	var pins []domain.Pin
	if err := json.NewDecoder(r.Body).Decode(&pins); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	for _, p := range pins {
		if p.ID == "" {
			http.Error(w, "Pin id is required", http.StatusBadRequest)
			return
		}
		if p.NormalizedX < 0 || p.NormalizedX > 1 || p.NormalizedY < 0 || p.NormalizedY > 1 {
			http.Error(w, fmt.Sprintf("Pin %s position out of range", p.ID), http.StatusBadRequest)
			return
		}
	}

	s.engine.SetPins(r.Context(), pins)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]int{"accepted": len(pins)}); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

// GetGroups handles GET /overlay/groups.
func (s *Server) GetGroups(w http.ResponseWriter, r *http.Request) {
	groups := s.engine.Groups()
	views := make([]GroupView, len(groups))
	for i, g := range groups {
		members := make([]domain.Pin, len(g.Members))
		for j, m := range g.Members {
			members[j] = m.Pin
		}
		views[i] = GroupView{
			Cluster:              g.IsCluster(),
			Count:                g.Size(),
			CentroidX:            g.CentroidX,
			CentroidY:            g.CentroidY,
			RepresentativeStatus: g.RepresentativeStatus,
			Color:                g.RepresentativeStatus.Color(),
			Members:              members,
		}
	}
	s.writeJSON(w, views)
}

// GetGroupsGeoJSON handles GET /overlay/groups.geojson.
func (s *Server) GetGroupsGeoJSON(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, toFeatureCollection(s.engine.Groups()))
}

// GetViewport handles GET /overlay/viewport.
func (s *Server) GetViewport(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, s.engine.Viewport())
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
