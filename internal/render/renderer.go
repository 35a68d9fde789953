// Package render synchronizes drawn markers on the host surface with the
// current group list.
//
// The renderer is deliberately not incremental: every relevant input change
// destroys all markers belonging to this overlay instance and recreates one
// marker per group. At expected pin counts (tens, not thousands) per-pin
// diffing would only add state-synchronization risk.
package render

import (
	"fmt"
	"log/slog"
	"strconv"

	"github.com/galhadida80/planpin/internal/geo"
	"github.com/galhadida80/planpin/internal/metrics"
	"github.com/galhadida80/planpin/pkg/domain"
	"github.com/galhadida80/planpin/pkg/ports"
)

// Radii of the drawn discs, in surface pixels.
const (
	SingletonRadiusPx = 10
	ClusterRadiusPx   = 16
)

// Renderer owns the overlay's drawn objects on one surface.
type Renderer struct {
	surface ports.Surface
	logger  *slog.Logger
	metrics *metrics.Metrics

	markers []domain.Marker
}

// New creates a Renderer for the given surface.
func New(surface ports.Surface, logger *slog.Logger, m *metrics.Metrics) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{surface: surface, logger: logger, metrics: m}
}

// Render tears down the previous pass's markers and draws one marker per
// group. Draw calls are batched through the surface to avoid visible flicker.
// Teardown always runs, even for an empty group list, so no pass can leave
// stale objects behind.
func (r *Renderer) Render(groups []domain.Group, mapper geo.Mapper) error {
	return r.surface.Batch(func() error {
		r.teardown()
		for _, g := range groups {
			marker, err := r.draw(g, mapper)
			if err != nil {
				// Markers drawn so far stay on the surface until the next
				// pass's teardown reclaims them.
				r.metrics.CountRenderPass(len(r.markers))
				return fmt.Errorf("draw marker: %w", err)
			}
			r.markers = append(r.markers, marker)
		}
		r.metrics.CountRenderPass(len(r.markers))
		return nil
	})
}

// Clear removes every drawn marker without starting a new pass.
func (r *Renderer) Clear() error {
	return r.surface.Batch(func() error {
		r.teardown()
		r.metrics.CountRenderPass(0)
		return nil
	})
}

// HitTest returns the topmost marker containing the pixel, if any. Later
// markers are drawn on top, so the scan runs back to front.
func (r *Renderer) HitTest(x, y float64) (domain.Marker, bool) {
	for i := len(r.markers) - 1; i >= 0; i-- {
		if r.markers[i].Hit(x, y) {
			return r.markers[i], true
		}
	}
	return domain.Marker{}, false
}

// Markers returns the markers of the current pass.
func (r *Renderer) Markers() []domain.Marker {
	return r.markers
}

func (r *Renderer) teardown() {
	for _, m := range r.markers {
		if err := r.surface.Remove(m.DiscID); err != nil {
			r.logger.Warn("marker disc removal failed", "object", m.DiscID, "err", err)
		}
		if m.LabelID != "" {
			if err := r.surface.Remove(m.LabelID); err != nil {
				r.logger.Warn("marker label removal failed", "object", m.LabelID, "err", err)
			}
		}
	}
	r.markers = nil
}

func (r *Renderer) draw(g domain.Group, mapper geo.Mapper) (domain.Marker, error) {
	cx, cy, err := mapper.ToPixel(domain.NormalizedPoint{X: g.CentroidX, Y: g.CentroidY})
	if err != nil {
		return domain.Marker{}, err
	}

	radius := float64(SingletonRadiusPx)
	if g.IsCluster() {
		radius = ClusterRadiusPx
	}

	discID, err := r.surface.AddDisc(domain.Disc{
		CenterX:  cx,
		CenterY:  cy,
		RadiusPx: radius,
		Color:    g.RepresentativeStatus.Color(),
	})
	if err != nil {
		return domain.Marker{}, err
	}

	marker := domain.Marker{
		DiscID:   discID,
		Group:    g,
		CenterX:  cx,
		CenterY:  cy,
		RadiusPx: radius,
	}

	if g.IsCluster() {
		labelID, err := r.surface.AddLabel(domain.Label{
			CenterX: cx,
			CenterY: cy,
			Text:    strconv.Itoa(g.Size()),
			Color:   "#FFFFFF",
		})
		if err != nil {
			// The disc is already on the surface; the next teardown owns it.
			r.markers = append(r.markers, marker)
			return domain.Marker{}, err
		}
		marker.LabelID = labelID
	}

	return marker, nil
}
