// Package interact routes background pointer-downs into the entity-creation
// workflow.
//
// Marker clicks never reach this package; the engine resolves those against
// the renderer's hit index first. Everything left is either a click inside
// the floorplan image (inverse-mapped and handed outward) or a no-op.
package interact

import (
	"errors"
	"log/slog"

	"github.com/galhadida80/planpin/internal/geo"
	"github.com/galhadida80/planpin/pkg/domain"
)

// CreateRequestFunc receives the normalized position of a background click.
// The external workflow owns its own modal and validation; any resulting pin
// flows back into the engine only through a changed pin list.
type CreateRequestFunc func(p domain.NormalizedPoint)

// Router dispatches background pointer events.
type Router struct {
	onCreate CreateRequestFunc
	logger   *slog.Logger
}

// New creates a Router. A nil callback makes every event a no-op.
func New(onCreate CreateRequestFunc, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{onCreate: onCreate, logger: logger}
}

// Route inverse-maps the event through the mapper and invokes the creation
// callback. Clicks outside the image rectangle and clicks before the image is
// ready are deliberate no-ops, never errors.
func (r *Router) Route(ev domain.PointerEvent, mapper geo.Mapper) {
	if r.onCreate == nil {
		return
	}

	p, err := mapper.ToNormalized(ev.X, ev.Y)
	if err != nil {
		if errors.Is(err, domain.ErrOutsideImage) || errors.Is(err, domain.ErrImageNotReady) {
			r.logger.Debug("background click ignored", "x", ev.X, "y", ev.Y, "reason", err)
			return
		}
		r.logger.Warn("background click mapping failed", "x", ev.X, "y", ev.Y, "err", err)
		return
	}

	r.onCreate(p)
}
