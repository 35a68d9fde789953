// Package geo converts between normalized pin coordinates and surface pixels.
//
// All mapping is parameterized by the background image's placement rectangle
// inside the viewport, never by the full surface: a pin at (0.5, 0.5) sits at
// the image's center regardless of letterboxing or pan.
package geo

import (
	"github.com/galhadida80/planpin/pkg/domain"
)

// Mapper converts between normalized (0..1) coordinates and surface pixels
// for one viewport snapshot. The zero value is unusable; construct via New.
type Mapper struct {
	viewport domain.Viewport
}

// New creates a Mapper for the given viewport snapshot.
func New(viewport domain.Viewport) Mapper {
	return Mapper{viewport: viewport}
}

// ToPixel maps a normalized coordinate to surface pixels.
// Returns domain.ErrImageNotReady while the image has zero dimensions.
func (m Mapper) ToPixel(p domain.NormalizedPoint) (x, y float64, err error) {
	if !m.viewport.ImageReady() {
		return 0, 0, domain.ErrImageNotReady
	}
	x = p.X*m.viewport.ImageWidthPx + m.viewport.ImageOriginX
	y = p.Y*m.viewport.ImageHeightPx + m.viewport.ImageOriginY
	return x, y, nil
}

// ToNormalized inverse-maps a surface pixel to a normalized coordinate.
// Pixels outside the image placement rectangle have no mapping and yield
// domain.ErrOutsideImage, which callers must treat as "no target".
func (m Mapper) ToNormalized(x, y float64) (domain.NormalizedPoint, error) {
	if !m.viewport.ImageReady() {
		return domain.NormalizedPoint{}, domain.ErrImageNotReady
	}
	if !m.viewport.ContainsPixel(x, y) {
		return domain.NormalizedPoint{}, domain.ErrOutsideImage
	}
	return domain.NormalizedPoint{
		X: (x - m.viewport.ImageOriginX) / m.viewport.ImageWidthPx,
		Y: (y - m.viewport.ImageOriginY) / m.viewport.ImageHeightPx,
	}, nil
}

// Viewport returns the snapshot this mapper was built from.
func (m Mapper) Viewport() domain.Viewport {
	return m.viewport
}
