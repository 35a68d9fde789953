package geo_test

import (
	"errors"
	"math"
	"testing"

	"github.com/galhadida80/planpin/internal/geo"
	"github.com/galhadida80/planpin/pkg/domain"
)

func testViewport() domain.Viewport {
	return domain.Viewport{
		Zoom:            1.0,
		SurfaceWidthPx:  1200,
		SurfaceHeightPx: 900,
		ImageOriginX:    50,
		ImageOriginY:    50,
		ImageWidthPx:    1000,
		ImageHeightPx:   800,
	}
}

func TestMapper_ToPixel(t *testing.T) {
	m := geo.New(testViewport())

	t.Run("Center", func(t *testing.T) {
		x, y, err := m.ToPixel(domain.NormalizedPoint{X: 0.5, Y: 0.5})
		if err != nil {
			t.Fatalf("ToPixel failed: %v", err)
		}
		if x != 550 || y != 450 {
			t.Errorf("Expected (550, 450), got (%f, %f)", x, y)
		}
	})

	t.Run("Origin", func(t *testing.T) {
		x, y, err := m.ToPixel(domain.NormalizedPoint{X: 0, Y: 0})
		if err != nil {
			t.Fatalf("ToPixel failed: %v", err)
		}
		if x != 50 || y != 50 {
			t.Errorf("Expected image origin (50, 50), got (%f, %f)", x, y)
		}
	})

	t.Run("Image Not Ready", func(t *testing.T) {
		m := geo.New(domain.Viewport{SurfaceWidthPx: 1200, SurfaceHeightPx: 900})
		_, _, err := m.ToPixel(domain.NormalizedPoint{X: 0.5, Y: 0.5})
		if !errors.Is(err, domain.ErrImageNotReady) {
			t.Errorf("Expected ErrImageNotReady, got %v", err)
		}
	})
}

func TestMapper_ToNormalized(t *testing.T) {
	m := geo.New(domain.Viewport{
		ImageOriginX: 50, ImageOriginY: 50,
		ImageWidthPx: 200, ImageHeightPx: 200,
	})

	t.Run("Inside Rectangle", func(t *testing.T) {
		p, err := m.ToNormalized(150, 150)
		if err != nil {
			t.Fatalf("ToNormalized failed: %v", err)
		}
		if p.X != 0.5 || p.Y != 0.5 {
			t.Errorf("Expected (0.5, 0.5), got (%f, %f)", p.X, p.Y)
		}
	})

	t.Run("Outside Rectangle", func(t *testing.T) {
		_, err := m.ToNormalized(10, 10)
		if !errors.Is(err, domain.ErrOutsideImage) {
			t.Errorf("Expected ErrOutsideImage, got %v", err)
		}
	})

	t.Run("Image Not Ready", func(t *testing.T) {
		m := geo.New(domain.Viewport{})
		_, err := m.ToNormalized(0, 0)
		if !errors.Is(err, domain.ErrImageNotReady) {
			t.Errorf("Expected ErrImageNotReady, got %v", err)
		}
	})
}

func TestMapper_RoundTrip(t *testing.T) {
	m := geo.New(testViewport())

	points := []domain.NormalizedPoint{
		{X: 0.0, Y: 0.0},
		{X: 0.25, Y: 0.75},
		{X: 0.5, Y: 0.5},
		{X: 0.999, Y: 0.001},
	}

	const tolerance = 1e-9

	for _, p := range points {
		x, y, err := m.ToPixel(p)
		if err != nil {
			t.Fatalf("ToPixel(%v) failed: %v", p, err)
		}
		back, err := m.ToNormalized(x, y)
		if err != nil {
			t.Fatalf("ToNormalized(%f, %f) failed: %v", x, y, err)
		}
		if math.Abs(back.X-p.X) > tolerance || math.Abs(back.Y-p.Y) > tolerance {
			t.Errorf("Round trip of %v drifted to %v", p, back)
		}
	}
}
