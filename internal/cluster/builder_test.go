package cluster_test

import (
	"fmt"
	"testing"

	"github.com/galhadida80/planpin/internal/cluster"
	"github.com/galhadida80/planpin/internal/geo"
	"github.com/galhadida80/planpin/pkg/domain"
)

// mapperAt builds a mapper over a 1000x800 image at origin (0,0) with the
// given zoom. Pixel positions are independent of zoom here; only the
// clustering gate reads it.
func mapperAt(zoom float64) geo.Mapper {
	return geo.New(domain.Viewport{
		Zoom:            zoom,
		SurfaceWidthPx:  1000,
		SurfaceHeightPx: 800,
		ImageWidthPx:    1000,
		ImageHeightPx:   800,
	})
}

func pin(id string, x, y float64, status domain.Status) domain.PinWithStatus {
	return domain.PinWithStatus{
		Pin: domain.Pin{
			ID:          id,
			EntityType:  domain.EntityDefect,
			EntityID:    "e-" + id,
			NormalizedX: x,
			NormalizedY: y,
		},
		Status: status,
	}
}

func TestBuild_ProximityMerge(t *testing.T) {
	// Pins at normalized (0.50, 0.50) and (0.505, 0.50) on a 1000px-wide
	// image are 5px apart: well under the 50px radius.
	pins := []domain.PinWithStatus{
		pin("a", 0.50, 0.50, domain.StatusOpen),
		pin("b", 0.505, 0.50, domain.StatusResolved),
	}

	groups := cluster.Build(pins, mapperAt(1.0), cluster.DefaultOptions())

	if len(groups) != 1 {
		t.Fatalf("Expected 1 cluster, got %d groups", len(groups))
	}
	if !groups[0].IsCluster() || groups[0].Size() != 2 {
		t.Errorf("Expected a cluster of 2, got size %d", groups[0].Size())
	}
	if groups[0].RepresentativeStatus != domain.StatusOpen {
		t.Errorf("Expected anchor status 'open', got %q", groups[0].RepresentativeStatus)
	}
	// Centroid is the mean of the normalized positions.
	if groups[0].CentroidX != 0.5025 || groups[0].CentroidY != 0.50 {
		t.Errorf("Unexpected centroid (%f, %f)", groups[0].CentroidX, groups[0].CentroidY)
	}
}

func TestBuild_ZoomDisablesClustering(t *testing.T) {
	pins := []domain.PinWithStatus{
		pin("a", 0.50, 0.50, domain.StatusOpen),
		pin("b", 0.505, 0.50, domain.StatusResolved),
	}

	groups := cluster.Build(pins, mapperAt(2.0), cluster.DefaultOptions())

	if len(groups) != 2 {
		t.Fatalf("Expected 2 singletons at zoom 2.0, got %d groups", len(groups))
	}
	for i, g := range groups {
		if g.IsCluster() {
			t.Errorf("Group %d should be a singleton", i)
		}
		if g.Anchor().ID != pins[i].ID {
			t.Errorf("Singletons must preserve input order: got %q at %d", g.Anchor().ID, i)
		}
	}
}

func TestBuild_GreedyBridging(t *testing.T) {
	// Three collinear pins, each end 30px from the middle: the ends are 60px
	// apart, beyond the 50px radius, but both are strictly within 50px of the
	// anchor. With the middle pin first in input order, one scan collects all
	// three, bridging a span wider than the radius.
	pins := []domain.PinWithStatus{
		pin("mid", 0.50, 0.50, domain.StatusInProgress), // anchor
		pin("left", 0.47, 0.50, domain.StatusOpen),      // 30px from anchor
		pin("right", 0.53, 0.50, domain.StatusOpen),     // 30px from anchor, 60px from left
	}

	groups := cluster.Build(pins, mapperAt(1.0), cluster.DefaultOptions())

	if len(groups) != 1 {
		t.Fatalf("Expected one bridged cluster of 3, got %d groups", len(groups))
	}
	if groups[0].Size() != 3 {
		t.Errorf("Expected cluster of 3, got %d", groups[0].Size())
	}
	if groups[0].RepresentativeStatus != domain.StatusInProgress {
		t.Errorf("Representative status must come from the anchor, got %q", groups[0].RepresentativeStatus)
	}
}

func TestBuild_OrderDependence(t *testing.T) {
	// Same three pins, but scanning starts at an end pin: its scan only
	// reaches the middle, and the far end becomes a singleton.
	pins := []domain.PinWithStatus{
		pin("left", 0.47, 0.50, domain.StatusOpen),
		pin("mid", 0.50, 0.50, domain.StatusInProgress),
		pin("right", 0.53, 0.50, domain.StatusOpen),
	}

	groups := cluster.Build(pins, mapperAt(1.0), cluster.DefaultOptions())

	if len(groups) != 2 {
		t.Fatalf("Expected a cluster of 2 plus a singleton, got %d groups", len(groups))
	}
	if groups[0].Size() != 2 {
		t.Errorf("Expected first group of 2, got %d", groups[0].Size())
	}
	if groups[1].Size() != 1 || groups[1].Anchor().ID != "right" {
		t.Errorf("Expected 'right' singleton, got %+v", groups[1])
	}
}

func TestBuild_Partition(t *testing.T) {
	arrangements := [][]domain.PinWithStatus{
		nil,
		{pin("solo", 0.1, 0.1, domain.StatusOpen)},
		{
			pin("a", 0.10, 0.10, domain.StatusOpen),
			pin("b", 0.11, 0.10, domain.StatusClosed),
			pin("c", 0.50, 0.50, domain.StatusResolved),
			pin("d", 0.51, 0.51, domain.StatusInProgress),
			pin("e", 0.90, 0.20, domain.StatusOpen),
		},
	}

	for zi, zoom := range []float64{0.5, 1.0, 1.5, 3.0} {
		for ai, pins := range arrangements {
			t.Run(fmt.Sprintf("zoom=%v/arrangement=%d", zoom, ai), func(t *testing.T) {
				groups := cluster.Build(pins, mapperAt(zoom), cluster.DefaultOptions())

				if len(groups) > len(pins) {
					t.Errorf("Group count %d exceeds pin count %d", len(groups), len(pins))
				}

				seen := make(map[string]int)
				for _, g := range groups {
					for _, m := range g.Members {
						seen[m.ID]++
					}
				}
				if len(seen) != len(pins) {
					t.Errorf("Partition lost pins: saw %d of %d", len(seen), len(pins))
				}
				for id, n := range seen {
					if n != 1 {
						t.Errorf("Pin %q appears %d times", id, n)
					}
				}
				_ = zi
			})
		}
	}
}

func TestBuild_ImageNotReady(t *testing.T) {
	pins := []domain.PinWithStatus{pin("a", 0.5, 0.5, domain.StatusOpen)}
	m := geo.New(domain.Viewport{Zoom: 1.0})

	if groups := cluster.Build(pins, m, cluster.DefaultOptions()); groups != nil {
		t.Errorf("Expected no groups while image not ready, got %d", len(groups))
	}
}
