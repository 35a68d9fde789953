// Package cluster partitions pins-with-status into singleton or multi-pin
// groups for one render pass.
//
// The builder runs a single greedy pass over the pins in input order: each
// unprocessed pin anchors a scan that collects every unprocessed pin strictly
// within the pixel radius of the anchor. The scan is one hop deep and not
// transitively closed, so a cluster's end-to-end span can exceed the radius as
// long as every member is within the radius of the anchor. That bridging is
// documented behavior and locked by tests; do not replace it with per-pair
// threshold logic.
package cluster

import (
	"github.com/galhadida80/planpin/internal/geo"
	"github.com/galhadida80/planpin/pkg/domain"
)

// Options control the clustering pass.
type Options struct {
	// RadiusPx is the pixel distance below which a pin joins the anchor's
	// group. The comparison is strict, and operates in pixel space at the
	// current viewport, so the effective world-space radius shrinks as the
	// user zooms in.
	RadiusPx float64

	// ZoomThreshold disables clustering entirely at Zoom >= ZoomThreshold:
	// every pin becomes a singleton, in input order.
	ZoomThreshold float64
}

// DefaultOptions returns the production clustering parameters.
func DefaultOptions() Options {
	return Options{
		RadiusPx:      50,
		ZoomThreshold: 1.5,
	}
}

// Build partitions pins into groups. The output is always an exact partition
// of the input: every pin appears in exactly one group, none duplicated or
// dropped, and the group count never exceeds the pin count.
//
// Pins whose position cannot be mapped to pixels (image not ready) produce an
// empty group list; the caller defers rendering for that pass.
func Build(pins []domain.PinWithStatus, mapper geo.Mapper, opts Options) []domain.Group {
	if len(pins) == 0 {
		return nil
	}
	if !mapper.Viewport().ImageReady() {
		return nil
	}

	if mapper.Viewport().Zoom >= opts.ZoomThreshold {
		groups := make([]domain.Group, len(pins))
		for i, p := range pins {
			groups[i] = singleton(p)
		}
		return groups
	}

	// Project once; positions are immutable within a pass.
	px := make([]float64, len(pins))
	py := make([]float64, len(pins))
	for i, p := range pins {
		x, y, err := mapper.ToPixel(domain.NormalizedPoint{X: p.NormalizedX, Y: p.NormalizedY})
		if err != nil {
			return nil
		}
		px[i], py[i] = x, y
	}

	groups := make([]domain.Group, 0, len(pins))
	processed := make([]bool, len(pins))
	radiusSq := opts.RadiusPx * opts.RadiusPx

	for i := range pins {
		if processed[i] {
			continue
		}

		// Anchor scan: collect every unprocessed pin strictly within the
		// radius of pin i, pin i included.
		var members []int
		for j := i; j < len(pins); j++ {
			if processed[j] {
				continue
			}
			dx := px[j] - px[i]
			dy := py[j] - py[i]
			if dx*dx+dy*dy < radiusSq {
				members = append(members, j)
			}
		}

		if len(members) == 1 {
			groups = append(groups, singleton(pins[i]))
			processed[i] = true
			continue
		}

		group := domain.Group{
			Members: make([]domain.PinWithStatus, 0, len(members)),
			// Representative status comes from the anchor that started the
			// scan, not a majority vote across members.
			RepresentativeStatus: pins[i].Status,
		}
		var sumX, sumY float64
		for _, j := range members {
			group.Members = append(group.Members, pins[j])
			sumX += pins[j].NormalizedX
			sumY += pins[j].NormalizedY
			processed[j] = true
		}
		group.CentroidX = sumX / float64(len(members))
		group.CentroidY = sumY / float64(len(members))
		groups = append(groups, group)
	}

	return groups
}

func singleton(p domain.PinWithStatus) domain.Group {
	return domain.Group{
		Members:              []domain.PinWithStatus{p},
		CentroidX:            p.NormalizedX,
		CentroidY:            p.NormalizedY,
		RepresentativeStatus: p.Status,
	}
}
