package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/galhadida80/planpin"
	loamAdapter "github.com/galhadida80/planpin/internal/adapters/loam"
	"github.com/galhadida80/planpin/internal/adapters/memory"
	redisAdapter "github.com/galhadida80/planpin/internal/adapters/redis"
	"github.com/galhadida80/planpin/internal/cluster"
	"github.com/galhadida80/planpin/internal/config"
	"github.com/galhadida80/planpin/internal/metrics"
	"github.com/galhadida80/planpin/internal/snapshot"
	"github.com/galhadida80/planpin/pkg/domain"
)

// defaultViewport is the headless host viewport: the floorplan image fills
// the surface at zoom 1. Graphical hosts replace this with real geometry
// through ViewportChanges.
func defaultViewport() domain.Viewport {
	return domain.Viewport{
		Zoom:            1.0,
		SurfaceWidthPx:  1600,
		SurfaceHeightPx: 1200,
		ImageOriginX:    0,
		ImageOriginY:    0,
		ImageWidthPx:    1600,
		ImageHeightPx:   1200,
	}
}

// loadInput reads pins from a snapshot file or a Loam pin directory and
// primes the in-memory status source with their seed statuses. Pins without
// a seed status start open.
func loadInput(ctx context.Context, src *memory.Source, snapshotPath, pinsDir, floorplanID string) ([]domain.Pin, error) {
	switch {
	case snapshotPath != "":
		snap, err := snapshot.Load(snapshotPath)
		if err != nil {
			return nil, err
		}
		if floorplanID != "" && snap.FloorplanID != floorplanID {
			return nil, fmt.Errorf("snapshot is for floorplan %q, not %q", snap.FloorplanID, floorplanID)
		}
		seedSource(src, snap.Pins, snap.Statuses)
		return snap.Pins, nil

	case pinsDir != "":
		repo, err := loamAdapter.Open(pinsDir)
		if err != nil {
			return nil, err
		}
		pins, hints, err := repo.ListPinsWithStatuses(ctx, floorplanID)
		if err != nil {
			return nil, err
		}
		seedSource(src, pins, hints)
		return pins, nil

	default:
		return nil, nil
	}
}

func seedSource(src *memory.Source, pins []domain.Pin, statuses map[string]domain.Status) {
	for _, p := range pins {
		st, ok := statuses[p.ID]
		if !ok {
			st = domain.StatusOpen
		}
		src.SetStatus(p.EntityID, st)
	}
}

// overlayOptions builds the common engine options from the host config.
func overlayOptions(cfg config.Config, logger *slog.Logger, m *metrics.Metrics) []planpin.Option {
	opts := []planpin.Option{
		planpin.WithLogger(logger),
		planpin.WithClusterOptions(cluster.Options{
			RadiusPx:      cfg.Cluster.RadiusPx,
			ZoomThreshold: cfg.Cluster.ZoomThreshold,
		}),
	}
	if m != nil {
		opts = append(opts, planpin.WithMetrics(m))
	}
	if cfg.Redis.Addr != "" {
		cache := redisAdapter.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redisAdapter.WithTTL(cfg.Redis.TTL.Std()))
		opts = append(opts, planpin.WithStatusCache(cache))
	}
	return opts
}
