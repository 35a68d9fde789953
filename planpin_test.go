package planpin_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/galhadida80/planpin"
	"github.com/galhadida80/planpin/internal/adapters/memory"
	"github.com/galhadida80/planpin/internal/logging"
	"github.com/galhadida80/planpin/pkg/domain"
)

func floorplanViewport(zoom float64) domain.Viewport {
	return domain.Viewport{
		Zoom:            zoom,
		SurfaceWidthPx:  1000,
		SurfaceHeightPx: 800,
		ImageWidthPx:    1000,
		ImageHeightPx:   800,
	}
}

func defect(id string, x, y float64) domain.Pin {
	return domain.Pin{ID: id, EntityType: domain.EntityDefect, EntityID: "e-" + id, NormalizedX: x, NormalizedY: y}
}

func waitForDiscs(t *testing.T, surface *memory.Surface, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(surface.Discs()) == want
	}, 2*time.Second, 5*time.Millisecond, "expected %d discs", want)
}

func TestOverlay_Pipeline(t *testing.T) {
	surface := memory.NewSurface(floorplanViewport(1.0))
	source := memory.NewSource()
	source.SetStatus("e-a", domain.StatusOpen)
	source.SetStatus("e-b", domain.StatusResolved)

	overlay, err := planpin.New(surface, source, planpin.WithLogger(logging.NewNop()))
	require.NoError(t, err)
	defer overlay.Close()

	ctx := context.Background()
	overlay.Start(ctx)

	// Two pins 5px apart on a 1000px image merge into one cluster at zoom 1.0.
	overlay.SetPins(ctx, []domain.Pin{
		defect("a", 0.50, 0.50),
		defect("b", 0.505, 0.50),
	})

	waitForDiscs(t, surface, 1)
	labels := surface.Labels()
	require.Len(t, labels, 1)
	require.Equal(t, "2", labels[0].Text)

	groups := overlay.Groups()
	require.Len(t, groups, 1)
	require.Equal(t, 2, groups[0].Size())
	require.Equal(t, domain.StatusOpen, groups[0].RepresentativeStatus)

	// Zooming past the threshold splits the cluster into singletons.
	surface.SetViewport(floorplanViewport(2.0))
	waitForDiscs(t, surface, 2)
	require.Empty(t, surface.Labels())
}

func TestOverlay_StatusFailuresDegrade(t *testing.T) {
	surface := memory.NewSurface(floorplanViewport(1.0))
	source := memory.NewSource()
	source.SetStatus("e-ok", domain.StatusOpen)
	source.FailWith("e-bad", errors.New("upstream 503"))

	overlay, err := planpin.New(surface, source, planpin.WithLogger(logging.NewNop()))
	require.NoError(t, err)
	defer overlay.Close()

	ctx := context.Background()
	overlay.SetPins(ctx, []domain.Pin{
		defect("ok", 0.2, 0.2),
		defect("bad", 0.8, 0.8),
	})

	waitForDiscs(t, surface, 1)
	groups := overlay.Groups()
	require.Len(t, groups, 1)
	require.Equal(t, "ok", groups[0].Anchor().ID)

	// Re-running with the same failing input yields the same absence.
	overlay.SetPins(ctx, []domain.Pin{
		defect("ok", 0.2, 0.2),
		defect("bad", 0.8, 0.8),
	})
	waitForDiscs(t, surface, 1)
	require.Len(t, overlay.Groups(), 1)
}

func TestOverlay_MarkerClick(t *testing.T) {
	surface := memory.NewSurface(floorplanViewport(1.0))
	source := memory.NewSource()
	source.SetStatus("e-a", domain.StatusOpen)
	source.SetStatus("e-b", domain.StatusClosed)

	var mu sync.Mutex
	var clicked []string

	overlay, err := planpin.New(surface, source,
		planpin.WithLogger(logging.NewNop()),
		planpin.WithOnPinClick(func(p domain.Pin) {
			mu.Lock()
			clicked = append(clicked, p.ID)
			mu.Unlock()
		}),
	)
	require.NoError(t, err)
	defer overlay.Close()

	ctx := context.Background()
	overlay.SetPins(ctx, []domain.Pin{
		defect("a", 0.50, 0.50),
		defect("b", 0.505, 0.50),
	})
	waitForDiscs(t, surface, 1)

	// Click the cluster marker at the centroid: pixel (502.5, 400).
	overlay.HandlePointerDown(domain.PointerEvent{X: 502, Y: 400})

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []string{"a"}, clicked, "cluster click selects the first member as representative")
}

func TestOverlay_BackgroundClick(t *testing.T) {
	surface := memory.NewSurface(domain.Viewport{
		Zoom:            1.0,
		SurfaceWidthPx:  400,
		SurfaceHeightPx: 400,
		ImageOriginX:    50,
		ImageOriginY:    50,
		ImageWidthPx:    200,
		ImageHeightPx:   200,
	})
	source := memory.NewSource()

	var mu sync.Mutex
	var created []domain.NormalizedPoint

	overlay, err := planpin.New(surface, source,
		planpin.WithLogger(logging.NewNop()),
		planpin.WithOnCreateRequest(func(p domain.NormalizedPoint) {
			mu.Lock()
			created = append(created, p)
			mu.Unlock()
		}),
	)
	require.NoError(t, err)
	defer overlay.Close()

	t.Run("Inside Image", func(t *testing.T) {
		overlay.HandlePointerDown(domain.PointerEvent{X: 150, Y: 150})
		mu.Lock()
		defer mu.Unlock()
		require.Len(t, created, 1)
		require.Equal(t, domain.NormalizedPoint{X: 0.5, Y: 0.5}, created[0])
	})

	t.Run("Outside Image", func(t *testing.T) {
		overlay.HandlePointerDown(domain.PointerEvent{X: 10, Y: 10})
		mu.Lock()
		defer mu.Unlock()
		require.Len(t, created, 1, "out-of-bounds click must be a no-op")
	})
}

// blockingSource lets the test hold a batch in flight until released.
type blockingSource struct {
	release chan struct{}
	status  domain.Status
}

func (b *blockingSource) GetStatus(ctx context.Context, entityType domain.EntityType, entityID string) (domain.Status, error) {
	<-b.release
	return b.status, nil
}

func TestOverlay_StaleBatchDiscarded(t *testing.T) {
	surface := memory.NewSurface(floorplanViewport(1.0))
	slow := &blockingSource{release: make(chan struct{}), status: domain.StatusClosed}

	overlay, err := planpin.New(surface, slow, planpin.WithLogger(logging.NewNop()))
	require.NoError(t, err)
	defer overlay.Close()

	ctx := context.Background()

	// Batch A goes in flight and blocks.
	overlay.SetPins(ctx, []domain.Pin{defect("old", 0.1, 0.1)})

	// Batch B supersedes it; release everything afterwards.
	overlay.SetPins(ctx, []domain.Pin{defect("new", 0.9, 0.9)})
	close(slow.release)

	waitForDiscs(t, surface, 1)
	require.Eventually(t, func() bool {
		groups := overlay.Groups()
		return len(groups) == 1 && groups[0].Anchor().ID == "new"
	}, 2*time.Second, 5*time.Millisecond, "stale batch must never resurrect superseded pins")

	// Give the stale goroutine a beat to (incorrectly) apply, then re-check.
	time.Sleep(50 * time.Millisecond)
	groups := overlay.Groups()
	require.Len(t, groups, 1)
	require.Equal(t, "new", groups[0].Anchor().ID)
}

func TestOverlay_ImageNotReadyDefersRendering(t *testing.T) {
	surface := memory.NewSurface(domain.Viewport{Zoom: 1.0, SurfaceWidthPx: 400, SurfaceHeightPx: 400})
	source := memory.NewSource()
	source.SetStatus("e-a", domain.StatusOpen)

	overlay, err := planpin.New(surface, source, planpin.WithLogger(logging.NewNop()))
	require.NoError(t, err)
	defer overlay.Close()

	ctx := context.Background()
	overlay.Start(ctx)
	overlay.SetPins(ctx, []domain.Pin{defect("a", 0.5, 0.5)})

	// No image yet: nothing may render.
	time.Sleep(50 * time.Millisecond)
	require.Zero(t, surface.ObjectCount())

	// Image loads; the deferred pass catches up via the viewport stream.
	surface.SetViewport(floorplanViewport(1.0))
	waitForDiscs(t, surface, 1)
}

func TestNew_Validation(t *testing.T) {
	_, err := planpin.New(nil, memory.NewSource())
	require.Error(t, err)

	_, err = planpin.New(memory.NewSurface(domain.Viewport{}), nil)
	require.Error(t, err)
}
