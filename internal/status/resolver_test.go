package status_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/galhadida80/planpin/internal/logging"
	"github.com/galhadida80/planpin/internal/status"
	"github.com/galhadida80/planpin/pkg/domain"
	"github.com/galhadida80/planpin/pkg/ports"
)

type recordingSource struct {
	mu       sync.Mutex
	statuses map[string]domain.Status
	failures map[string]error
	calls    int
}

func (s *recordingSource) GetStatus(ctx context.Context, entityType domain.EntityType, entityID string) (domain.Status, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if err, ok := s.failures[entityID]; ok {
		return "", err
	}
	st, ok := s.statuses[entityID]
	if !ok {
		return "", domain.ErrPinNotFound
	}
	return st, nil
}

func defectPin(id, entityID string) domain.Pin {
	return domain.Pin{ID: id, EntityType: domain.EntityDefect, EntityID: entityID, NormalizedX: 0.5, NormalizedY: 0.5}
}

func TestResolver_Resolve(t *testing.T) {
	source := &recordingSource{
		statuses: map[string]domain.Status{
			"d1": domain.StatusOpen,
			"d2": domain.StatusResolved,
		},
		failures: map[string]error{
			"broken": errors.New("upstream 503"),
		},
	}
	resolver := status.New(source, status.WithLogger(logging.NewNop()))

	t.Run("Complete Batch", func(t *testing.T) {
		pins := []domain.Pin{defectPin("p1", "d1"), defectPin("p2", "d2")}
		got := resolver.Resolve(context.Background(), pins)

		if len(got) != 2 {
			t.Fatalf("Expected 2 resolved statuses, got %d", len(got))
		}
		if got["p1"] != domain.StatusOpen || got["p2"] != domain.StatusResolved {
			t.Errorf("Unexpected statuses: %v", got)
		}
	})

	t.Run("Failure Drops Pin", func(t *testing.T) {
		pins := []domain.Pin{defectPin("p1", "d1"), defectPin("pX", "broken")}
		got := resolver.Resolve(context.Background(), pins)

		if _, ok := got["pX"]; ok {
			t.Error("Failed lookup must not produce a status entry")
		}
		if got["p1"] != domain.StatusOpen {
			t.Errorf("Healthy pin lost: %v", got)
		}
	})

	t.Run("Persistent Failure Is Idempotent", func(t *testing.T) {
		pins := []domain.Pin{defectPin("pX", "broken")}
		first := resolver.Resolve(context.Background(), pins)
		second := resolver.Resolve(context.Background(), pins)

		if len(first) != 0 || len(second) != 0 {
			t.Errorf("Expected the same empty result on retry, got %v then %v", first, second)
		}
	})

	t.Run("Unsupported Type Skips Lookup", func(t *testing.T) {
		before := source.calls
		pins := []domain.Pin{{ID: "p9", EntityType: "milestone", EntityID: "m1"}}
		got := resolver.Resolve(context.Background(), pins)

		if len(got) != 0 {
			t.Errorf("Unsupported type must resolve to no status, got %v", got)
		}
		if source.calls != before {
			t.Error("Unsupported type must not hit the source")
		}
	})

	t.Run("Empty Batch", func(t *testing.T) {
		got := resolver.Resolve(context.Background(), nil)
		if len(got) != 0 {
			t.Errorf("Expected empty map, got %v", got)
		}
	})
}

func TestResolver_CustomProvider(t *testing.T) {
	source := &recordingSource{statuses: map[string]domain.Status{}}
	resolver := status.New(source,
		status.WithLogger(logging.NewNop()),
		status.WithProvider("milestone", func(ctx context.Context, entityID string) (domain.Status, error) {
			return domain.StatusClosed, nil
		}),
	)

	pins := []domain.Pin{{ID: "p1", EntityType: "milestone", EntityID: "m1"}}
	got := resolver.Resolve(context.Background(), pins)

	if got["p1"] != domain.StatusClosed {
		t.Errorf("Custom provider not used: %v", got)
	}
}

type mapCache struct {
	mu      sync.Mutex
	entries map[string]domain.Status
	sets    int
}

func (c *mapCache) Get(ctx context.Context, entityType domain.EntityType, entityID string) (domain.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.entries[entityID]
	if !ok {
		return "", ports.ErrCacheMiss
	}
	return st, nil
}

func (c *mapCache) Set(ctx context.Context, entityType domain.EntityType, entityID string, status domain.Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[entityID] = status
	c.sets++
	return nil
}

func TestResolver_CacheReadThrough(t *testing.T) {
	source := &recordingSource{statuses: map[string]domain.Status{"d1": domain.StatusOpen}}
	cache := &mapCache{entries: map[string]domain.Status{}}
	resolver := status.New(source, status.WithLogger(logging.NewNop()), status.WithCache(cache))

	pins := []domain.Pin{defectPin("p1", "d1")}

	// First pass misses the cache and fills it.
	got := resolver.Resolve(context.Background(), pins)
	if got["p1"] != domain.StatusOpen {
		t.Fatalf("Unexpected first resolve: %v", got)
	}
	if cache.sets != 1 {
		t.Errorf("Expected one cache fill, got %d", cache.sets)
	}

	// Second pass is served from the cache.
	callsBefore := source.calls
	got = resolver.Resolve(context.Background(), pins)
	if got["p1"] != domain.StatusOpen {
		t.Fatalf("Unexpected cached resolve: %v", got)
	}
	if source.calls != callsBefore {
		t.Error("Cached entry must not hit the source again")
	}
}
