package redis_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/galhadida80/planpin/internal/adapters/redis"
	"github.com/galhadida80/planpin/pkg/domain"
	"github.com/galhadida80/planpin/pkg/ports"
)

func newTestCache(t *testing.T, opts ...redis.Option) (*redis.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...), mr
}

func TestCache_RoundTrip(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if _, err := cache.Get(ctx, domain.EntityDefect, "d1"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Fatalf("Expected cache miss, got %v", err)
	}

	if err := cache.Set(ctx, domain.EntityDefect, "d1", domain.StatusInProgress); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	st, err := cache.Get(ctx, domain.EntityDefect, "d1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if st != domain.StatusInProgress {
		t.Errorf("Expected in_progress, got %q", st)
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	cache, mr := newTestCache(t, redis.WithTTL(10*time.Second))
	ctx := context.Background()

	if err := cache.Set(ctx, domain.EntityDefect, "d1", domain.StatusOpen); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	mr.FastForward(11 * time.Second)

	if _, err := cache.Get(ctx, domain.EntityDefect, "d1"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("Expected miss after TTL expiry, got %v", err)
	}
}

func TestCache_KeysAreTypeScoped(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	if err := cache.Set(ctx, domain.EntityDefect, "same-id", domain.StatusOpen); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	if _, err := cache.Get(ctx, domain.EntitySafetyIssue, "same-id"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("Entity types must not share cache entries, got %v", err)
	}
}

func TestCache_CorruptValueIsMiss(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	mr.Set("planpin:status:defect:d1", "not-a-status")

	if _, err := cache.Get(ctx, domain.EntityDefect, "d1"); !errors.Is(err, ports.ErrCacheMiss) {
		t.Errorf("Corrupt entry should read as a miss, got %v", err)
	}
}
