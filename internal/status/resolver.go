// Package status resolves the live entity status for a batch of pins.
//
// Each batch fans out one concurrent lookup per supported pin and settles only
// once every lookup has finished. There is no partial emission: the caller
// observes a complete, atomic status map. A failed or unsupported lookup
// simply leaves its pin out of the map; the pipeline degrades to fewer
// markers, never to a surfaced error.
package status

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/galhadida80/planpin/internal/metrics"
	"github.com/galhadida80/planpin/pkg/domain"
	"github.com/galhadida80/planpin/pkg/ports"
)

// Provider resolves the status of entities of one type.
type Provider func(ctx context.Context, entityID string) (domain.Status, error)

// Resolver fans out status lookups for pin batches.
type Resolver struct {
	providers map[domain.EntityType]Provider
	cache     ports.StatusCache
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithCache installs a read-through cache in front of the source. Cache
// errors are treated as misses.
func WithCache(cache ports.StatusCache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithMetrics installs prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// WithProvider registers or replaces the provider for one entity type.
// Entity types without a provider resolve immediately to "no status".
func WithProvider(entityType domain.EntityType, p Provider) Option {
	return func(r *Resolver) {
		r.providers[entityType] = p
	}
}

// New creates a Resolver backed by the given source. The default provider
// table supports defects and safety issues, both delegating to the source;
// anything else is unsupported and resolves to no status without a lookup.
func New(source ports.StatusSource, opts ...Option) *Resolver {
	r := &Resolver{
		providers: make(map[domain.EntityType]Provider),
		logger:    slog.Default(),
	}
	for _, et := range []domain.EntityType{domain.EntityDefect, domain.EntitySafetyIssue} {
		entityType := et
		r.providers[entityType] = func(ctx context.Context, entityID string) (domain.Status, error) {
			return source.GetStatus(ctx, entityType, entityID)
		}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve fetches the status of every supported pin concurrently and returns
// the complete map once all lookups have settled. The map is keyed by pin ID;
// pins that failed or are unsupported have no entry.
func (r *Resolver) Resolve(ctx context.Context, pins []domain.Pin) map[string]domain.Status {
	statuses := make(map[string]domain.Status, len(pins))
	if len(pins) == 0 {
		return statuses
	}

	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range pins {
		provider, ok := r.providers[p.EntityType]
		if !ok {
			// Unsupported types settle immediately to "no status".
			continue
		}

		wg.Add(1)
		go func(p domain.Pin, provider Provider) {
			defer wg.Done()

			st, err := r.lookup(ctx, p, provider)
			if err != nil {
				r.metrics.CountResolveFailure(string(p.EntityType))
				r.logger.Warn("status lookup failed, dropping pin for this pass",
					"pin", p.ID, "entity_type", p.EntityType, "entity_id", p.EntityID, "err", err)
				return
			}

			mu.Lock()
			statuses[p.ID] = st
			mu.Unlock()
		}(p, provider)
	}

	wg.Wait()
	return statuses
}

func (r *Resolver) lookup(ctx context.Context, p domain.Pin, provider Provider) (domain.Status, error) {
	if r.cache != nil {
		st, err := r.cache.Get(ctx, p.EntityType, p.EntityID)
		if err == nil {
			return st, nil
		}
		if !errors.Is(err, ports.ErrCacheMiss) {
			r.logger.Debug("status cache read failed", "entity_id", p.EntityID, "err", err)
		}
	}

	start := time.Now()
	st, err := provider(ctx, p.EntityID)
	r.metrics.ObserveResolve(string(p.EntityType), time.Since(start).Seconds())
	if err != nil {
		return "", err
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, p.EntityType, p.EntityID, st); err != nil {
			r.logger.Debug("status cache write failed", "entity_id", p.EntityID, "err", err)
		}
	}
	return st, nil
}
