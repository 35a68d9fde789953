package planpin

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/galhadida80/planpin/internal/cluster"
	"github.com/galhadida80/planpin/internal/geo"
	"github.com/galhadida80/planpin/internal/interact"
	"github.com/galhadida80/planpin/internal/metrics"
	"github.com/galhadida80/planpin/internal/render"
	"github.com/galhadida80/planpin/internal/status"
	"github.com/galhadida80/planpin/pkg/domain"
	"github.com/galhadida80/planpin/pkg/ports"
)

// Version of the planpin module.
var Version = "0.3.0"

// PinClickFunc receives the pin selected by a marker click. For cluster
// markers this is the first member; callers needing the full membership
// re-query via Groups.
type PinClickFunc func(pin domain.Pin)

// Overlay is the high-level entry point for the planpin library. It owns the
// resolve -> cluster -> render pipeline for one floorplan surface.
type Overlay struct {
	surface  ports.Surface
	resolver *status.Resolver
	renderer *render.Renderer
	router   *interact.Router

	clusterOpts cluster.Options
	logger      *slog.Logger
	metrics     *metrics.Metrics

	onPinClick PinClickFunc

	mu         sync.Mutex
	pins       []domain.Pin
	statuses   map[string]domain.Status
	groups     []domain.Group
	generation uint64

	loopOnce sync.Once
	started  bool
	done     chan struct{}
	loopDone chan struct{}
}

// Option defines a functional option for configuring the Overlay.
type Option func(*overlayConfig)

type overlayConfig struct {
	logger      *slog.Logger
	metrics     *metrics.Metrics
	cache       ports.StatusCache
	clusterOpts cluster.Options
	providers   map[domain.EntityType]status.Provider
	onPinClick  PinClickFunc
	onCreate    interact.CreateRequestFunc
}

// WithLogger sets a custom structured logger for the overlay.
func WithLogger(logger *slog.Logger) Option {
	return func(c *overlayConfig) {
		c.logger = logger
	}
}

// WithMetrics registers prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *overlayConfig) {
		c.metrics = m
	}
}

// WithStatusCache installs a read-through status cache (e.g., redis).
func WithStatusCache(cache ports.StatusCache) Option {
	return func(c *overlayConfig) {
		c.cache = cache
	}
}

// WithClusterOptions overrides the clustering radius and zoom threshold.
func WithClusterOptions(opts cluster.Options) Option {
	return func(c *overlayConfig) {
		c.clusterOpts = opts
	}
}

// WithStatusProvider registers a status provider for an extra entity type.
func WithStatusProvider(entityType domain.EntityType, p status.Provider) Option {
	return func(c *overlayConfig) {
		c.providers[entityType] = p
	}
}

// WithOnPinClick registers the pin-selection callback.
func WithOnPinClick(fn PinClickFunc) Option {
	return func(c *overlayConfig) {
		c.onPinClick = fn
	}
}

// WithOnCreateRequest registers the entity-creation handoff. It receives the
// normalized position of a background click inside the image; the workflow
// owns its own modal, and any new pin returns only via SetPins.
func WithOnCreateRequest(fn interact.CreateRequestFunc) Option {
	return func(c *overlayConfig) {
		c.onCreate = fn
	}
}

// New initializes an Overlay on the given surface and status source.
func New(surface ports.Surface, source ports.StatusSource, opts ...Option) (*Overlay, error) {
	if surface == nil {
		return nil, fmt.Errorf("surface is required")
	}
	if source == nil {
		return nil, fmt.Errorf("status source is required")
	}

	cfg := &overlayConfig{
		logger:      slog.Default(),
		clusterOpts: cluster.DefaultOptions(),
		providers:   make(map[domain.EntityType]status.Provider),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	resolverOpts := []status.Option{
		status.WithLogger(cfg.logger),
		status.WithMetrics(cfg.metrics),
	}
	if cfg.cache != nil {
		resolverOpts = append(resolverOpts, status.WithCache(cfg.cache))
	}
	for et, p := range cfg.providers {
		resolverOpts = append(resolverOpts, status.WithProvider(et, p))
	}

	o := &Overlay{
		surface:     surface,
		resolver:    status.New(source, resolverOpts...),
		renderer:    render.New(surface, cfg.logger, cfg.metrics),
		router:      interact.New(cfg.onCreate, cfg.logger),
		clusterOpts: cfg.clusterOpts,
		logger:      cfg.logger,
		metrics:     cfg.metrics,
		onPinClick:  cfg.onPinClick,
		statuses:    make(map[string]domain.Status),
		done:        make(chan struct{}),
		loopDone:    make(chan struct{}),
	}
	return o, nil
}

// Start begins consuming the surface's pointer and viewport event streams.
// It returns immediately; events are handled until Close or ctx cancellation.
func (o *Overlay) Start(ctx context.Context) {
	o.loopOnce.Do(func() {
		o.mu.Lock()
		o.started = true
		o.mu.Unlock()
		go o.loop(ctx)
	})
}

// Close stops the event loop. The surface itself is host-owned and untouched.
func (o *Overlay) Close() {
	select {
	case <-o.done:
	default:
		close(o.done)
	}
	o.mu.Lock()
	started := o.started
	o.mu.Unlock()
	if started {
		<-o.loopDone
	}
}

func (o *Overlay) loop(ctx context.Context) {
	defer close(o.loopDone)
	pointer := o.surface.PointerDown()
	viewports := o.surface.ViewportChanges()

	for {
		select {
		case <-ctx.Done():
			return
		case <-o.done:
			return
		case ev, ok := <-pointer:
			if !ok {
				pointer = nil
				continue
			}
			o.HandlePointerDown(ev)
		case _, ok := <-viewports:
			if !ok {
				viewports = nil
				continue
			}
			o.Rerender()
		}
	}
}

// SetPins replaces the pin list, exactly like a changed prop. The current
// markers clear (pending pins never render), then a fresh status batch fans
// out; its results apply only if no newer pin list superseded it.
func (o *Overlay) SetPins(ctx context.Context, pins []domain.Pin) {
	snapshot := make([]domain.Pin, len(pins))
	copy(snapshot, pins)

	o.mu.Lock()
	o.pins = snapshot
	o.statuses = make(map[string]domain.Status)
	o.generation++
	gen := o.generation
	o.mu.Unlock()

	o.Rerender()

	go func() {
		resolved := o.resolver.Resolve(ctx, snapshot)

		o.mu.Lock()
		if gen != o.generation {
			// A newer pin list superseded this batch while it was in flight.
			o.mu.Unlock()
			o.logger.Debug("discarding stale status batch", "generation", gen)
			return
		}
		o.statuses = resolved
		o.mu.Unlock()

		o.Rerender()
	}()
}

// Refresh re-resolves the current pin list without changing it, e.g., after
// an entity's status is known to have moved.
func (o *Overlay) Refresh(ctx context.Context) {
	o.mu.Lock()
	pins := o.pins
	o.mu.Unlock()
	o.SetPins(ctx, pins)
}

// Rerender recomputes groups and redraws markers from the current inputs.
// It is idempotent: identical inputs always produce an identical marker set.
// While the image is not ready the pass is deferred and markers are left
// untouched.
func (o *Overlay) Rerender() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rerenderLocked()
}

func (o *Overlay) rerenderLocked() {
	viewport := o.surface.Viewport()
	if !viewport.ImageReady() {
		o.logger.Debug("render deferred, image not ready")
		return
	}

	mapper := geo.New(viewport)
	joined := domain.JoinStatuses(o.pins, o.statuses)
	o.groups = cluster.Build(joined, mapper, o.clusterOpts)

	if err := o.renderer.Render(o.groups, mapper); err != nil {
		// Markers are cheap to reconstruct; the next pass reclaims any
		// partial set. Never propagated to the host.
		o.logger.Warn("marker pass incomplete", "err", err)
	}
}

// HandlePointerDown dispatches a primary pointer-down: a marker hit selects
// its representative pin, anything else routes to the creation workflow (or
// is ignored outside the image). Callbacks run synchronously.
func (o *Overlay) HandlePointerDown(ev domain.PointerEvent) {
	o.mu.Lock()
	marker, hit := o.renderer.HitTest(ev.X, ev.Y)
	viewport := o.surface.Viewport()
	onClick := o.onPinClick
	o.mu.Unlock()

	if hit {
		if onClick != nil {
			onClick(marker.Group.Anchor().Pin)
		}
		return
	}

	o.router.Route(ev, geo.New(viewport))
}

// Pins returns a copy of the current pin list.
func (o *Overlay) Pins() []domain.Pin {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.Pin, len(o.pins))
	copy(out, o.pins)
	return out
}

// Statuses returns a copy of the latest settled status map.
func (o *Overlay) Statuses() map[string]domain.Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]domain.Status, len(o.statuses))
	for k, v := range o.statuses {
		out[k] = v
	}
	return out
}

// Groups returns the groups of the latest completed render pass. This is also
// how callers recover a cluster's full membership after a cluster click.
func (o *Overlay) Groups() []domain.Group {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]domain.Group, len(o.groups))
	copy(out, o.groups)
	return out
}

// Viewport returns the surface's current viewport snapshot.
func (o *Overlay) Viewport() domain.Viewport {
	return o.surface.Viewport()
}
