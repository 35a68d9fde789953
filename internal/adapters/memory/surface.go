// Package memory provides in-memory implementations of the engine's ports,
// used by tests and as seed data for demos.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/galhadida80/planpin/pkg/domain"
)

// Surface is an in-memory ports.Surface. It records drawn objects and lets
// tests drive the pointer and viewport event streams.
type Surface struct {
	mu       sync.Mutex
	viewport domain.Viewport
	discs    map[domain.ObjectID]domain.Disc
	labels   map[domain.ObjectID]domain.Label

	pointer   chan domain.PointerEvent
	viewports chan domain.Viewport

	flushes int
}

// NewSurface creates a Surface with the given initial viewport.
func NewSurface(viewport domain.Viewport) *Surface {
	return &Surface{
		viewport:  viewport,
		discs:     make(map[domain.ObjectID]domain.Disc),
		labels:    make(map[domain.ObjectID]domain.Label),
		pointer:   make(chan domain.PointerEvent, 16),
		viewports: make(chan domain.Viewport, 16),
	}
}

func (s *Surface) Viewport() domain.Viewport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewport
}

func (s *Surface) AddDisc(disc domain.Disc) (domain.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := domain.ObjectID(uuid.NewString())
	s.discs[id] = disc
	return id, nil
}

func (s *Surface) AddLabel(label domain.Label) (domain.ObjectID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := domain.ObjectID(uuid.NewString())
	s.labels[id] = label
	return id, nil
}

func (s *Surface) Remove(id domain.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.discs, id)
	delete(s.labels, id)
	return nil
}

func (s *Surface) Batch(fn func() error) error {
	err := fn()
	s.mu.Lock()
	s.flushes++
	s.mu.Unlock()
	return err
}

func (s *Surface) PointerDown() <-chan domain.PointerEvent {
	return s.pointer
}

func (s *Surface) ViewportChanges() <-chan domain.Viewport {
	return s.viewports
}

// SetViewport updates the viewport and emits a change event, simulating the
// host's zoom/pan stream.
func (s *Surface) SetViewport(v domain.Viewport) {
	s.mu.Lock()
	s.viewport = v
	s.mu.Unlock()
	s.viewports <- v
}

// Press emits a primary pointer-down at the given surface pixel.
func (s *Surface) Press(x, y float64) {
	s.pointer <- domain.PointerEvent{X: x, Y: y}
}

// Discs returns a copy of the drawn discs.
func (s *Surface) Discs() []domain.Disc {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Disc, 0, len(s.discs))
	for _, d := range s.discs {
		out = append(out, d)
	}
	return out
}

// Labels returns a copy of the drawn labels.
func (s *Surface) Labels() []domain.Label {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Label, 0, len(s.labels))
	for _, l := range s.labels {
		out = append(out, l)
	}
	return out
}

// ObjectCount returns the number of live drawn objects.
func (s *Surface) ObjectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.discs) + len(s.labels)
}

// Flushes returns how many batches have completed.
func (s *Surface) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}
