package ports

import "github.com/galhadida80/planpin/pkg/domain"

// Surface is the host rendering surface. The engine neither creates nor
// disposes it; it only draws overlay objects on it and consumes its event
// streams. All methods are called from the engine's event loop.
type Surface interface {
	// Viewport returns the current zoom and image placement snapshot.
	Viewport() domain.Viewport

	// AddDisc draws a filled circle and returns its object ID.
	AddDisc(disc domain.Disc) (domain.ObjectID, error)

	// AddLabel draws a centered text label and returns its object ID.
	AddLabel(label domain.Label) (domain.ObjectID, error)

	// Remove deletes a previously drawn object. Removing an unknown ID is a
	// no-op so teardown stays idempotent.
	Remove(id domain.ObjectID) error

	// Batch groups draw and remove calls into one flush to avoid flicker.
	// Surfaces without batching support may run fn directly.
	Batch(fn func() error) error

	// PointerDown emits primary pointer-down events in surface pixels.
	PointerDown() <-chan domain.PointerEvent

	// ViewportChanges emits a snapshot whenever zoom or image placement change.
	ViewportChanges() <-chan domain.Viewport
}
