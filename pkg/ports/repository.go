package ports

import (
	"context"

	"github.com/galhadida80/planpin/pkg/domain"
)

// PinRepository loads the pin list for a floorplan. The engine itself never
// reads storage: new pins reach it only through SetPins, exactly like a
// changed prop. Repositories exist for hosts (CLI, server) that need to feed
// that input from somewhere durable.
type PinRepository interface {
	// ListPins returns all pins for the given floorplan.
	ListPins(ctx context.Context, floorplanID string) ([]domain.Pin, error)
}
