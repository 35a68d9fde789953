// Package loam adapts the Loam document repository into a PinRepository.
// Pins live as frontmatter documents (one file per pin) so a project's pin
// set can be versioned and edited next to its floorplans.
package loam

import (
	"context"
	"fmt"

	"github.com/aretw0/loam"

	"github.com/galhadida80/planpin/internal/dto"
	"github.com/galhadida80/planpin/pkg/domain"
)

// Repository reads pin documents from a Loam store.
type Repository struct {
	Repo *loam.TypedRepository[dto.PinDocument]
}

// New wraps a typed Loam repository.
func New(repo *loam.TypedRepository[dto.PinDocument]) *Repository {
	return &Repository{Repo: repo}
}

// Open initializes a read-only Loam store at path and returns a Repository
// over it.
func Open(path string) (*Repository, error) {
	repo, err := loam.Init(path, loam.WithStrict(true), loam.WithReadOnly(true))
	if err != nil {
		return nil, fmt.Errorf("failed to init loam at %s: %w", path, err)
	}
	return New(loam.NewTypedRepository[dto.PinDocument](repo)), nil
}

// ListPins returns all pins for the given floorplan. An empty floorplanID
// matches every document. Documents that fail validation abort the listing:
// a repository with a malformed pin is treated as corrupt rather than
// silently thinned out.
func (r *Repository) ListPins(ctx context.Context, floorplanID string) ([]domain.Pin, error) {
	pins, _, err := r.ListPinsWithStatuses(ctx, floorplanID)
	return pins, err
}

// ListPinsWithStatuses returns pins plus the seed statuses their documents
// declare, keyed by pin ID. Pins without a status field get no entry.
func (r *Repository) ListPinsWithStatuses(ctx context.Context, floorplanID string) ([]domain.Pin, map[string]domain.Status, error) {
	docs, err := r.Repo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	pins := make([]domain.Pin, 0, len(docs))
	statuses := make(map[string]domain.Status)

	for _, doc := range docs {
		data := doc.Data
		if data.ID == "" {
			// Use the filename ID when the frontmatter omits one.
			data.ID = doc.ID
		}
		if floorplanID != "" && data.Floorplan != floorplanID {
			continue
		}

		pin, err := data.ToDomain()
		if err != nil {
			return nil, nil, fmt.Errorf("document %s: %w", doc.ID, err)
		}

		if existing, ok := seen[pin.ID]; ok {
			return nil, nil, fmt.Errorf("collision detected: pin '%s' is defined in both '%s' and '%s'", pin.ID, existing, doc.ID)
		}
		seen[pin.ID] = doc.ID
		pins = append(pins, pin)

		if st, ok, err := data.StatusHint(); err != nil {
			return nil, nil, fmt.Errorf("document %s: %w", doc.ID, err)
		} else if ok {
			statuses[pin.ID] = st
		}
	}
	return pins, statuses, nil
}
