package ports

import (
	"context"

	"github.com/galhadida80/planpin/pkg/domain"
)

// StatusSource resolves the live status of one backing entity. Lookups may
// fail; the resolver treats any failure as "no status" and never propagates it
// to the host application.
type StatusSource interface {
	GetStatus(ctx context.Context, entityType domain.EntityType, entityID string) (domain.Status, error)
}

// StatusSourceFunc adapts a plain function to the StatusSource interface.
type StatusSourceFunc func(ctx context.Context, entityType domain.EntityType, entityID string) (domain.Status, error)

func (f StatusSourceFunc) GetStatus(ctx context.Context, entityType domain.EntityType, entityID string) (domain.Status, error) {
	return f(ctx, entityType, entityID)
}
