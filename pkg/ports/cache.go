package ports

import (
	"context"
	"errors"

	"github.com/galhadida80/planpin/pkg/domain"
)

// ErrCacheMiss is returned by StatusCache.Get when no entry exists.
var ErrCacheMiss = errors.New("status cache miss")

// StatusCache is an optional read-through cache in front of a StatusSource.
// Cache failures are treated like misses; the cache is never authoritative.
type StatusCache interface {
	// Get returns the cached status for an entity, or ErrCacheMiss.
	Get(ctx context.Context, entityType domain.EntityType, entityID string) (domain.Status, error)

	// Set stores a resolved status. Expiry policy belongs to the implementation.
	Set(ctx context.Context, entityType domain.EntityType, entityID string, status domain.Status) error
}
