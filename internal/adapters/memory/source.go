package memory

import (
	"context"
	"sync"

	"github.com/galhadida80/planpin/pkg/domain"
)

// Source is an in-memory ports.StatusSource for tests and demos.
type Source struct {
	mu       sync.RWMutex
	statuses map[string]domain.Status
	failures map[string]error
}

// NewSource creates an empty Source.
func NewSource() *Source {
	return &Source{
		statuses: make(map[string]domain.Status),
		failures: make(map[string]error),
	}
}

// SetStatus pre-populates the status for an entity.
func (s *Source) SetStatus(entityID string, status domain.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses[entityID] = status
}

// FailWith makes lookups for an entity return the given error.
func (s *Source) FailWith(entityID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[entityID] = err
}

// GetStatus resolves an entity's status from memory.
func (s *Source) GetStatus(ctx context.Context, entityType domain.EntityType, entityID string) (domain.Status, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err, ok := s.failures[entityID]; ok {
		return "", err
	}
	st, ok := s.statuses[entityID]
	if !ok {
		return "", domain.ErrPinNotFound
	}
	return st, nil
}
