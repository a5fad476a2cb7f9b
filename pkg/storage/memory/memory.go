// Package memory provides an in-memory implementation of
// transport.ActivityStore for tests and single-process deployments.
// Activities are lost when the process restarts.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/storage"
	"github.com/reactivities/reactivities/pkg/transport"
)

// key scopes an activity ID to the tenant that owns it.
type key struct {
	tenantID string
	id       string
}

// Store is an in-memory ActivityStore with an optional size cap.
type Store struct {
	mu      sync.RWMutex
	entries map[key]*api.Activity
	maxSize int // 0 = unlimited
}

// Ensure Store implements transport.ActivityStore at compile time.
var _ transport.ActivityStore = (*Store)(nil)

// New creates a new in-memory store. If maxSize is greater than zero,
// CreateActivity fails with storage.ErrConflict once the store holds that
// many activities.
func New(maxSize int) *Store {
	return &Store{
		entries: make(map[key]*api.Activity),
		maxSize: maxSize,
	}
}

// ListActivities returns the caller's tenant's activities ordered by date.
// The empty tenant is a tenant like any other.
func (s *Store) ListActivities(ctx context.Context) ([]api.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tenantID := storage.GetTenant(ctx)

	out := make([]api.Activity, 0, len(s.entries))
	for k, a := range s.entries {
		if k.tenantID != tenantID {
			continue
		}
		out = append(out, *a)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})

	return out, nil
}

// GetActivity returns a copy of the activity with the given ID.
func (s *Store) GetActivity(ctx context.Context, id string) (*api.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	cp := *a
	return &cp, nil
}

// CreateActivity stores a copy of a.
func (s *Store) CreateActivity(ctx context.Context, a *api.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{tenantID: storage.GetTenant(ctx), id: a.ID}
	if _, exists := s.entries[k]; exists {
		return storage.ErrConflict
	}
	if s.maxSize > 0 && len(s.entries) >= s.maxSize {
		return storage.ErrConflict
	}

	cp := *a
	s.entries[k] = &cp
	return nil
}

// UpdateActivity replaces the stored activity with a copy of a.
func (s *Store) UpdateActivity(ctx context.Context, a *api.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.lookup(ctx, a.ID)
	if err != nil {
		return err
	}
	*stored = *a
	return nil
}

// DeleteActivity removes the activity with the given ID.
func (s *Store) DeleteActivity(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.lookup(ctx, id); err != nil {
		return err
	}
	delete(s.entries, key{tenantID: storage.GetTenant(ctx), id: id})
	return nil
}

// HealthCheck always returns nil for the in-memory store.
func (s *Store) HealthCheck(_ context.Context) error {
	return nil
}

// Close is a no-op for the in-memory store.
func (s *Store) Close() error {
	return nil
}

// lookup finds the caller's tenant's activity with the given ID.
// Must be called with s.mu held.
func (s *Store) lookup(ctx context.Context, id string) (*api.Activity, error) {
	a, ok := s.entries[key{tenantID: storage.GetTenant(ctx), id: id}]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return a, nil
}
