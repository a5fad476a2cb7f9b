package ui

import (
	"cmp"
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/reactivities/reactivities/pkg/agent"
	"github.com/reactivities/reactivities/pkg/api"
)

// ActivityClient is the part of agent.ActivityRequests the store uses.
type ActivityClient interface {
	List(ctx context.Context) ([]api.Activity, error)
	Details(ctx context.Context, id string) (*api.Activity, error)
	Create(ctx context.Context, activity api.Activity) error
	Update(ctx context.Context, activity api.Activity) error
	Delete(ctx context.Context, id string) error
}

var _ ActivityClient = (*agent.ActivityRequests)(nil)

// DateGroup is the activities scheduled on one calendar day.
type DateGroup struct {
	Date       string // YYYY-MM-DD
	Activities []api.Activity
}

// ActivityStore caches activities by ID and tracks request state.
type ActivityStore struct {
	client ActivityClient

	mu             sync.RWMutex
	registry       map[string]api.Activity
	selected       *api.Activity
	loadingInitial bool
	submitting     bool
	target         string
	validation     agent.ValidationErrors
}

// NewActivityStore creates an empty store backed by client.
func NewActivityStore(client ActivityClient) *ActivityStore {
	return &ActivityStore{
		client:   client,
		registry: make(map[string]api.Activity),
	}
}

// LoadActivities replaces the registry with the server's activities.
func (s *ActivityStore) LoadActivities(ctx context.Context) error {
	s.setLoading(true)
	defer s.setLoading(false)

	list, err := s.client.List(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.registry)
	for _, a := range list {
		s.registry[a.ID] = a
	}
	return nil
}

// LoadActivity returns the activity with id, from the registry when cached
// and from the server otherwise. It becomes the selected activity.
func (s *ActivityStore) LoadActivity(ctx context.Context, id string) (api.Activity, error) {
	s.mu.Lock()
	if a, ok := s.registry[id]; ok {
		s.selected = &a
		s.mu.Unlock()
		return a, nil
	}
	s.mu.Unlock()

	s.setLoading(true)
	defer s.setLoading(false)

	a, err := s.client.Details(ctx, id)
	if err != nil {
		return api.Activity{}, err
	}
	if a == nil {
		return api.Activity{}, agent.ErrNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry[a.ID] = *a
	s.selected = a
	return *a, nil
}

// CreateActivity stores a new activity, assigning an ID when it has none,
// and returns the stored value.
func (s *ActivityStore) CreateActivity(ctx context.Context, a api.Activity) (api.Activity, error) {
	if a.ID == "" {
		a.ID = api.NewActivityID()
	}

	err := s.submit(ctx, a.ID, func(ctx context.Context) error {
		return s.client.Create(ctx, a)
	})
	if err != nil {
		return api.Activity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry[a.ID] = a
	s.selected = &a
	return a, nil
}

// UpdateActivity replaces an activity.
func (s *ActivityStore) UpdateActivity(ctx context.Context, a api.Activity) error {
	err := s.submit(ctx, a.ID, func(ctx context.Context) error {
		return s.client.Update(ctx, a)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.registry[a.ID] = a
	s.selected = &a
	return nil
}

// DeleteActivity removes an activity.
func (s *ActivityStore) DeleteActivity(ctx context.Context, id string) error {
	err := s.submit(ctx, id, func(ctx context.Context) error {
		return s.client.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.registry, id)
	if s.selected != nil && s.selected.ID == id {
		s.selected = nil
	}
	return nil
}

// submit runs a write with the submitting flag raised and records the
// validation errors it returns.
func (s *ActivityStore) submit(ctx context.Context, target string, fn func(context.Context) error) error {
	s.mu.Lock()
	s.submitting = true
	s.target = target
	s.validation = nil
	s.mu.Unlock()

	err := fn(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	s.target = ""
	var verrs agent.ValidationErrors
	if errors.As(err, &verrs) {
		s.validation = slices.Clone(verrs)
	}
	return err
}

func (s *ActivityStore) setLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadingInitial = v
}

// ActivitiesByDate returns the cached activities in ascending date order.
// Equal dates are ordered by ID.
func (s *ActivityStore) ActivitiesByDate() []api.Activity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := slices.Collect(maps.Values(s.registry))
	slices.SortFunc(out, func(a, b api.Activity) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

// GroupedActivities groups ActivitiesByDate by UTC calendar day.
func (s *ActivityStore) GroupedActivities() []DateGroup {
	var groups []DateGroup
	for _, a := range s.ActivitiesByDate() {
		day := a.Date.UTC().Format("2006-01-02")
		if n := len(groups); n > 0 && groups[n-1].Date == day {
			groups[n-1].Activities = append(groups[n-1].Activities, a)
			continue
		}
		groups = append(groups, DateGroup{Date: day, Activities: []api.Activity{a}})
	}
	return groups
}

// Selected returns the selected activity.
func (s *ActivityStore) Selected() (api.Activity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return api.Activity{}, false
	}
	return *s.selected, true
}

// LoadingInitial reports whether a load is running.
func (s *ActivityStore) LoadingInitial() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadingInitial
}

// Submitting reports whether a write is running, and its target ID.
func (s *ActivityStore) Submitting() (bool, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.submitting, s.target
}

// ValidationErrors returns the messages of the last rejected write.
func (s *ActivityStore) ValidationErrors() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone([]string(s.validation))
}
