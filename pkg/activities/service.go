package activities

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/debug"
	"github.com/reactivities/reactivities/pkg/storage"
	"github.com/reactivities/reactivities/pkg/transport"
)

// Failure messages returned as 400 string bodies when the store rejects a
// write.
const (
	msgCreateFailed = "Failed to create activity"
	msgUpdateFailed = "Failed to update the activity"
	msgDeleteFailed = "Failed to delete the activity"
)

// Service handles activity requests against an ActivityStore.
type Service struct {
	store transport.ActivityStore
}

// New creates a Service. The store must not be nil.
func New(store transport.ActivityStore) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("activities: store must not be nil")
	}
	return &Service{store: store}, nil
}

// Register binds every activity request kind to m.
func (s *Service) Register(m *transport.Mediator) {
	m.Register(KindList, transport.HandlerFunc(s.handleList))
	m.Register(KindDetails, transport.HandlerFunc(s.handleDetails))
	m.Register(KindCreate, transport.HandlerFunc(s.handleCreate))
	m.Register(KindEdit, transport.HandlerFunc(s.handleEdit))
	m.Register(KindDelete, transport.HandlerFunc(s.handleDelete))
}

func (s *Service) handleList(ctx context.Context, _ transport.Request) (any, error) {
	list, err := s.store.ListActivities(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}
	return list, nil
}

func (s *Service) handleDetails(ctx context.Context, req transport.Request) (any, error) {
	r, ok := req.(Details)
	if !ok {
		return nil, unexpected(req)
	}
	if apiErr := checkID(r.ID); apiErr != nil {
		return nil, apiErr
	}

	a, err := s.store.GetActivity(ctx, r.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, api.NewNotFoundError("activity " + r.ID + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading activity %s: %w", r.ID, err)
	}
	return a, nil
}

func (s *Service) handleCreate(ctx context.Context, req transport.Request) (any, error) {
	r, ok := req.(Create)
	if !ok {
		return nil, unexpected(req)
	}

	a := r.Activity
	if apiErr := api.ValidateActivity(&a); apiErr != nil {
		return nil, apiErr
	}
	if a.ID == "" {
		a.ID = api.NewActivityID()
	}

	if err := s.store.CreateActivity(ctx, &a); err != nil {
		debug.Log("activities", "create failed", "id", a.ID, "error", err)
		return nil, api.NewInvalidRequestError(msgCreateFailed)
	}
	return nil, nil
}

func (s *Service) handleEdit(ctx context.Context, req transport.Request) (any, error) {
	r, ok := req.(Edit)
	if !ok {
		return nil, unexpected(req)
	}
	if apiErr := checkID(r.Activity.ID); apiErr != nil {
		return nil, apiErr
	}
	if apiErr := api.ValidateActivity(&r.Activity); apiErr != nil {
		return nil, apiErr
	}

	stored, err := s.store.GetActivity(ctx, r.Activity.ID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, api.NewNotFoundError("activity " + r.Activity.ID + " not found")
	}
	if err != nil {
		return nil, fmt.Errorf("loading activity %s: %w", r.Activity.ID, err)
	}

	applyEdit(stored, r.Activity)

	if err := s.store.UpdateActivity(ctx, stored); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, api.NewNotFoundError("activity " + r.Activity.ID + " not found")
		}
		debug.Log("activities", "update failed", "id", stored.ID, "error", err)
		return nil, api.NewInvalidRequestError(msgUpdateFailed)
	}
	return nil, nil
}

func (s *Service) handleDelete(ctx context.Context, req transport.Request) (any, error) {
	r, ok := req.(Delete)
	if !ok {
		return nil, unexpected(req)
	}
	if apiErr := checkID(r.ID); apiErr != nil {
		return nil, apiErr
	}

	if _, err := s.store.GetActivity(ctx, r.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, api.NewNotFoundError("activity " + r.ID + " not found")
		}
		return nil, fmt.Errorf("loading activity %s: %w", r.ID, err)
	}

	if err := s.store.DeleteActivity(ctx, r.ID); err != nil {
		slog.Warn("deleting activity failed", "id", r.ID, "error", err)
		return nil, api.NewInvalidRequestError(msgDeleteFailed)
	}
	return nil, nil
}

// checkID rejects identifiers that are not UUIDs with an "id" field error.
func checkID(id string) *api.APIError {
	if api.ValidateActivityID(id) {
		return nil
	}
	var fields api.FieldErrors
	fields.Add("id", api.InvalidValue(id))
	return api.NewValidationError(fields)
}

func unexpected(req transport.Request) error {
	return api.NewServerError(fmt.Sprintf("unexpected request type %T", req))
}
