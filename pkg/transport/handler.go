package transport

import (
	"context"

	"github.com/reactivities/reactivities/pkg/api"
)

// Request is a message dispatched through the Mediator. The kind selects the
// registered handler.
type Request interface {
	RequestKind() string
}

// Handler processes one kind of request and returns its result. A nil
// result with a nil error means "no content".
type Handler interface {
	Handle(ctx context.Context, req Request) (any, error)
}

// HandlerFunc is an adapter that allows using an ordinary function as a
// Handler.
type HandlerFunc func(ctx context.Context, req Request) (any, error)

// Handle calls f(ctx, req).
func (f HandlerFunc) Handle(ctx context.Context, req Request) (any, error) {
	return f(ctx, req)
}

// ActivityStore persists activities. Implementations scope every operation
// by the tenant carried in the context (see storage.GetTenant).
type ActivityStore interface {
	// ListActivities returns all activities ordered by date, oldest first.
	ListActivities(ctx context.Context) ([]api.Activity, error)

	// GetActivity returns storage.ErrNotFound when the activity does not exist.
	GetActivity(ctx context.Context, id string) (*api.Activity, error)

	// CreateActivity returns storage.ErrConflict when the ID is taken.
	CreateActivity(ctx context.Context, a *api.Activity) error

	// UpdateActivity replaces all fields of an existing activity.
	UpdateActivity(ctx context.Context, a *api.Activity) error

	// DeleteActivity removes an activity permanently.
	DeleteActivity(ctx context.Context, id string) error

	// HealthCheck verifies the store connection is functional.
	HealthCheck(ctx context.Context) error

	// Close releases database connections and resources.
	Close() error
}
