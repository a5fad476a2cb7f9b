package agent

import (
	"context"
	"net/url"

	"github.com/reactivities/reactivities/pkg/api"
)

// ActivityRequests is the activities resource.
type ActivityRequests struct {
	c *Client
}

// List returns all activities.
func (a *ActivityRequests) List(ctx context.Context) ([]api.Activity, error) {
	return Get[[]api.Activity](ctx, a.c, "/activities")
}

// Details returns a single activity.
func (a *ActivityRequests) Details(ctx context.Context, id string) (*api.Activity, error) {
	return Get[*api.Activity](ctx, a.c, activityPath(id))
}

// Create stores a new activity. The caller assigns the ID.
func (a *ActivityRequests) Create(ctx context.Context, activity api.Activity) error {
	_, err := Post[struct{}](ctx, a.c, "/activities", activity)
	return err
}

// Update replaces the activity identified by activity.ID.
func (a *ActivityRequests) Update(ctx context.Context, activity api.Activity) error {
	_, err := Put[struct{}](ctx, a.c, activityPath(activity.ID), activity)
	return err
}

// Delete removes an activity.
func (a *ActivityRequests) Delete(ctx context.Context, id string) error {
	_, err := Del[struct{}](ctx, a.c, activityPath(id))
	return err
}

func activityPath(id string) string {
	return "/activities/" + url.PathEscape(id)
}
