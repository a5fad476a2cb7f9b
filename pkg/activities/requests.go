package activities

import "github.com/reactivities/reactivities/pkg/api"

// Request kinds registered on the mediator.
const (
	KindList    = "activities.list"
	KindDetails = "activities.details"
	KindCreate  = "activities.create"
	KindEdit    = "activities.edit"
	KindDelete  = "activities.delete"
)

// List requests every activity, ordered by date.
type List struct{}

// Details requests one activity.
type Details struct {
	ID string
}

// Create adds a new activity. An empty ID is assigned by the handler.
type Create struct {
	Activity api.Activity
}

// Edit replaces the fields of an existing activity identified by
// Activity.ID.
type Edit struct {
	Activity api.Activity
}

// Delete removes an activity.
type Delete struct {
	ID string
}

func (List) RequestKind() string    { return KindList }
func (Details) RequestKind() string { return KindDetails }
func (Create) RequestKind() string  { return KindCreate }
func (Edit) RequestKind() string    { return KindEdit }
func (Delete) RequestKind() string  { return KindDelete }
