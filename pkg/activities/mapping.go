package activities

import "github.com/reactivities/reactivities/pkg/api"

// applyEdit copies the editable fields of src onto dst. The identifier is
// never changed.
func applyEdit(dst *api.Activity, src api.Activity) {
	dst.Title = src.Title
	dst.Date = src.Date
	dst.Description = src.Description
	dst.Category = src.Category
	dst.City = src.City
	dst.Venue = src.Venue
}
