package api

import "fmt"

// ValidateActivity checks that every required field of an activity is
// present. It returns nil when the activity is valid.
func ValidateActivity(a *Activity) *APIError {
	var fields FieldErrors

	if a.Title == "" {
		fields.Add("title", notEmpty("Title"))
	}
	if a.Date.IsZero() {
		fields.Add("date", notEmpty("Date"))
	}
	if a.Description == "" {
		fields.Add("description", notEmpty("Description"))
	}
	if a.Category == "" {
		fields.Add("category", notEmpty("Category"))
	}
	if a.City == "" {
		fields.Add("city", notEmpty("City"))
	}
	if a.Venue == "" {
		fields.Add("venue", notEmpty("Venue"))
	}
	if a.ID != "" && !ValidateActivityID(a.ID) {
		fields.Add("id", InvalidValue(a.ID))
	}

	if len(fields) == 0 {
		return nil
	}
	return NewValidationError(fields)
}

// InvalidValue is the message reported for a value that cannot be bound,
// such as a malformed identifier in a route.
func InvalidValue(v string) string {
	return fmt.Sprintf("The value '%s' is not valid.", v)
}

func notEmpty(name string) string {
	return fmt.Sprintf("'%s' must not be empty.", name)
}
