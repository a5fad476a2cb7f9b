package api

import "time"

// Activity is a single scheduled activity.
type Activity struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	City        string    `json:"city"`
	Venue       string    `json:"venue"`
}

// UserDto is sent back to the client when a user successfully logs in.
type UserDto struct {
	DisplayName string `json:"displayName"`
	Token       string `json:"token"`
	Username    string `json:"username"`
	Image       string `json:"image,omitempty"`
}

// ServerErrorBody is the diagnostic payload of a 500 response.
// Details carries a stack or panic value and is only populated in
// development deployments.
type ServerErrorBody struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
}
