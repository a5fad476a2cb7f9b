package transport

import (
	"encoding/json"
	"net/http"

	"github.com/reactivities/reactivities/pkg/api"
)

// validationProblem is the 400 body for field validation failures.
type validationProblem struct {
	Type   string          `json:"type"`
	Title  string          `json:"title"`
	Status int             `json:"status"`
	Errors api.FieldErrors `json:"errors"`
}

// HTTPStatusFromError maps an APIError type to the corresponding HTTP status
// code.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Type {
	case api.ErrorTypeInvalidRequest, api.ErrorTypeValidation:
		return http.StatusBadRequest
	case api.ErrorTypeUnauthorized:
		return http.StatusUnauthorized
	case api.ErrorTypeNotFound:
		return http.StatusNotFound
	case api.ErrorTypeTooManyRequests:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// WriteAPIError writes apiErr with the status derived from its type and the
// body shape that status carries.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	status := HTTPStatusFromError(apiErr)

	switch {
	case apiErr.Type == api.ErrorTypeValidation:
		writeJSON(w, status, validationProblem{
			Type:   "https://tools.ietf.org/html/rfc7231#section-6.5.1",
			Title:  apiErr.Message,
			Status: status,
			Errors: apiErr.Fields,
		})
	case status == http.StatusUnauthorized || status == http.StatusNotFound:
		w.WriteHeader(status)
	case status == http.StatusInternalServerError:
		writeJSON(w, status, api.ServerErrorBody{
			StatusCode: status,
			Message:    apiErr.Message,
			Details:    apiErr.Details,
		})
	default:
		writeJSON(w, status, apiErr.Message)
	}
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	writeJSON(w, status, v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
