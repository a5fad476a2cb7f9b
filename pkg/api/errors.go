package api

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// ErrorType represents the category of an API error.
type ErrorType string

const (
	ErrorTypeInvalidRequest  ErrorType = "invalid_request"
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeUnauthorized    ErrorType = "unauthorized"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeServerError     ErrorType = "server_error"
	ErrorTypeTooManyRequests ErrorType = "too_many_requests"
)

// APIError represents a structured API error. Validation errors carry their
// per-field messages in Fields; every other type carries a single Message.
// Details is only set on server errors.
type APIError struct {
	Type    ErrorType
	Message string
	Fields  FieldErrors
	Details string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if len(e.Fields) > 0 {
		return fmt.Sprintf("%s: %s", e.Type, strings.Join(e.Fields.Messages(), "; "))
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewInvalidRequestError creates an APIError whose body is a plain message.
func NewInvalidRequestError(message string) *APIError {
	return &APIError{Type: ErrorTypeInvalidRequest, Message: message}
}

// NewValidationError creates an APIError carrying per-field messages.
func NewValidationError(fields FieldErrors) *APIError {
	return &APIError{
		Type:    ErrorTypeValidation,
		Message: "One or more validation errors occurred.",
		Fields:  fields,
	}
}

// NewUnauthorizedError creates an APIError for missing or invalid credentials.
func NewUnauthorizedError(message string) *APIError {
	return &APIError{Type: ErrorTypeUnauthorized, Message: message}
}

// NewNotFoundError creates an APIError for resources that cannot be found.
func NewNotFoundError(message string) *APIError {
	return &APIError{Type: ErrorTypeNotFound, Message: message}
}

// NewServerError creates an APIError for internal server errors.
func NewServerError(message string) *APIError {
	return &APIError{Type: ErrorTypeServerError, Message: message}
}

// NewTooManyRequestsError creates an APIError for rate limiting.
func NewTooManyRequestsError(message string) *APIError {
	return &APIError{Type: ErrorTypeTooManyRequests, Message: message}
}

// FieldError holds the messages reported for one field.
type FieldError struct {
	Field    string
	Messages []string
}

// FieldErrors is an ordered field -> messages map. It encodes to and decodes
// from a JSON object whose values are either a string or a list of strings,
// preserving key order.
type FieldErrors []FieldError

// Add appends msg to field, creating the entry on first use.
func (f *FieldErrors) Add(field, msg string) {
	for i := range *f {
		if (*f)[i].Field == field {
			(*f)[i].Messages = append((*f)[i].Messages, msg)
			return
		}
	}
	*f = append(*f, FieldError{Field: field, Messages: []string{msg}})
}

// Has reports whether field has at least one entry.
func (f FieldErrors) Has(field string) bool {
	for _, fe := range f {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Messages flattens all messages in key order.
func (f FieldErrors) Messages() []string {
	var out []string
	for _, fe := range f {
		out = append(out, fe.Messages...)
	}
	return out
}

// MarshalJSON writes the fields in insertion order.
func (f FieldErrors) MarshalJSON() ([]byte, error) {
	out := []byte("{}")
	var err error
	for _, fe := range f {
		msgs := fe.Messages
		if msgs == nil {
			msgs = []string{}
		}
		out, err = sjson.SetBytes(out, escapePathKey(fe.Field), msgs)
		if err != nil {
			return nil, fmt.Errorf("encoding field %q: %w", fe.Field, err)
		}
	}
	return out, nil
}

// UnmarshalJSON reads a JSON object in document order. Values may be a
// single string or a list of strings; empty values are skipped.
func (f *FieldErrors) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("field errors: invalid JSON")
	}
	res := gjson.ParseBytes(data)
	if res.Type == gjson.Null {
		*f = nil
		return nil
	}
	if !res.IsObject() {
		return fmt.Errorf("field errors: expected object, got %s", res.Type)
	}
	*f = ParseFieldErrors(res)
	return nil
}

// ParseFieldErrors converts a parsed JSON object into FieldErrors.
func ParseFieldErrors(obj gjson.Result) FieldErrors {
	var out FieldErrors
	obj.ForEach(func(key, value gjson.Result) bool {
		var msgs []string
		if value.IsArray() {
			for _, v := range value.Array() {
				if s := v.String(); s != "" {
					msgs = append(msgs, s)
				}
			}
		} else if s := value.String(); s != "" {
			msgs = []string{s}
		}
		if len(msgs) > 0 {
			out = append(out, FieldError{Field: key.String(), Messages: msgs})
		}
		return true
	})
	return out
}

// escapePathKey escapes sjson path metacharacters so a field name is always
// treated as a single key.
func escapePathKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
