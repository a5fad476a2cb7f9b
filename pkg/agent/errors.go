package agent

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorKind classifies a failed call.
type ErrorKind int

const (
	KindUnclassified ErrorKind = iota
	KindValidation
	KindAuth
	KindNotFound
	KindServer
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	case KindServer:
		return "server"
	default:
		return "unclassified"
	}
}

// Sentinels matched with errors.Is against ValidationErrors and
// *ResponseError.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrServer       = errors.New("server error")

	// ErrDuplicateRequestID is returned when a call is started with the
	// ID of a call that is still running.
	ErrDuplicateRequestID = errors.New("request id already in flight")
)

// ValidationErrors is returned for a 400 response carrying field errors:
// every message, flattened in document order. Callers display it as form
// validation output.
type ValidationErrors []string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(v, "; ")
}

// Is matches ErrBadRequest.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrBadRequest
}

// ResponseError is a non-2xx response, passed through unchanged by the
// error routing stage (apart from field errors).
type ResponseError struct {
	Method     string
	Path       string
	StatusCode int
	RequestID  string
	Body       ErrorBody
}

func (e *ResponseError) Error() string {
	msg := fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body.Kind == BodyString && e.Body.Message != "" {
		msg += ": " + e.Body.Message
	}
	return msg
}

// Kind classifies the response by status code.
func (e *ResponseError) Kind() ErrorKind {
	switch e.StatusCode {
	case http.StatusBadRequest:
		return KindValidation
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusInternalServerError:
		return KindServer
	default:
		return KindUnclassified
	}
}

// Is matches the sentinel for the error's kind.
func (e *ResponseError) Is(target error) bool {
	switch target {
	case ErrBadRequest:
		return e.Kind() == KindValidation
	case ErrUnauthorized:
		return e.Kind() == KindAuth
	case ErrNotFound:
		return e.Kind() == KindNotFound
	case ErrServer:
		return e.Kind() == KindServer
	}
	return false
}

// TransportError is a call that produced no usable response: network
// failure, cancellation, or an undecodable success body.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// KindOf classifies any error returned by the agent.
func KindOf(err error) ErrorKind {
	var v ValidationErrors
	if errors.As(err, &v) {
		return KindValidation
	}
	var re *ResponseError
	if errors.As(err, &re) {
		return re.Kind()
	}
	return KindUnclassified
}
