package agent

import (
	"bytes"

	"github.com/tidwall/gjson"

	"github.com/reactivities/reactivities/pkg/api"
)

// BodyKind tags the shape of an error response body.
type BodyKind int

const (
	// BodyEmpty: no body, whitespace or JSON null.
	BodyEmpty BodyKind = iota
	// BodyString: a JSON string or non-JSON text.
	BodyString
	// BodyFieldErrors: an object with an "errors" object mapping fields to
	// a message or list of messages.
	BodyFieldErrors
	// BodyObject: any other JSON value, such as 500 diagnostics.
	BodyObject
)

func (k BodyKind) String() string {
	switch k {
	case BodyEmpty:
		return "empty"
	case BodyString:
		return "string"
	case BodyFieldErrors:
		return "field_errors"
	case BodyObject:
		return "object"
	default:
		return "unknown"
	}
}

// ErrorBody is a failed response body, decoded once.
type ErrorBody struct {
	Kind BodyKind

	// Message is set for BodyString.
	Message string

	// Fields is set for BodyFieldErrors, in document order.
	Fields api.FieldErrors

	// Raw is the body as received.
	Raw []byte
}

// DecodeErrorBody classifies raw.
func DecodeErrorBody(raw []byte) ErrorBody {
	b := ErrorBody{Raw: raw}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return b
	}
	if !gjson.ValidBytes(trimmed) {
		b.Kind = BodyString
		b.Message = string(trimmed)
		return b
	}

	res := gjson.ParseBytes(trimmed)
	switch {
	case res.Type == gjson.Null:
		// BodyEmpty
	case res.Type == gjson.String:
		b.Kind = BodyString
		b.Message = res.String()
	case res.IsObject() && res.Get("errors").IsObject():
		b.Kind = BodyFieldErrors
		b.Fields = api.ParseFieldErrors(res.Get("errors"))
	default:
		b.Kind = BodyObject
	}
	return b
}

// ServerError reads a 500 diagnostic body. ok is false when the body is
// not a JSON object.
func (b ErrorBody) ServerError() (body api.ServerErrorBody, ok bool) {
	if b.Kind != BodyObject && b.Kind != BodyFieldErrors {
		return body, false
	}
	res := gjson.ParseBytes(b.Raw)
	if !res.IsObject() {
		return body, false
	}
	return api.ServerErrorBody{
		StatusCode: int(res.Get("statusCode").Int()),
		Message:    res.Get("message").String(),
		Details:    res.Get("details").String(),
	}, true
}
