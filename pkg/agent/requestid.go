package agent

import "context"

type requestIDKey struct{}

// WithRequestID returns a context that makes the next call use id as its
// request ID. The ID is sent in the X-Request-ID header and is the key
// for Agent.Cancel. An empty id is ignored.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID set with WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok
}
