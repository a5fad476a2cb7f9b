package transport

import (
	"context"

	"github.com/google/uuid"
)

// RequestID returns middleware that makes sure every request carries an ID.
// An ID already in the context (propagated by the HTTP adapter from
// X-Request-ID) is kept; otherwise a new one is generated.
func RequestID() Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (any, error) {
			if RequestIDFromContext(ctx) == "" {
				ctx = ContextWithRequestID(ctx, uuid.NewString())
			}
			return next.Handle(ctx, req)
		})
	}
}
