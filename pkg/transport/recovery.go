package transport

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/reactivities/reactivities/pkg/api"
)

// Recovery returns middleware that converts handler panics into server
// errors. With withDetails set, the panic value and stack trace are attached
// as error details for the 500 body.
func Recovery(withDetails bool) Middleware {
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (result any, retErr error) {
			defer func() {
				if r := recover(); r != nil {
					apiErr := api.NewServerError(fmt.Sprintf("%v", r))
					if withDetails {
						apiErr.Details = string(debug.Stack())
					}
					result, retErr = nil, apiErr
				}
			}()
			return next.Handle(ctx, req)
		})
	}
}
