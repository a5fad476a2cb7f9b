package transport

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/reactivities/reactivities/pkg/api"
)

// Logging returns middleware that emits one structured log entry per
// dispatched request. Client errors (validation, not found) are logged at
// INFO, everything else that fails at ERROR.
func Logging(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, req Request) (any, error) {
			start := time.Now()

			result, err := next.Handle(ctx, req)

			attrs := []slog.Attr{
				slog.String("request_id", RequestIDFromContext(ctx)),
				slog.String("request", req.RequestKind()),
				slog.Duration("duration", time.Since(start)),
			}

			switch {
			case err == nil:
				logger.LogAttrs(ctx, slog.LevelInfo, "request handled", attrs...)
			case isClientError(err):
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelInfo, "request rejected", attrs...)
			default:
				attrs = append(attrs, slog.String("error", err.Error()))
				logger.LogAttrs(ctx, slog.LevelError, "request failed", attrs...)
			}

			return result, err
		})
	}
}

func isClientError(err error) bool {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Type != api.ErrorTypeServerError
}
