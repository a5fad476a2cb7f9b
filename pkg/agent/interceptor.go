package agent

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/reactivities/reactivities/pkg/debug"
	"github.com/reactivities/reactivities/pkg/observability"
)

// Request is one outgoing call.
type Request struct {
	ID     string
	Method string
	Path   string
	Body   []byte // nil: no body
}

// Response is a successful (2xx) reply.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// RoundTrip performs a call. Non-2xx replies are returned as
// *ResponseError, failures without a reply as *TransportError.
type RoundTrip func(ctx context.Context, req *Request) (*Response, error)

// Stage wraps a RoundTrip with cross-cutting behavior.
type Stage func(next RoundTrip) RoundTrip

// Chain composes stages. Chain(a, b, c) produces a(b(c(rt))).
func Chain(stages ...Stage) Stage {
	return func(next RoundTrip) RoundTrip {
		for i := len(stages) - 1; i >= 0; i-- {
			next = stages[i](next)
		}
		return next
	}
}

// Latency delays successful responses by d. A cancelled context ends the
// wait early with a *TransportError.
func Latency(d time.Duration) Stage {
	return func(next RoundTrip) RoundTrip {
		if d <= 0 {
			return next
		}
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next(ctx, req)
			if err != nil {
				return nil, err
			}

			t := time.NewTimer(d)
			defer t.Stop()
			select {
			case <-t.C:
				return resp, nil
			case <-ctx.Done():
				return nil, &TransportError{Method: req.Method, Path: req.Path, Err: ctx.Err()}
			}
		}
	}
}

// ErrorRouting dispatches failed responses by status code, invoking hooks.
// It returns ValidationErrors for a 400 with field errors and the original
// error otherwise.
//
// A 400 on a GET whose field errors name "id" is treated as a missing
// resource: the navigator is sent to RouteNotFound and the original
// *ResponseError is returned, not ValidationErrors. A details view has no
// form to show field messages on, so callers only need to know the read
// failed.
func ErrorRouting(hooks Hooks, silentEmptyBadRequest bool) Stage {
	return func(next RoundTrip) RoundTrip {
		return func(ctx context.Context, req *Request) (*Response, error) {
			resp, err := next(ctx, req)
			if err == nil {
				return resp, nil
			}

			var re *ResponseError
			if !errors.As(err, &re) {
				return nil, err
			}

			switch re.StatusCode {
			case http.StatusBadRequest:
				return nil, routeBadRequest(hooks, req, re, silentEmptyBadRequest)
			case http.StatusUnauthorized:
				hooks.notify(MsgUnauthorised)
			case http.StatusNotFound:
				hooks.navigate(RouteNotFound)
			case http.StatusInternalServerError:
				hooks.serverError(re.Body)
				hooks.navigate(RouteServerError)
			}
			return nil, err
		}
	}
}

func routeBadRequest(hooks Hooks, req *Request, re *ResponseError, silent bool) error {
	switch re.Body.Kind {
	case BodyString:
		hooks.notify(re.Body.Message)
		return re
	case BodyFieldErrors:
		// A malformed id on a read means the resource cannot exist.
		if req.Method == http.MethodGet && re.Body.Fields.Has("id") {
			hooks.navigate(RouteNotFound)
			return re
		}
		return append(ValidationErrors{}, re.Body.Fields.Messages()...)
	default:
		if !silent {
			hooks.notify(MsgBadRequest)
		}
		return re
	}
}

// Metrics records call counts and latency per method. The outcome label
// is the status code, or "error" when no response arrived.
func Metrics() Stage {
	return func(next RoundTrip) RoundTrip {
		return func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			outcome := "error"
			var re *ResponseError
			switch {
			case err == nil:
				outcome = strconv.Itoa(resp.StatusCode)
			case errors.As(err, &re):
				outcome = strconv.Itoa(re.StatusCode)
			}

			observability.AgentRequestsTotal.WithLabelValues(req.Method, outcome).Inc()
			observability.AgentLatency.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

// Logging emits one debug entry per call under the "agent" category.
// Bodies are logged at TRACE.
func Logging() Stage {
	return func(next RoundTrip) RoundTrip {
		return func(ctx context.Context, req *Request) (*Response, error) {
			start := time.Now()
			trace := debug.TraceIsEnabled("agent")
			if trace && req.Body != nil {
				debug.Trace("agent", "request body", "request_id", req.ID, "bytes", len(req.Body))
				debug.Raw("agent", string(req.Body))
			}

			resp, err := next(ctx, req)

			args := []any{
				"request_id", req.ID,
				"method", req.Method,
				"path", req.Path,
				"duration", time.Since(start),
			}
			if err != nil {
				debug.Log("agent", "request failed", append(args, "kind", KindOf(err).String(), "error", err)...)
				return nil, err
			}

			debug.Log("agent", "request completed", append(args, "status", resp.StatusCode)...)
			if trace {
				debug.Trace("agent", "response body", "request_id", req.ID, "body", debug.Truncate(string(resp.Body), 4096))
				debug.Raw("agent", string(resp.Body))
			}
			return resp, nil
		}
	}
}
