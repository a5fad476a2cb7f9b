package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"github.com/reactivities/reactivities/pkg/activities"
	"github.com/reactivities/reactivities/pkg/api"
	"github.com/reactivities/reactivities/pkg/debug"
	"github.com/reactivities/reactivities/pkg/observability"
	"github.com/reactivities/reactivities/pkg/transport"
)

// HeaderRequestID carries the request ID in both directions.
const HeaderRequestID = "X-Request-ID"

// Sender dispatches application requests. *transport.Mediator implements it.
type Sender interface {
	Send(ctx context.Context, req transport.Request) (any, error)
}

// HealthChecker reports whether the backing store is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Adapter serves the activities API over HTTP.
type Adapter struct {
	sender  Sender
	health  HealthChecker // nil: /healthz always succeeds
	mux     *http.ServeMux
	config  Config
	handler http.Handler
}

// Config holds configuration for the HTTP adapter.
type Config struct {
	// MaxBodySize bounds request bodies.
	MaxBodySize int64

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string

	// ExposeErrorDetails attaches the underlying error text to 500 bodies.
	// Enable only in development.
	ExposeErrorDetails bool

	// DisableMetrics skips the /metrics endpoint and request metrics.
	DisableMetrics bool
}

// DefaultConfig returns the default adapter configuration.
func DefaultConfig() Config {
	return Config{
		MaxBodySize: 1 << 20, // 1 MB
		CORSOrigins: []string{"http://localhost:3000"},
	}
}

// NewAdapter creates an HTTP adapter that dispatches through sender.
// Middlewares (such as authentication) wrap the API routes in the given
// order, inside CORS and request ID handling.
func NewAdapter(sender Sender, health HealthChecker, cfg Config, middlewares ...func(http.Handler) http.Handler) *Adapter {
	a := &Adapter{
		sender: sender,
		health: health,
		mux:    http.NewServeMux(),
		config: cfg,
	}

	a.mux.HandleFunc("GET /api/activities", a.handleList)
	a.mux.HandleFunc("POST /api/activities", a.handleCreate)
	a.mux.HandleFunc("GET /api/activities/{id}", a.handleDetails)
	a.mux.HandleFunc("PUT /api/activities/{id}", a.handleEdit)
	a.mux.HandleFunc("DELETE /api/activities/{id}", a.handleDelete)
	a.mux.HandleFunc("GET /healthz", a.handleHealth)
	if !cfg.DisableMetrics {
		a.mux.Handle("GET /metrics", promhttp.Handler())
	}

	// Metrics sit directly on the mux so the matched pattern is visible.
	var h http.Handler = a.mux
	if !cfg.DisableMetrics {
		h = observability.MetricsMiddleware(h)
	}
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	h = requestIDMiddleware(h)
	h = cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{HeaderRequestID},
		AllowCredentials: true,
	}).Handler(h)
	a.handler = h

	return a
}

// Handler returns the http.Handler for this adapter, including CORS and
// request ID propagation.
func (a *Adapter) Handler() http.Handler {
	return a.handler
}

// requestIDMiddleware takes X-Request-ID from the request or generates one,
// echoes it on the response and makes it available to the mediator chain.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, id)
		next.ServeHTTP(w, r.WithContext(transport.ContextWithRequestID(r.Context(), id)))
	})
}

// handleList handles GET /api/activities.
func (a *Adapter) handleList(w http.ResponseWriter, r *http.Request) {
	a.dispatch(w, r, activities.List{})
}

// handleDetails handles GET /api/activities/{id}.
func (a *Adapter) handleDetails(w http.ResponseWriter, r *http.Request) {
	a.dispatch(w, r, activities.Details{ID: r.PathValue("id")})
}

// handleCreate handles POST /api/activities.
func (a *Adapter) handleCreate(w http.ResponseWriter, r *http.Request) {
	var act api.Activity
	if !a.decodeBody(w, r, &act) {
		return
	}
	a.dispatch(w, r, activities.Create{Activity: act})
}

// handleEdit handles PUT /api/activities/{id}. The route ID wins over any
// ID in the body.
func (a *Adapter) handleEdit(w http.ResponseWriter, r *http.Request) {
	var act api.Activity
	if !a.decodeBody(w, r, &act) {
		return
	}
	act.ID = r.PathValue("id")
	a.dispatch(w, r, activities.Edit{Activity: act})
}

// handleDelete handles DELETE /api/activities/{id}.
func (a *Adapter) handleDelete(w http.ResponseWriter, r *http.Request) {
	a.dispatch(w, r, activities.Delete{ID: r.PathValue("id")})
}

func (a *Adapter) handleHealth(w http.ResponseWriter, r *http.Request) {
	if a.health != nil {
		if err := a.health.HealthCheck(r.Context()); err != nil {
			http.Error(w, "unhealthy: "+err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok\n"))
}

// dispatch sends req through the mediator and writes the result. A nil
// result is written as 200 with an empty body.
func (a *Adapter) dispatch(w http.ResponseWriter, r *http.Request, req transport.Request) {
	result, err := a.sender.Send(r.Context(), req)
	if err != nil {
		a.writeHandlerError(w, err)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	transport.WriteJSON(w, http.StatusOK, result)
}

// decodeBody decodes a JSON request body into v. On failure it writes the
// error response and returns false.
func (a *Adapter) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if ct := r.Header.Get("Content-Type"); ct != "" {
		if mt, _, err := mime.ParseMediaType(ct); err != nil || mt != "application/json" {
			transport.WriteJSON(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
			return false
		}
	}

	r.Body = http.MaxBytesReader(w, r.Body, a.config.MaxBodySize)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			transport.WriteJSON(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body too large (max %d bytes)", a.config.MaxBodySize))
			return false
		}
		debug.Log("transport", "invalid request body", "path", r.URL.Path, "error", err)
		transport.WriteAPIError(w, api.NewInvalidRequestError("invalid JSON: "+err.Error()))
		return false
	}
	return true
}

// writeHandlerError renders err. Errors that are not *api.APIError become
// 500s whose message hides the cause unless ExposeErrorDetails is set.
func (a *Adapter) writeHandlerError(w http.ResponseWriter, err error) {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		apiErr = api.NewServerError("internal server error")
		if a.config.ExposeErrorDetails {
			apiErr.Details = err.Error()
		}
	}
	transport.WriteAPIError(w, apiErr)
}
