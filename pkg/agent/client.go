package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
)

// HeaderRequestID carries the per-call request ID.
const HeaderRequestID = "X-Request-ID"

// Client issues calls through the interceptor pipeline.
type Client struct {
	cfg      Config
	doer     Doer
	pipeline RoundTrip
	inflight *InFlightRegistry
}

// NewClient validates cfg and builds a client whose calls pass through
// Logging, ErrorRouting, Metrics and Latency, in that order.
func NewClient(cfg Config, hooks Hooks) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:      cfg,
		doer:     cfg.HTTPClient,
		inflight: NewInFlightRegistry(),
	}
	if c.doer == nil {
		c.doer = &http.Client{Timeout: cfg.Timeout}
	}

	stages := []Stage{Logging(), ErrorRouting(hooks, cfg.SilentEmptyBadRequest)}
	if !cfg.DisableMetrics {
		stages = append(stages, Metrics())
	}
	stages = append(stages, Latency(cfg.Delay))
	c.pipeline = Chain(stages...)(c.roundTrip)

	return c, nil
}

// InFlight returns the registry of running calls.
func (c *Client) InFlight() *InFlightRegistry {
	return c.inflight
}

// Close aborts running calls and releases idle connections of the
// default HTTP client.
func (c *Client) Close() {
	c.inflight.CancelAll()
	if ic, ok := c.doer.(interface{ CloseIdleConnections() }); ok {
		ic.CloseIdleConnections()
	}
}

// send runs one call through the pipeline, tracked in the in-flight
// registry for its whole duration. The request ID comes from ctx when set
// with WithRequestID, otherwise a fresh UUID is used.
func (c *Client) send(ctx context.Context, method, path string, payload any) (*Response, error) {
	id, ok := RequestIDFromContext(ctx)
	if !ok {
		id = uuid.NewString()
	}
	req := &Request{
		ID:     id,
		Method: method,
		Path:   path,
	}
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("encoding request body: %w", err)}
		}
		req.Body = body
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if !c.inflight.Register(req.ID, cancel) {
		return nil, &TransportError{Method: method, Path: path, Err: fmt.Errorf("request id %q: %w", req.ID, ErrDuplicateRequestID)}
	}
	defer c.inflight.Remove(req.ID)

	return c.pipeline(ctx, req)
}

// roundTrip performs the HTTP exchange. Non-2xx replies become
// *ResponseError with the body decoded once.
func (c *Client) roundTrip(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.cfg.baseURL()+req.Path, body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderRequestID, req.ID)
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.TokenSource != nil {
		if token := c.cfg.TokenSource(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpResp, err := c.doer.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &TransportError{Method: req.Method, Path: req.Path, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return nil, &ResponseError{
			Method:     req.Method,
			Path:       req.Path,
			StatusCode: httpResp.StatusCode,
			RequestID:  httpResp.Header.Get(HeaderRequestID),
			Body:       DecodeErrorBody(raw),
		}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       raw,
	}, nil
}

// Get issues a GET and decodes the response body into T.
func Get[T any](ctx context.Context, c *Client, path string) (T, error) {
	return call[T](ctx, c, http.MethodGet, path, nil)
}

// Post issues a POST with payload encoded as JSON.
func Post[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	return call[T](ctx, c, http.MethodPost, path, payload)
}

// Put issues a PUT with payload encoded as JSON.
func Put[T any](ctx context.Context, c *Client, path string, payload any) (T, error) {
	return call[T](ctx, c, http.MethodPut, path, payload)
}

// Del issues a DELETE.
func Del[T any](ctx context.Context, c *Client, path string) (T, error) {
	return call[T](ctx, c, http.MethodDelete, path, nil)
}

func call[T any](ctx context.Context, c *Client, method, path string, payload any) (T, error) {
	var out T

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return out, err
	}
	if len(bytes.TrimSpace(resp.Body)) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, &TransportError{Method: method, Path: path, Err: fmt.Errorf("decoding response body: %w", err)}
	}
	return out, nil
}

// IsCanceled reports whether err stems from a cancelled call.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}
