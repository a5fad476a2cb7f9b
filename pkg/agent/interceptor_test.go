package agent

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactivities/reactivities/pkg/debug"
	"github.com/reactivities/reactivities/pkg/observability"
)

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Stage {
		return func(next RoundTrip) RoundTrip {
			return func(ctx context.Context, req *Request) (*Response, error) {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}
	base := func(context.Context, *Request) (*Response, error) {
		order = append(order, "base")
		return &Response{StatusCode: http.StatusOK}, nil
	}

	_, err := Chain(mark("a"), mark("b"), mark("c"))(base)(context.Background(), &Request{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "base"}, order)
}

func TestLatencyZeroIsPassThrough(t *testing.T) {
	called := false
	base := func(context.Context, *Request) (*Response, error) {
		called = true
		return &Response{StatusCode: http.StatusOK}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := Latency(0)(base)(ctx, &Request{})
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestErrorRoutingLeavesTransportErrors(t *testing.T) {
	rec := &recorder{}
	cause := &TransportError{Method: "GET", Path: "/x", Err: errors.New("dial failed")}
	base := func(context.Context, *Request) (*Response, error) { return nil, cause }

	_, err := ErrorRouting(rec.hooks(), false)(base)(context.Background(), &Request{Method: "GET"})

	assert.Same(t, cause, err)
	assert.Empty(t, rec.toasts)
	assert.Empty(t, rec.routes)
}

func TestMetricsOutcomeLabels(t *testing.T) {
	ok := func(context.Context, *Request) (*Response, error) {
		return &Response{StatusCode: http.StatusOK}, nil
	}
	notFound := func(context.Context, *Request) (*Response, error) {
		return nil, &ResponseError{StatusCode: http.StatusNotFound}
	}
	broken := func(context.Context, *Request) (*Response, error) {
		return nil, &TransportError{Err: errors.New("reset")}
	}

	tests := []struct {
		name    string
		base    RoundTrip
		outcome string
	}{
		{"success", ok, "200"},
		{"response error", notFound, "404"},
		{"transport error", broken, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := agentCount(t, "PATCH", tt.outcome)
			Metrics()(tt.base)(context.Background(), &Request{Method: "PATCH"})
			assert.Equal(t, before+1, agentCount(t, "PATCH", tt.outcome))
		})
	}
}

func agentCount(t *testing.T, method, outcome string) float64 {
	t.Helper()
	c, err := observability.AgentRequestsTotal.GetMetricWithLabelValues(method, outcome)
	require.NoError(t, err)
	m := &dto.Metric{}
	require.NoError(t, c.Write(m))
	return m.GetCounter().GetValue()
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(ValidationErrors{"x"}))
	assert.Equal(t, KindServer, KindOf(&ResponseError{StatusCode: 500}))
	assert.Equal(t, KindUnclassified, KindOf(&ResponseError{StatusCode: 502}))
	assert.Equal(t, KindUnclassified, KindOf(errors.New("other")))
	assert.Equal(t, "not_found", KindNotFound.String())
}

func TestLoggingWritesRawBodiesAtTrace(t *testing.T) {
	t.Setenv("REACTIVITIES_DEBUG", "")
	t.Setenv("REACTIVITIES_LOG_LEVEL", "")
	t.Cleanup(func() { debug.InitWriter("", "INFO", io.Discard) })

	long := `{"title":"` + strings.Repeat("x", 5000) + `"}`
	next := func(ctx context.Context, req *Request) (*Response, error) {
		return &Response{StatusCode: http.StatusOK, Body: []byte(long)}, nil
	}
	req := &Request{ID: "r1", Method: http.MethodPost, Path: "/activities", Body: []byte(`{"title":"Pub"}`)}

	var buf bytes.Buffer
	debug.InitWriter("agent", "DEBUG", &buf)
	_, err := Logging()(next)(context.Background(), req)
	require.NoError(t, err)
	assert.NotContains(t, buf.String(), `{"title":"Pub"}`, "bodies must stay hidden below TRACE")

	buf.Reset()
	debug.InitWriter("agent", "TRACE", &buf)
	_, err = Logging()(next)(context.Background(), req)
	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "{\"title\":\"Pub\"}\n", "request body written raw")
	assert.Contains(t, out, long+"\n", "response body written raw and untruncated")
}
