package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all metrics are exported by the
// default registry once they have been observed.
func TestMetricsRegistered(t *testing.T) {
	RequestsTotal.WithLabelValues("GET", "GET /api/activities", "2xx").Add(0)
	RequestDuration.WithLabelValues("GET", "GET /api/activities").Observe(0.01)
	AgentRequestsTotal.WithLabelValues("GET", "200").Add(0)
	AgentLatency.WithLabelValues("GET").Observe(0.01)
	RateLimitRejectedTotal.WithLabelValues("default").Add(0)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}

	expected := map[string]bool{
		"reactivities_requests_total":           false,
		"reactivities_request_duration_seconds": false,
		"reactivities_requests_in_flight":       false,
		"reactivities_agent_requests_total":     false,
		"reactivities_agent_latency_seconds":    false,
		"reactivities_ratelimit_rejected_total": false,
	}
	for _, mf := range families {
		if _, ok := expected[mf.GetName()]; ok {
			expected[mf.GetName()] = true
		}
	}
	for name, found := range expected {
		if !found {
			t.Errorf("metric %q not found in default registry", name)
		}
	}
}

// TestMiddlewareLabelsMatchedRoute verifies that the ServeMux pattern is
// used as the route label instead of the raw path.
func TestMiddlewareLabelsMatchedRoute(t *testing.T) {
	const route = "GET /api/activities/{id}"
	before := counterValue(t, RequestsTotal, "GET", route, "2xx")
	beforeHist := histogramCount(t, RequestDuration, "GET", route)

	mux := http.NewServeMux()
	mux.HandleFunc(route, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := MetricsMiddleware(mux)

	for _, id := range []string{"a", "b"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/api/activities/"+id, nil))
	}

	if delta := counterValue(t, RequestsTotal, "GET", route, "2xx") - before; delta != 2 {
		t.Errorf("request count delta = %f, want 2", delta)
	}
	if delta := histogramCount(t, RequestDuration, "GET", route) - beforeHist; delta != 2 {
		t.Errorf("histogram sample delta = %d, want 2", delta)
	}
}

// TestMiddlewareCapturesStatusCode verifies that non-200 status codes are
// captured in the status label, and unmatched routes get a fixed label.
func TestMiddlewareCapturesStatusCode(t *testing.T) {
	before := counterValue(t, RequestsTotal, "POST", "unmatched", "4xx")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/api/activities", nil))

	if delta := counterValue(t, RequestsTotal, "POST", "unmatched", "4xx") - before; delta != 1 {
		t.Errorf("4xx count delta = %f, want 1", delta)
	}
}

// TestMiddlewareInFlightGauge verifies the gauge is raised while a request
// is served and restored afterwards.
func TestMiddlewareInFlightGauge(t *testing.T) {
	baseline := gaugeValue(t, InFlightRequests)

	var during float64
	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		during = gaugeValue(t, InFlightRequests)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/healthz", nil))

	if during != baseline+1 {
		t.Errorf("gauge during request = %f, want %f", during, baseline+1)
	}
	if after := gaugeValue(t, InFlightRequests); after != baseline {
		t.Errorf("gauge after request = %f, want %f", after, baseline)
	}
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{200: "2xx", 204: "2xx", 400: "4xx", 404: "4xx", 500: "5xx"}
	for status, want := range tests {
		if got := StatusClass(status); got != want {
			t.Errorf("StatusClass(%d) = %q, want %q", status, got, want)
		}
	}
}

// counterValue reads the current value of a CounterVec for the given labels.
func counterValue(t *testing.T, cv *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	c, err := cv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting counter metric: %v", err)
	}
	if err := c.Write(m); err != nil {
		t.Fatalf("writing counter metric: %v", err)
	}
	return m.GetCounter().GetValue()
}

// histogramCount reads the observation count from a HistogramVec.
func histogramCount(t *testing.T, hv *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	m := &dto.Metric{}
	obs, err := hv.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("getting histogram metric: %v", err)
	}
	if err := obs.(prometheus.Metric).Write(m); err != nil {
		t.Fatalf("writing histogram metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

// gaugeValue reads the current value of a Gauge.
func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	if err := g.Write(m); err != nil {
		t.Fatalf("writing gauge metric: %v", err)
	}
	return m.GetGauge().GetValue()
}
