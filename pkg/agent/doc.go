// Package agent is the HTTP access layer used by reactivities clients.
//
// Every call goes through a small pipeline of stages before its result
// reaches the caller:
//
//   - Logging: debug logging under the "agent" category.
//   - ErrorRouting: dispatches failed responses by status code. A 400 with
//     field errors becomes ValidationErrors; string bodies and 401s produce
//     a notification; 404 and 500 navigate to dedicated routes, and a 500
//     body is handed to the server error sink first.
//   - Metrics: Prometheus counters and latency histograms.
//   - Latency: an artificial delay on successful responses so loading
//     states stay visible during development. Zero disables it.
//
// Callers receive unwrapped payloads on success. On failure they receive
// exactly one of ValidationErrors, *ResponseError or *TransportError.
//
// UI collaborators (toasts, navigation, shared error state) are injected
// through Hooks, so the package holds no UI state of its own.
package agent
