// Package transport defines the request dispatch contract between the HTTP
// adapter and the application handlers, and the activity store contract the
// handlers depend on.
//
// # Mediator
//
// The HTTP adapter never calls application code directly. It builds a
// [Request] value and hands it to a [Mediator], which looks up the [Handler]
// registered for the request kind and runs it inside a [Middleware] chain.
// Built-in middleware provides panic recovery, request ID assignment
// (X-Request-ID) and structured logging via log/slog.
//
// # Errors
//
// Handlers return *api.APIError values. [WriteAPIError] renders them with
// the status code and body shape the client agent expects: a field error
// object for validation failures, a JSON string for plain bad requests, an
// empty body for 401/404 and a {statusCode,message,details} object for 500.
package transport
