// Package activities implements the activity use cases behind the HTTP API.
//
// Each use case is a request type dispatched through a transport.Mediator:
// List, Details, Create, Edit and Delete. Handlers validate input, map it
// onto stored activities and translate storage failures into api.APIError
// values that the HTTP adapter renders with the matching status code.
package activities
