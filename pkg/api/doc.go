// Package api defines the wire types shared by the reactivities server and
// its client agent.
//
// The package performs no I/O. It provides the [Activity] record, the
// [UserDto] returned to authenticated clients, structured errors
// ([APIError], [FieldErrors], [ServerErrorBody]), ID generation and request
// validation.
//
// Field error maps keep their keys in document order on both encode and
// decode, so a client flattening validation messages sees them in the order
// the server produced them.
package api
