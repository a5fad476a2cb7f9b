// Package storage holds what the activity store adapters (memory, postgres,
// sqlite) share: sentinel errors and tenant scoping via the request context.
//
// The store contract itself is transport.ActivityStore.
package storage
