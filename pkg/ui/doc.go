// Package ui holds client-side state for reactivities front ends: the
// activity registry, shared error and token state, navigation history and
// toast notifications. The stores call the API through package agent and
// implement its hook interfaces.
package ui
