package ui

import (
	"slices"
	"sync"

	"github.com/reactivities/reactivities/pkg/agent"
)

// History records navigation pushes.
type History struct {
	mu      sync.Mutex
	entries []string
}

var _ agent.Navigator = (*History)(nil)

// Navigate pushes route.
func (h *History) Navigate(route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, route)
}

// Current returns the latest route, or "/" when nothing was pushed.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return "/"
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of every pushed route in order.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return slices.Clone(h.entries)
}
