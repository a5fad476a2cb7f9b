package ui

import (
	"fmt"
	"io"
	"slices"
	"sync"

	"github.com/reactivities/reactivities/pkg/agent"
)

// Toasts writes notifications to an io.Writer, one per line, and keeps
// them for later inspection.
type Toasts struct {
	mu       sync.Mutex
	w        io.Writer
	messages []string
}

var _ agent.Notifier = (*Toasts)(nil)

// NewToasts creates a sink writing to w. A nil w only records.
func NewToasts(w io.Writer) *Toasts {
	return &Toasts{w: w}
}

// Notify shows message.
func (t *Toasts) Notify(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = append(t.messages, message)
	if t.w != nil {
		fmt.Fprintf(t.w, "! %s\n", message)
	}
}

// Messages returns a copy of every notification shown so far.
func (t *Toasts) Messages() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.messages)
}
