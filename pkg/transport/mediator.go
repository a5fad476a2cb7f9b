package transport

import (
	"context"
	"fmt"
	"sync"

	"github.com/reactivities/reactivities/pkg/api"
)

// Mediator dispatches requests to the handler registered for their kind.
// Every handler runs inside the mediator's middleware chain.
type Mediator struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	chain    Middleware
}

// NewMediator creates a Mediator whose handlers are wrapped by middlewares,
// outermost first.
func NewMediator(middlewares ...Middleware) *Mediator {
	return &Mediator{
		handlers: make(map[string]Handler),
		chain:    Chain(middlewares...),
	}
}

// Register binds h to kind, replacing any earlier registration.
func (m *Mediator) Register(kind string, h Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[kind] = m.chain(h)
}

// Send dispatches req to its handler.
func (m *Mediator) Send(ctx context.Context, req Request) (any, error) {
	m.mu.RLock()
	h, ok := m.handlers[req.RequestKind()]
	m.mu.RUnlock()
	if !ok {
		return nil, api.NewServerError(fmt.Sprintf("no handler registered for %q", req.RequestKind()))
	}
	return h.Handle(ctx, req)
}
