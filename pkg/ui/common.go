package ui

import (
	"sync"

	"github.com/reactivities/reactivities/pkg/agent"
)

// CommonStore holds state shared across views: the last server error and
// the session token.
type CommonStore struct {
	mu          sync.RWMutex
	serverError *agent.ErrorBody
	token       string
}

var _ agent.ServerErrorSink = (*CommonStore)(nil)

// NewCommonStore creates an empty store.
func NewCommonStore() *CommonStore {
	return &CommonStore{}
}

// SetServerError records the body of a 500 response.
func (s *CommonStore) SetServerError(body agent.ErrorBody) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverError = &body
}

// ServerError returns the last recorded server error, if any.
func (s *CommonStore) ServerError() (agent.ErrorBody, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.serverError == nil {
		return agent.ErrorBody{}, false
	}
	return *s.serverError, true
}

// ClearServerError forgets the recorded server error.
func (s *CommonStore) ClearServerError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.serverError = nil
}

// SetToken stores the session token. An empty token logs out.
func (s *CommonStore) SetToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

// Token returns the session token. It is usable as agent.Config.TokenSource.
func (s *CommonStore) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
