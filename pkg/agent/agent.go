package agent

// Agent groups the request sets the UI calls.
type Agent struct {
	Activities *ActivityRequests

	client *Client
}

// New builds an Agent. hooks receive notifications, navigation and
// server errors from the error routing stage.
func New(cfg Config, hooks Hooks) (*Agent, error) {
	c, err := NewClient(cfg, hooks)
	if err != nil {
		return nil, err
	}
	return &Agent{
		Activities: &ActivityRequests{c: c},
		client:     c,
	}, nil
}

// Cancel aborts the running call with the given request ID. Callers choose
// the ID up front with WithRequestID:
//
//	ctx := agent.WithRequestID(ctx, "load-activities")
//	go a.Activities.List(ctx)
//	...
//	a.Cancel("load-activities")
func (a *Agent) Cancel(requestID string) bool {
	return a.client.inflight.Cancel(requestID)
}

// CancelAll aborts every running call and returns how many were aborted.
func (a *Agent) CancelAll() int {
	return a.client.inflight.CancelAll()
}

// InFlight returns the number of running calls.
func (a *Agent) InFlight() int {
	return a.client.inflight.Len()
}

// Close aborts running calls and releases idle connections.
func (a *Agent) Close() {
	a.client.Close()
}
