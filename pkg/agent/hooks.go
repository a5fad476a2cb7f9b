package agent

// Routes pushed to the Navigator.
const (
	RouteNotFound    = "/not-found"
	RouteServerError = "/server-error"
)

// Notification texts.
const (
	MsgUnauthorised = "unauthorised"
	MsgBadRequest   = "bad request"
)

// Notifier shows a transient message (a toast).
type Notifier interface {
	Notify(message string)
}

// Navigator moves the UI to a route.
type Navigator interface {
	Navigate(route string)
}

// ServerErrorSink keeps the body of the last 500 response for display on
// the server error view.
type ServerErrorSink interface {
	SetServerError(body ErrorBody)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) { f(message) }

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route string)

func (f NavigatorFunc) Navigate(route string) { f(route) }

// ServerErrorSinkFunc adapts a function to ServerErrorSink.
type ServerErrorSinkFunc func(body ErrorBody)

func (f ServerErrorSinkFunc) SetServerError(body ErrorBody) { f(body) }

// Hooks are the UI collaborators invoked by the error routing stage. Nil
// fields are no-ops.
type Hooks struct {
	Notifier     Notifier
	Navigator    Navigator
	ServerErrors ServerErrorSink
}

func (h Hooks) notify(msg string) {
	if h.Notifier != nil {
		h.Notifier.Notify(msg)
	}
}

func (h Hooks) navigate(route string) {
	if h.Navigator != nil {
		h.Navigator.Navigate(route)
	}
}

func (h Hooks) serverError(body ErrorBody) {
	if h.ServerErrors != nil {
		h.ServerErrors.SetServerError(body)
	}
}
