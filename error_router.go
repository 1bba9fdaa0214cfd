package hashira

// ErrorHandler renders a fallback page for a failed request. It
// receives the context (with the error attached) and the status code
// derived from the failure.
type ErrorHandler func(*RequestContext, int) (*Response, error)

// ErrorRouter maps HTTP status codes to fallback handlers. Lookup is
// by exact status code, falling back to the catch-all handler when one
// is registered. Immutable after the app service is built.
type ErrorRouter struct {
	handlers map[int]ErrorHandler
	fallback ErrorHandler
}

// NewErrorRouter creates an empty error route table.
func NewErrorRouter() *ErrorRouter {
	return &ErrorRouter{handlers: make(map[int]ErrorHandler)}
}

// Insert registers a handler for an exact status code.
func (e *ErrorRouter) Insert(status int, handler ErrorHandler) {
	e.handlers[status] = handler
}

// InsertFallback registers the catch-all handler consulted when no
// exact status match exists.
func (e *ErrorRouter) InsertFallback(handler ErrorHandler) {
	e.fallback = handler
}

// Recognize returns the handler for the status code, preferring an
// exact match over the catch-all.
func (e *ErrorRouter) Recognize(status int) (ErrorHandler, bool) {
	if h, ok := e.handlers[status]; ok {
		return h, true
	}
	if e.fallback != nil {
		return e.fallback, true
	}
	return nil, false
}

// Len returns the number of exact-status handlers registered.
func (e *ErrorRouter) Len() int {
	return len(e.handlers)
}
