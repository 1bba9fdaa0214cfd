package hashira

import "context"

// HandlerFunc is the dispatcher's entry signature: request in,
// response out. Hooks receive the remainder of the chain as one of
// these.
type HandlerFunc func(ctx context.Context, req *Request) *Response

// Hook intercepts requests before they reach the dispatcher. A hook
// may answer the request itself or delegate to next, optionally
// transforming the request or response on the way through.
type Hook interface {
	OnHandle(ctx context.Context, req *Request, next HandlerFunc) *Response
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, req *Request, next HandlerFunc) *Response

// OnHandle implements Hook.
func (f HookFunc) OnHandle(ctx context.Context, req *Request, next HandlerFunc) *Response {
	return f(ctx, req, next)
}

// composeHooks folds the hook list around a terminal continuation at
// service-build time, producing one pre-composed callable. Folding
// right-to-left guarantees the first-registered hook ends up outermost.
func composeHooks(hooks []Hook, terminal HandlerFunc) HandlerFunc {
	chain := terminal
	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		next := chain
		chain = func(ctx context.Context, req *Request) *Response {
			return hook.OnHandle(ctx, req, next)
		}
	}
	return chain
}
