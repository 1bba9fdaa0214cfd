package hashira

import (
	"context"
	"net/http"

	hashiraerrors "github.com/hashira-dev/hashira/internal/errors"
)

// RequestContext carries everything a handler needs about the current
// request: the normalized path, captured params, the original request,
// and the route tables used for nested link rendering. It is built by
// the dispatcher, owned exclusively by the request being processed,
// and discarded when the response is produced.
type RequestContext struct {
	ctx         context.Context
	path        string
	params      Params
	request     *Request
	router      *Router
	errorRouter *ErrorRouter
	renderer    Renderer
	err         *ResponseError
}

// Context returns the context.Context the request is being served
// under. Handlers should pass it to downstream blocking calls.
func (c *RequestContext) Context() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Path returns the normalized request path.
func (c *RequestContext) Path() string { return c.path }

// Params returns the captured route parameters in declaration order.
func (c *RequestContext) Params() Params { return c.params }

// Param returns a single captured parameter value, or "".
func (c *RequestContext) Param(name string) string { return c.params.Get(name) }

// Request returns the original request. Shared by reference; handlers
// must not mutate it.
func (c *RequestContext) Request() *Request { return c.request }

// Router returns the app's route table, for nested link rendering.
func (c *RequestContext) Router() *Router { return c.router }

// ErrorRouter returns the app's error route table.
func (c *RequestContext) ErrorRouter() *ErrorRouter { return c.errorRouter }

// Err returns the error attached to this context when it was built for
// an error page, or nil during normal dispatch.
func (c *RequestContext) Err() *ResponseError { return c.err }

// Render renders the component through the app's rendering engine and
// wraps the HTML in a text/html response.
func (c *RequestContext) Render(comp Component) (*Response, error) {
	if c.renderer == nil {
		return nil, hashiraerrors.New("H121")
	}
	html, err := c.renderer.RenderToHTML(c.Context(), comp)
	if err != nil {
		return nil, hashiraerrors.New("H120").Wrap(err)
	}
	return HTML(html), nil
}

// NotFound is a convenience for handlers that decide the resource does
// not exist after matching, sending the request down the 404 chain.
func (c *RequestContext) NotFound() (*Response, error) {
	return nil, ErrorFromStatus(http.StatusNotFound)
}
