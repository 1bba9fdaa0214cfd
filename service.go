package hashira

import (
	"context"
	"log/slog"
	"net/http"

	hashiraerrors "github.com/hashira-dev/hashira/internal/errors"
)

// Service is the root dispatcher for a built app. It resolves each
// request to a response via routing plus error-chain fallback. The
// route tables are frozen at build time and shared read-only, so
// dispatch needs no locks; the service holds no mutable per-request
// state.
type Service struct {
	router      *Router
	errorRouter *ErrorRouter
	renderer    Renderer
	logger      *slog.Logger
	entry       HandlerFunc
}

// errorSource is what step 5 of dispatch derives a status and message
// from: either a failing response a handler produced, or a constructed
// error value.
type errorSource struct {
	response *Response
	err      *ResponseError
}

func newService(router *Router, errorRouter *ErrorRouter, renderer Renderer, hooks []Hook, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		router:      router,
		errorRouter: errorRouter,
		renderer:    renderer,
		logger:      logger,
	}

	// The full dispatch sequence is the terminal continuation; hooks
	// wrap it once, here, rather than per request.
	s.entry = composeHooks(hooks, s.handleRequest)
	return s
}

// Router returns the service's route table.
func (s *Service) Router() *Router { return s.router }

// ErrorRouter returns the service's error route table.
func (s *Service) ErrorRouter() *ErrorRouter { return s.errorRouter }

// Handle processes one request and always returns a well-formed
// response; routing and handler failures are recovered through the
// error-page chain, and only a failure of the error page itself
// degrades to a raw 500.
func (s *Service) Handle(ctx context.Context, req *Request) *Response {
	return s.entry(ctx, req)
}

func (s *Service) handleRequest(ctx context.Context, req *Request) *Response {
	path := NormalizePath(req.Path())

	method, ok := ParseMethod(req.Method)
	if !ok {
		return WithStatus(http.StatusNotImplemented)
	}

	match, status := s.router.Match(method, path)
	switch status {
	case MatchNotFound:
		s.logger.Debug("route not found", "path", path,
			"error", hashiraerrors.New("H100"))
		src := errorSource{err: ErrorFromStatus(http.StatusNotFound)}
		return s.handleError(ctx, path, req, src)

	case MatchMethodNotAllowed:
		// A protocol-level answer, not a handled error: the error
		// chain is deliberately skipped.
		s.logger.Debug("method not allowed", "path", path, "method", req.Method,
			"error", hashiraerrors.New("H101"))
		return WithStatus(http.StatusMethodNotAllowed)
	}

	rc := s.createContext(ctx, path, req, match.Params, nil)
	res, err := match.Route.Handler()(rc)
	if err != nil {
		re, ok := AsResponseError(err)
		if !ok {
			s.logger.Error("handler failed", "path", path, "error", err)
			re = NewResponseError(http.StatusInternalServerError, err.Error())
		}
		return s.handleError(ctx, path, req, errorSource{err: re})
	}
	if res == nil {
		re := NewResponseError(http.StatusInternalServerError, "handler returned no response")
		return s.handleError(ctx, path, req, errorSource{err: re})
	}
	if res.IsError() {
		return s.handleError(ctx, path, req, errorSource{response: res})
	}
	return res
}

// handleError derives a status and message from the error source,
// consults the error route table, and renders the fallback page with
// the original path and request. A failing error handler degrades to
// a raw 500; that fallback is terminal and never loops.
func (s *Service) handleError(ctx context.Context, path string, req *Request, src errorSource) *Response {
	var re *ResponseError
	switch {
	case src.response != nil:
		if attached := src.response.ResponseErr(); attached != nil {
			re = NewResponseError(src.response.Status, attached.Message)
		} else {
			re = ErrorFromStatus(src.response.Status)
		}
	default:
		re = src.err
	}

	handler, ok := s.errorRouter.Recognize(re.Status)
	if !ok {
		return re.Response()
	}

	rc := s.createContext(ctx, path, req, nil, re)
	res, err := handler(rc, re.Status)
	if err != nil {
		if inner, ok := AsResponseError(err); ok {
			return inner.Response()
		}
		s.logger.Error("error handler failed", "status", re.Status,
			"error", hashiraerrors.New("H122").Wrap(err))
		return NewResponse(http.StatusInternalServerError, BodyFromString(err.Error()))
	}
	if res == nil {
		s.logger.Error("error handler returned no response", "status", re.Status)
		return NewResponse(http.StatusInternalServerError, BodyFromString("error handler returned no response"))
	}
	return res
}

// createContext builds the immutable per-request context, linking the
// shared route tables by reference.
func (s *Service) createContext(ctx context.Context, path string, req *Request, params Params, err *ResponseError) *RequestContext {
	return &RequestContext{
		ctx:         ctx,
		path:        path,
		params:      params,
		request:     req,
		router:      s.router,
		errorRouter: s.errorRouter,
		renderer:    s.renderer,
		err:         err,
	}
}
