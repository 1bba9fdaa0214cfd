package hashira

import (
	"log/slog"
	"net/http"
)

// App accumulates routes, error pages, and hooks, then builds an
// immutable Service. Registration happens on a single goroutine before
// Build; the resulting service is safe for fully concurrent dispatch.
//
//	app := hashira.NewApp()
//	app.Get("/users/:id", showUser)
//	app.ErrorPage(http.StatusNotFound, notFoundPage)
//	svc, err := app.Build()
type App struct {
	router      *Router
	errorRouter *ErrorRouter
	hooks       []Hook
	renderer    Renderer
	logger      *slog.Logger
	routeErr    error
}

// NewApp creates an empty app builder.
func NewApp() *App {
	return &App{
		router:      NewRouter(),
		errorRouter: NewErrorRouter(),
	}
}

// Route registers a handler for the given method set and path pattern.
// Registration errors are collected and reported by Build.
func (a *App) Route(path string, methods MethodSet, handler Handler) *App {
	if err := a.router.Insert(path, methods, handler); err != nil && a.routeErr == nil {
		a.routeErr = err
	}
	return a
}

// Get registers a GET route.
func (a *App) Get(path string, handler Handler) *App {
	return a.Route(path, MethodGet, handler)
}

// Post registers a POST route.
func (a *App) Post(path string, handler Handler) *App {
	return a.Route(path, MethodPost, handler)
}

// Put registers a PUT route.
func (a *App) Put(path string, handler Handler) *App {
	return a.Route(path, MethodPut, handler)
}

// Patch registers a PATCH route.
func (a *App) Patch(path string, handler Handler) *App {
	return a.Route(path, MethodPatch, handler)
}

// Delete registers a DELETE route.
func (a *App) Delete(path string, handler Handler) *App {
	return a.Route(path, MethodDelete, handler)
}

// Head registers a HEAD route.
func (a *App) Head(path string, handler Handler) *App {
	return a.Route(path, MethodHead, handler)
}

// Options registers an OPTIONS route.
func (a *App) Options(path string, handler Handler) *App {
	return a.Route(path, MethodOptions, handler)
}

// Page registers a page route answering GET and HEAD.
func (a *App) Page(path string, handler Handler) *App {
	return a.Route(path, MethodGet|MethodHead, handler)
}

// ErrorPage registers a fallback handler for an exact status code.
func (a *App) ErrorPage(status int, handler ErrorHandler) *App {
	a.errorRouter.Insert(status, handler)
	return a
}

// FallbackErrorPage registers the catch-all error handler consulted
// when no exact status match exists.
func (a *App) FallbackErrorPage(handler ErrorHandler) *App {
	a.errorRouter.InsertFallback(handler)
	return a
}

// NotFoundPage registers a fallback handler for 404 responses.
func (a *App) NotFoundPage(handler ErrorHandler) *App {
	return a.ErrorPage(http.StatusNotFound, handler)
}

// Use appends hooks to the interception chain. Hooks run in
// registration order: the first hook registered is the outermost.
func (a *App) Use(hooks ...Hook) *App {
	a.hooks = append(a.hooks, hooks...)
	return a
}

// WithRenderer sets the rendering engine page handlers reach through
// RequestContext.Render.
func (a *App) WithRenderer(r Renderer) *App {
	a.renderer = r
	return a
}

// WithLogger sets the logger used by the dispatcher.
func (a *App) WithLogger(l *slog.Logger) *App {
	a.logger = l
	return a
}

// Build freezes the route tables and returns the dispatch service.
func (a *App) Build() (*Service, error) {
	if a.routeErr != nil {
		return nil, a.routeErr
	}
	return newService(a.router, a.errorRouter, a.renderer, a.hooks, a.logger), nil
}
