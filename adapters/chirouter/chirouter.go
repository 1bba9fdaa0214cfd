// Package chirouter mounts a hashira service onto a chi router, so an
// app can live alongside chi-native routes and middleware in an
// existing service.
package chirouter

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hashira-dev/hashira"
	"github.com/hashira-dev/hashira/adapters/nethttp"
)

// Mount attaches the service under the given prefix on a chi router.
// All methods and subpaths are forwarded; the hashira dispatcher does
// its own routing, including 404/405 handling.
func Mount(r chi.Router, prefix string, service *hashira.Service) {
	handler := nethttp.NewHandler(service)
	if prefix == "" || prefix == "/" {
		r.Handle("/*", handler)
		return
	}
	r.Route(prefix, func(sub chi.Router) {
		sub.Handle("/*", http.StripPrefix(prefix, handler))
	})
}

// NewRouter creates a chi router with the service mounted at root.
func NewRouter(service *hashira.Service) chi.Router {
	r := chi.NewRouter()
	Mount(r, "/", service)
	return r
}
