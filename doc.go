// Package hashira is a web-application framework built around
// server-side rendering with client-side hydration. The package
// provides the request routing and rendering pipeline: an immutable
// route table with named parameters and method bitmasks, an error
// route table for status-code fallbacks, a per-request context, and
// the dispatcher tying them together behind a single Handle call.
//
// Apps are assembled with the App builder and served through an
// adapter:
//
//	app := hashira.NewApp()
//	app.Get("/users/:id", func(rc *hashira.RequestContext) (*hashira.Response, error) {
//	    return hashira.JSON(map[string]string{"id": rc.Param("id")}), nil
//	})
//	svc, err := app.Build()
//	// adapters/nethttp.NewHandler(svc) serves it on net/http
//
// The rendering engine, HTTP server bindings, and build tooling live
// behind interfaces and sibling packages; this package is only the
// dispatch pipeline.
package hashira
