package hashira

import (
	"net/http"
	"net/url"
)

// Request is the framework's server-agnostic view of an incoming HTTP
// request. Adapters translate their host framework's request type into
// this form before calling the dispatcher.
type Request struct {
	// Method is the HTTP method name, e.g. "GET".
	Method string

	// URL is the parsed request URL.
	URL *url.URL

	// Header holds the request headers.
	Header http.Header

	// Body is the request payload. May be a passthrough stream.
	Body *Body

	// RemoteAddr is the client network address, when known.
	RemoteAddr string
}

// NewRequest builds a request for the given method and target. The
// target is parsed as a URL; an invalid target yields a request with a
// bare path. Mostly a convenience for tests and in-process dispatch.
func NewRequest(method, target string) *Request {
	u, err := url.Parse(target)
	if err != nil {
		u = &url.URL{Path: target}
	}
	return &Request{
		Method: method,
		URL:    u,
		Header: make(http.Header),
		Body:   EmptyBody(),
	}
}

// Path returns the URL path, or "/" when the URL is absent.
func (r *Request) Path() string {
	if r.URL == nil {
		return "/"
	}
	if r.URL.Path == "" {
		return "/"
	}
	return r.URL.Path
}
