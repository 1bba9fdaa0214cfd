package hashira

import "strings"

// MethodSet is a bit field over the HTTP methods a route accepts.
// Sets are combined with bitwise OR, so a single route can answer
// several methods:
//
//	app.Route("/users", hashira.MethodGet|hashira.MethodPost, handler)
type MethodSet uint8

const (
	// MethodGet matches HTTP GET requests.
	MethodGet MethodSet = 1 << iota

	// MethodPost matches HTTP POST requests.
	MethodPost

	// MethodPut matches HTTP PUT requests.
	MethodPut

	// MethodPatch matches HTTP PATCH requests.
	MethodPatch

	// MethodDelete matches HTTP DELETE requests.
	MethodDelete

	// MethodHead matches HTTP HEAD requests.
	MethodHead

	// MethodOptions matches HTTP OPTIONS requests.
	MethodOptions

	// MethodTrace matches HTTP TRACE requests.
	MethodTrace
)

var methodNames = []struct {
	method MethodSet
	name   string
}{
	{MethodGet, "GET"},
	{MethodPost, "POST"},
	{MethodPut, "PUT"},
	{MethodPatch, "PATCH"},
	{MethodDelete, "DELETE"},
	{MethodHead, "HEAD"},
	{MethodOptions, "OPTIONS"},
	{MethodTrace, "TRACE"},
}

// Contains reports whether the two sets share at least one method.
// Matching is a bitwise AND, so it works for single methods and
// combined sets alike.
func (m MethodSet) Contains(other MethodSet) bool {
	return m&other != 0
}

// String returns the methods in the set joined by "|", e.g. "GET|POST".
func (m MethodSet) String() string {
	if m == 0 {
		return ""
	}
	var parts []string
	for _, entry := range methodNames {
		if m&entry.method != 0 {
			parts = append(parts, entry.name)
		}
	}
	return strings.Join(parts, "|")
}

// ParseMethod converts an HTTP method name to its MethodSet flag.
// The second return value is false for unknown methods.
func ParseMethod(name string) (MethodSet, bool) {
	switch strings.ToUpper(name) {
	case "GET":
		return MethodGet, true
	case "POST":
		return MethodPost, true
	case "PUT":
		return MethodPut, true
	case "PATCH":
		return MethodPatch, true
	case "DELETE":
		return MethodDelete, true
	case "HEAD":
		return MethodHead, true
	case "OPTIONS":
		return MethodOptions, true
	case "TRACE":
		return MethodTrace, true
	default:
		return 0, false
	}
}
