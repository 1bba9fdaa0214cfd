package hashira

import (
	"fmt"
	"strings"

	hashiraerrors "github.com/hashira-dev/hashira/internal/errors"
)

// Handler is a unit of request-processing logic bound to a route.
// It receives the per-request context and produces a response, or an
// error the dispatcher routes through the error-page chain.
type Handler func(*RequestContext) (*Response, error)

// Route is a (path pattern, method set, handler) triple. Routes are
// immutable once registered; the path may contain named parameters
// (":id") and a trailing wildcard segment ("*").
type Route struct {
	path    string
	methods MethodSet
	handler Handler
}

// Path returns the registered path pattern.
func (r *Route) Path() string { return r.path }

// Methods returns the HTTP methods this route accepts.
func (r *Route) Methods() MethodSet { return r.methods }

// Handler returns the handler bound to this route.
func (r *Route) Handler() Handler { return r.handler }

// Param is a single captured path parameter.
type Param struct {
	Name  string
	Value string
}

// Params holds captured path parameters in declaration order.
type Params []Param

// Get returns the value for the named parameter, or "" if absent.
func (p Params) Get(name string) string {
	for _, param := range p {
		if param.Name == name {
			return param.Value
		}
	}
	return ""
}

// Has reports whether the named parameter was captured.
func (p Params) Has(name string) bool {
	for _, param := range p {
		if param.Name == name {
			return true
		}
	}
	return false
}

// MatchStatus is the outcome of a route lookup.
type MatchStatus int

const (
	// MatchFound means a route matched structurally and by method.
	MatchFound MatchStatus = iota

	// MatchNotFound means no route matched the path.
	MatchNotFound

	// MatchMethodNotAllowed means a route matched the path but not
	// the request method. The dispatcher answers 405 directly without
	// consulting the error chain.
	MatchMethodNotAllowed
)

// MatchResult is produced per-request and not retained beyond it.
type MatchResult struct {
	Route  *Route
	Params Params
}

// Router maps method+path to handlers using a segment trie with named
// parameter and trailing wildcard support. Routes are registered during
// a single-threaded setup phase; after the app service is built the
// tree is read-only and safe for concurrent lookups without locking.
type Router struct {
	root   *node
	routes []*Route
}

type node struct {
	edges    []edge
	param    *paramEdge
	wildcard *wildcardEdge
	route    *Route
}

// edge is a per-segment static child. Linear scan keeps the hot path
// free of map hashing; route sets are small.
type edge struct {
	label string
	node  *node
}

type paramEdge struct {
	name string
	node *node
}

type wildcardEdge struct {
	name  string
	route *Route
}

// NewRouter creates an empty route table.
func NewRouter() *Router {
	return &Router{root: &node{}}
}

// Insert registers a route. The path must start with "/". Registering
// the same pattern twice is an error; combine methods with a bitmask
// instead.
func (r *Router) Insert(path string, methods MethodSet, handler Handler) error {
	if !strings.HasPrefix(path, "/") {
		return hashiraerrors.New("H103").
			WithDetail(fmt.Sprintf("route path must start with '/': %q", path))
	}
	if methods == 0 {
		return fmt.Errorf("route %q has an empty method set", path)
	}
	if handler == nil {
		return fmt.Errorf("route %q has a nil handler", path)
	}

	path = NormalizePath(path)
	route := &Route{path: path, methods: methods, handler: handler}

	cur := r.root
	segments := splitPath(path)
	for i, seg := range segments {
		switch {
		case seg == "*" || strings.HasPrefix(seg, "*"):
			if i != len(segments)-1 {
				return hashiraerrors.New("H103").
					WithDetail(fmt.Sprintf("wildcard must be the final segment: %q", path))
			}
			if cur.wildcard != nil {
				return hashiraerrors.New("H102").
					WithDetail(fmt.Sprintf("duplicate wildcard route: %q", path))
			}
			name := strings.TrimPrefix(seg, "*")
			if name == "" {
				name = "path"
			}
			cur.wildcard = &wildcardEdge{name: name, route: route}
			r.routes = append(r.routes, route)
			return nil

		case strings.HasPrefix(seg, ":"):
			name := seg[1:]
			if name == "" {
				return hashiraerrors.New("H103").
					WithDetail(fmt.Sprintf("missing parameter name in %q", path))
			}
			if cur.param == nil {
				cur.param = &paramEdge{name: name, node: &node{}}
			} else if cur.param.name != name {
				return hashiraerrors.New("H103").
					WithDetail(fmt.Sprintf("conflicting parameter names %q and %q in %q",
						cur.param.name, name, path))
			}
			cur = cur.param.node

		default:
			cur = cur.findOrCreateChild(seg)
		}
	}

	if cur.route != nil {
		return hashiraerrors.New("H102").
			WithDetail(fmt.Sprintf("duplicate route: %q", path))
	}
	cur.route = route
	r.routes = append(r.routes, route)
	return nil
}

// Match looks up the normalized path and tests the method bitmask.
// Structural matching wins first: an existing path with the wrong
// method reports MatchMethodNotAllowed rather than MatchNotFound.
func (r *Router) Match(method MethodSet, path string) (MatchResult, MatchStatus) {
	path = NormalizePath(path)

	route, params := r.root.match(splitPath(path), nil)
	if route == nil {
		return MatchResult{}, MatchNotFound
	}
	if !route.methods.Contains(method) {
		return MatchResult{}, MatchMethodNotAllowed
	}
	return MatchResult{Route: route, Params: params}, MatchFound
}

// Routes returns all registered routes in insertion order.
func (r *Router) Routes() []*Route {
	return r.routes
}

func (n *node) findOrCreateChild(segment string) *node {
	for i := range n.edges {
		if n.edges[i].label == segment {
			return n.edges[i].node
		}
	}
	child := &node{}
	n.edges = append(n.edges, edge{label: segment, node: child})
	return child
}

// match walks the trie. Static edges take precedence over the
// parameter edge, which takes precedence over the wildcard.
func (n *node) match(segments []string, params Params) (*Route, Params) {
	if len(segments) == 0 {
		return n.route, params
	}

	seg := segments[0]
	rest := segments[1:]

	for i := range n.edges {
		if n.edges[i].label == seg {
			if route, p := n.edges[i].node.match(rest, params); route != nil {
				return route, p
			}
			break
		}
	}

	if n.param != nil {
		withParam := append(params, Param{Name: n.param.name, Value: seg})
		if route, p := n.param.node.match(rest, withParam); route != nil {
			return route, p
		}
	}

	if n.wildcard != nil {
		captured := strings.Join(segments, "/")
		return n.wildcard.route, append(params, Param{Name: n.wildcard.name, Value: captured})
	}

	return nil, nil
}

// NormalizePath trims surrounding whitespace and the trailing slash,
// keeping root as "/". Normalizing an already-normalized path is a
// no-op.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}

func splitPath(path string) []string {
	if path == "/" || path == "" {
		return nil
	}
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}
