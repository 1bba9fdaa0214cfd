package hashira

import (
	"strings"
	"testing"
)

func okHandler(rc *RequestContext) (*Response, error) {
	return Text("ok"), nil
}

func TestMethodSet_Contains(t *testing.T) {
	combined := MethodGet | MethodPost

	if !combined.Contains(MethodGet) {
		t.Error("combined set should contain GET")
	}
	if !combined.Contains(MethodPost) {
		t.Error("combined set should contain POST")
	}
	if combined.Contains(MethodDelete) {
		t.Error("combined set should not contain DELETE")
	}
}

func TestMethodSet_String(t *testing.T) {
	if got := (MethodGet | MethodPost).String(); got != "GET|POST" {
		t.Errorf("String() = %q, want %q", got, "GET|POST")
	}
	if got := MethodSet(0).String(); got != "" {
		t.Errorf("String() on empty set = %q, want empty", got)
	}
}

func TestParseMethod(t *testing.T) {
	m, ok := ParseMethod("get")
	if !ok || m != MethodGet {
		t.Errorf("ParseMethod(get) = %v, %v", m, ok)
	}
	if _, ok := ParseMethod("BREW"); ok {
		t.Error("ParseMethod should reject unknown methods")
	}
}

func TestRouter_InsertRequiresLeadingSlash(t *testing.T) {
	r := NewRouter()
	err := r.Insert("users", MethodGet, okHandler)
	if err == nil {
		t.Fatal("expected error for path without leading slash")
	}
	if !strings.Contains(err.Error(), "H103") {
		t.Errorf("error = %v, want an invalid pattern code", err)
	}
}

func TestRouter_InsertRejectsDuplicates(t *testing.T) {
	r := NewRouter()
	if err := r.Insert("/users", MethodGet, okHandler); err != nil {
		t.Fatal(err)
	}
	err := r.Insert("/users", MethodPost, okHandler)
	if err == nil {
		t.Fatal("expected error for duplicate path")
	}
	if !strings.Contains(err.Error(), "H102") {
		t.Errorf("error = %v, want a duplicate route code", err)
	}
}

func TestRouter_MatchAllRegisteredRoutes(t *testing.T) {
	r := NewRouter()
	paths := []string{"/", "/users", "/users/:id", "/users/:id/posts/:post", "/static/*"}
	for _, p := range paths {
		if err := r.Insert(p, MethodGet, okHandler); err != nil {
			t.Fatalf("Insert(%q): %v", p, err)
		}
	}

	for _, route := range r.Routes() {
		probe := route.Path()
		// Substitute params with concrete segments for the lookup.
		switch probe {
		case "/users/:id":
			probe = "/users/42"
		case "/users/:id/posts/:post":
			probe = "/users/42/posts/7"
		case "/static/*":
			probe = "/static/css/app.css"
		}
		if _, status := r.Match(MethodGet, probe); status != MatchFound {
			t.Errorf("Match(GET, %q) status = %v, want MatchFound", probe, status)
		}
	}
}

func TestRouter_ParamsInDeclarationOrder(t *testing.T) {
	r := NewRouter()
	if err := r.Insert("/users/:id/posts/:post", MethodGet, okHandler); err != nil {
		t.Fatal(err)
	}

	match, status := r.Match(MethodGet, "/users/42/posts/7")
	if status != MatchFound {
		t.Fatalf("status = %v, want MatchFound", status)
	}
	want := Params{{Name: "id", Value: "42"}, {Name: "post", Value: "7"}}
	if len(match.Params) != len(want) {
		t.Fatalf("params = %v, want %v", match.Params, want)
	}
	for i := range want {
		if match.Params[i] != want[i] {
			t.Errorf("param[%d] = %v, want %v", i, match.Params[i], want[i])
		}
	}
}

func TestRouter_ParamExtraction(t *testing.T) {
	r := NewRouter()
	if err := r.Insert("/users/:id", MethodGet, okHandler); err != nil {
		t.Fatal(err)
	}

	match, status := r.Match(MethodGet, "/users/42")
	if status != MatchFound {
		t.Fatalf("status = %v, want MatchFound", status)
	}
	if got := match.Params.Get("id"); got != "42" {
		t.Errorf("param id = %q, want %q", got, "42")
	}
}

func TestRouter_MethodMismatchIsNotNotFound(t *testing.T) {
	r := NewRouter()
	if err := r.Insert("/users/:id", MethodGet, okHandler); err != nil {
		t.Fatal(err)
	}

	if _, status := r.Match(MethodPost, "/users/42"); status != MatchMethodNotAllowed {
		t.Errorf("status = %v, want MatchMethodNotAllowed", status)
	}
	if _, status := r.Match(MethodPost, "/missing"); status != MatchNotFound {
		t.Errorf("status = %v, want MatchNotFound", status)
	}
}

func TestRouter_StaticWinsOverParam(t *testing.T) {
	r := NewRouter()
	var hit string
	insert := func(path, tag string) {
		err := r.Insert(path, MethodGet, func(rc *RequestContext) (*Response, error) {
			hit = tag
			return Text(tag), nil
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	insert("/users/me", "static")
	insert("/users/:id", "param")

	match, status := r.Match(MethodGet, "/users/me")
	if status != MatchFound {
		t.Fatalf("status = %v", status)
	}
	match.Route.Handler()(nil)
	if hit != "static" {
		t.Errorf("matched %q handler, want static", hit)
	}
}

func TestRouter_WildcardCapturesRemainder(t *testing.T) {
	r := NewRouter()
	if err := r.Insert("/static/*filepath", MethodGet, okHandler); err != nil {
		t.Fatal(err)
	}

	match, status := r.Match(MethodGet, "/static/css/app.css")
	if status != MatchFound {
		t.Fatalf("status = %v", status)
	}
	if got := match.Params.Get("filepath"); got != "css/app.css" {
		t.Errorf("filepath = %q, want %q", got, "css/app.css")
	}
}

func TestRouter_TrailingSlashNormalized(t *testing.T) {
	r := NewRouter()
	if err := r.Insert("/about", MethodGet, okHandler); err != nil {
		t.Fatal(err)
	}

	if _, status := r.Match(MethodGet, "/about/"); status != MatchFound {
		t.Errorf("trailing slash should match, status = %v", status)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"", "/"},
		{"/users/", "/users"},
		{"/users", "/users"},
		{"  /users/  ", "/users"},
		{"///", "/"},
	}
	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePath_Idempotent(t *testing.T) {
	for _, p := range []string{"/", "/users", "/users/42/posts"} {
		once := NormalizePath(p)
		if twice := NormalizePath(once); twice != once {
			t.Errorf("NormalizePath not idempotent for %q: %q != %q", p, twice, once)
		}
	}
}

func TestErrorRouter_ExactThenFallback(t *testing.T) {
	er := NewErrorRouter()
	exact := func(rc *RequestContext, status int) (*Response, error) { return Text("exact"), nil }
	catchAll := func(rc *RequestContext, status int) (*Response, error) { return Text("fallback"), nil }

	er.Insert(404, exact)
	er.InsertFallback(catchAll)

	h, ok := er.Recognize(404)
	if !ok {
		t.Fatal("expected handler for 404")
	}
	res, _ := h(nil, 404)
	if body, _ := res.Body.Bytes(); string(body) != "exact" {
		t.Errorf("body = %q, want exact", body)
	}

	h, ok = er.Recognize(500)
	if !ok {
		t.Fatal("expected fallback for 500")
	}
	res, _ = h(nil, 500)
	if body, _ := res.Body.Bytes(); string(body) != "fallback" {
		t.Errorf("body = %q, want fallback", body)
	}
}

func TestErrorRouter_NoHandler(t *testing.T) {
	er := NewErrorRouter()
	if _, ok := er.Recognize(500); ok {
		t.Error("empty error router should recognize nothing")
	}
}
