package hashira

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func buildService(t *testing.T, setup func(*App)) *Service {
	t.Helper()
	app := NewApp()
	setup(app)
	svc, err := app.Build()
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func bodyString(t *testing.T, res *Response) string {
	t.Helper()
	b, err := res.Body.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestService_DispatchMatchedRoute(t *testing.T) {
	svc := buildService(t, func(app *App) {
		app.Get("/users/:id", func(rc *RequestContext) (*Response, error) {
			return JSON(map[string]string{"id": rc.Param("id")}), nil
		})
	})

	res := svc.Handle(context.Background(), NewRequest("GET", "/users/42"))
	if res.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Status)
	}
	if got := bodyString(t, res); got != `{"id":"42"}` {
		t.Errorf("body = %q", got)
	}
}

func TestService_MethodNotAllowedSkipsErrorChain(t *testing.T) {
	handlerCalled := false
	errorPageCalled := false

	svc := buildService(t, func(app *App) {
		app.Get("/users/:id", func(rc *RequestContext) (*Response, error) {
			handlerCalled = true
			return Text("ok"), nil
		})
		app.FallbackErrorPage(func(rc *RequestContext, status int) (*Response, error) {
			errorPageCalled = true
			return WithStatus(status), nil
		})
	})

	res := svc.Handle(context.Background(), NewRequest("POST", "/users/42"))
	if res.Status != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", res.Status)
	}
	if handlerCalled {
		t.Error("route handler must not run on method mismatch")
	}
	if errorPageCalled {
		t.Error("405 must not invoke the error chain")
	}
}

func TestService_NotFoundUsesCatchAll(t *testing.T) {
	svc := buildService(t, func(app *App) {
		app.FallbackErrorPage(func(rc *RequestContext, status int) (*Response, error) {
			res := NewResponse(status, BodyFromString("custom not found"))
			return res, nil
		})
	})

	res := svc.Handle(context.Background(), NewRequest("GET", "/missing"))
	if res.Status != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", res.Status)
	}
	if got := bodyString(t, res); got != "custom not found" {
		t.Errorf("body = %q", got)
	}
}

func TestService_UnregisteredStatusPassesThrough(t *testing.T) {
	svc := buildService(t, func(app *App) {
		app.Get("/teapot", func(rc *RequestContext) (*Response, error) {
			return nil, NewResponseError(http.StatusTeapot, "short and stout")
		})
	})

	res := svc.Handle(context.Background(), NewRequest("GET", "/teapot"))
	if res.Status != http.StatusTeapot {
		t.Fatalf("status = %d, want 418", res.Status)
	}
	if got := bodyString(t, res); got != "short and stout" {
		t.Errorf("body = %q, want the error message", got)
	}
}

func TestService_FailingResponseCarriesMessageToErrorPage(t *testing.T) {
	var seen string
	svc := buildService(t, func(app *App) {
		app.Get("/fail", func(rc *RequestContext) (*Response, error) {
			res := WithStatus(http.StatusBadGateway)
			return res.WithError(NewResponseError(http.StatusBadGateway, "upstream broke")), nil
		})
		app.ErrorPage(http.StatusBadGateway, func(rc *RequestContext, status int) (*Response, error) {
			seen = rc.Err().Message
			return NewResponse(status, BodyFromString("error page")), nil
		})
	})

	res := svc.Handle(context.Background(), NewRequest("GET", "/fail"))
	if res.Status != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", res.Status)
	}
	if seen != "upstream broke" {
		t.Errorf("error page saw message %q, want %q", seen, "upstream broke")
	}
}

func TestService_ErrorPageSeesOriginalPath(t *testing.T) {
	var seenPath string
	svc := buildService(t, func(app *App) {
		app.NotFoundPage(func(rc *RequestContext, status int) (*Response, error) {
			seenPath = rc.Path()
			return WithStatus(status), nil
		})
	})

	svc.Handle(context.Background(), NewRequest("GET", "/deep/missing/page/"))
	if seenPath != "/deep/missing/page" {
		t.Errorf("error page saw path %q, want normalized original path", seenPath)
	}
}

func TestService_ErrorChainTerminatesOnHandlerFailure(t *testing.T) {
	svc := buildService(t, func(app *App) {
		app.Get("/boom", func(rc *RequestContext) (*Response, error) {
			return nil, ErrorFromStatus(http.StatusInternalServerError)
		})
		app.ErrorPage(http.StatusInternalServerError, func(rc *RequestContext, status int) (*Response, error) {
			return nil, errors.New("error page also broke")
		})
	})

	res := svc.Handle(context.Background(), NewRequest("GET", "/boom"))
	if res.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", res.Status)
	}
	if got := bodyString(t, res); !strings.Contains(got, "error page also broke") {
		t.Errorf("body = %q, want the failure's textual description", got)
	}
}

func TestService_PlainErrorBecomes500(t *testing.T) {
	svc := buildService(t, func(app *App) {
		app.Get("/oops", func(rc *RequestContext) (*Response, error) {
			return nil, errors.New("database on fire")
		})
	})

	res := svc.Handle(context.Background(), NewRequest("GET", "/oops"))
	if res.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", res.Status)
	}
	if got := bodyString(t, res); !strings.Contains(got, "database on fire") {
		t.Errorf("body = %q", got)
	}
}

func TestService_HookOrderFirstRegisteredOutermost(t *testing.T) {
	var order []string
	mark := func(name string) Hook {
		return HookFunc(func(ctx context.Context, req *Request, next HandlerFunc) *Response {
			order = append(order, name+":before")
			res := next(ctx, req)
			order = append(order, name+":after")
			return res
		})
	}

	svc := buildService(t, func(app *App) {
		app.Use(mark("first"), mark("second"))
		app.Get("/", func(rc *RequestContext) (*Response, error) {
			order = append(order, "handler")
			return Text("ok"), nil
		})
	})

	svc.Handle(context.Background(), NewRequest("GET", "/"))

	want := []string{"first:before", "second:before", "handler", "second:after", "first:after"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestService_HookCanShortCircuit(t *testing.T) {
	svc := buildService(t, func(app *App) {
		app.Use(HookFunc(func(ctx context.Context, req *Request, next HandlerFunc) *Response {
			if req.Header.Get("Authorization") == "" {
				return WithStatus(http.StatusUnauthorized)
			}
			return next(ctx, req)
		}))
		app.Get("/secret", func(rc *RequestContext) (*Response, error) {
			return Text("secret"), nil
		})
	})

	res := svc.Handle(context.Background(), NewRequest("GET", "/secret"))
	if res.Status != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", res.Status)
	}

	req := NewRequest("GET", "/secret")
	req.Header.Set("Authorization", "Bearer x")
	res = svc.Handle(context.Background(), req)
	if res.Status != http.StatusOK {
		t.Fatalf("status = %d, want 200", res.Status)
	}
}

func TestService_RenderThroughRenderer(t *testing.T) {
	svc := buildService(t, func(app *App) {
		app.WithRenderer(RendererFunc(func(ctx context.Context, c Component) (string, error) {
			return fmt.Sprintf("<h1>%v</h1>", c), nil
		}))
		app.Get("/", func(rc *RequestContext) (*Response, error) {
			return rc.Render("hello")
		})
	})

	res := svc.Handle(context.Background(), NewRequest("GET", "/"))
	if res.Status != http.StatusOK {
		t.Fatalf("status = %d", res.Status)
	}
	if got := bodyString(t, res); got != "<h1>hello</h1>" {
		t.Errorf("body = %q", got)
	}
	if ct := res.Header.Get("Content-Type"); ct != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", ct)
	}
}

func TestService_RenderWithoutRenderer(t *testing.T) {
	svc := buildService(t, func(app *App) {
		app.Get("/", func(rc *RequestContext) (*Response, error) {
			return rc.Render("hello")
		})
	})

	res := svc.Handle(context.Background(), NewRequest("GET", "/"))
	if res.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", res.Status)
	}
	if got := bodyString(t, res); !strings.Contains(got, "H121") {
		t.Errorf("body = %q, want the missing renderer code", got)
	}
}

func TestService_RendererFailure(t *testing.T) {
	svc := buildService(t, func(app *App) {
		app.WithRenderer(RendererFunc(func(ctx context.Context, c Component) (string, error) {
			return "", errors.New("template blew up")
		}))
		app.Get("/", func(rc *RequestContext) (*Response, error) {
			return rc.Render("hello")
		})
	})

	res := svc.Handle(context.Background(), NewRequest("GET", "/"))
	if res.Status != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", res.Status)
	}
	if got := bodyString(t, res); !strings.Contains(got, "H120") {
		t.Errorf("body = %q, want the render failure code", got)
	}
}

func TestService_ConcurrentDispatch(t *testing.T) {
	svc := buildService(t, func(app *App) {
		app.Get("/users/:id", func(rc *RequestContext) (*Response, error) {
			return Text(rc.Param("id")), nil
		})
	})

	done := make(chan error, 32)
	for i := 0; i < 32; i++ {
		go func(i int) {
			id := fmt.Sprintf("%d", i)
			res := svc.Handle(context.Background(), NewRequest("GET", "/users/"+id))
			b, _ := res.Body.Bytes()
			if string(b) != id {
				done <- fmt.Errorf("got %q, want %q", b, id)
				return
			}
			done <- nil
		}(i)
	}
	for i := 0; i < 32; i++ {
		if err := <-done; err != nil {
			t.Error(err)
		}
	}
}

func TestApp_BuildReportsRouteError(t *testing.T) {
	app := NewApp()
	app.Get("no-slash", okHandler)
	if _, err := app.Build(); err == nil {
		t.Error("Build should surface route registration errors")
	}
}
