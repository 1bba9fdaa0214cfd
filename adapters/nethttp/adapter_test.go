package nethttp

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashira-dev/hashira"
)

func buildService(t *testing.T, setup func(*hashira.App)) *hashira.Service {
	t.Helper()
	app := hashira.NewApp()
	setup(app)
	svc, err := app.Build()
	if err != nil {
		t.Fatal(err)
	}
	return svc
}

func TestHandler_TranslatesRequestAndResponse(t *testing.T) {
	svc := buildService(t, func(app *hashira.App) {
		app.Get("/users/:id", func(rc *hashira.RequestContext) (*hashira.Response, error) {
			return hashira.JSON(map[string]string{"id": rc.Param("id")}), nil
		})
	})

	srv := httptest.NewServer(NewHandler(svc))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/users/42")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", res.StatusCode)
	}
	body, _ := io.ReadAll(res.Body)
	if string(body) != `{"id":"42"}` {
		t.Errorf("body = %q", body)
	}
	if ct := res.Header.Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content type = %q", ct)
	}
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	svc := buildService(t, func(app *hashira.App) {
		app.Get("/users/:id", func(rc *hashira.RequestContext) (*hashira.Response, error) {
			return hashira.Text("ok"), nil
		})
	})

	srv := httptest.NewServer(NewHandler(svc))
	defer srv.Close()

	res, err := http.Post(srv.URL+"/users/42", "text/plain", nil)
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", res.StatusCode)
	}
}

func TestHandler_RequestBodyPassthrough(t *testing.T) {
	svc := buildService(t, func(app *hashira.App) {
		app.Post("/echo", func(rc *hashira.RequestContext) (*hashira.Response, error) {
			data, err := rc.Request().Body.Bytes()
			if err != nil {
				return nil, err
			}
			return hashira.Text(string(data)), nil
		})
	})

	srv := httptest.NewServer(NewHandler(svc))
	defer srv.Close()

	res, err := http.Post(srv.URL+"/echo", "text/plain", strings.NewReader("ping"))
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if string(body) != "ping" {
		t.Errorf("body = %q, want ping", body)
	}
}

func TestHandler_StreamingResponseBody(t *testing.T) {
	svc := buildService(t, func(app *hashira.App) {
		app.Get("/stream", func(rc *hashira.RequestContext) (*hashira.Response, error) {
			w, body := hashira.StreamBody()
			go func() {
				io.WriteString(w, "part-1.")
				io.WriteString(w, "part-2.")
				w.Close()
			}()
			return hashira.NewResponse(http.StatusOK, body), nil
		})
	})

	srv := httptest.NewServer(NewHandler(svc))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/stream")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Body.Close()
	body, _ := io.ReadAll(res.Body)
	if string(body) != "part-1.part-2." {
		t.Errorf("body = %q", body)
	}
}

func TestHandler_PanicRecoveredTo500(t *testing.T) {
	svc := buildService(t, func(app *hashira.App) {
		app.Get("/panic", func(rc *hashira.RequestContext) (*hashira.Response, error) {
			panic("handler exploded")
		})
	})

	srv := httptest.NewServer(NewHandler(svc))
	defer srv.Close()

	res, err := http.Get(srv.URL + "/panic")
	if err != nil {
		t.Fatal(err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", res.StatusCode)
	}
}
