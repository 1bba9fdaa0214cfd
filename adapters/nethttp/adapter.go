// Package nethttp adapts a hashira service to the standard library's
// http.Handler, translating the generic request/response forms in both
// directions, including streaming body passthrough.
package nethttp

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/hashira-dev/hashira"
)

// Handler serves a hashira service over net/http.
type Handler struct {
	service *hashira.Service
	logger  *slog.Logger
}

// NewHandler wraps the service in an http.Handler.
func NewHandler(service *hashira.Service) *Handler {
	return &Handler{service: service, logger: slog.Default()}
}

// WithLogger replaces the adapter's logger.
func (h *Handler) WithLogger(logger *slog.Logger) *Handler {
	h.logger = logger
	return h
}

// ServeHTTP implements http.Handler. Handler panics are recovered into
// a 500 so the client always receives a well-formed response.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic while serving request", "path", r.URL.Path, "panic", rec)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}()

	res := h.service.Handle(r.Context(), fromHTTP(r))
	writeResponse(w, res, h.logger)
}

// fromHTTP translates a stdlib request into the generic form. The body
// is wrapped as a lazy stream, so handlers that never read it cost
// nothing.
func fromHTTP(r *http.Request) *hashira.Request {
	var body *hashira.Body
	if r.Body != nil && r.Body != http.NoBody {
		body = hashira.BodyFromReader(r.Body)
	} else {
		body = hashira.EmptyBody()
	}

	return &hashira.Request{
		Method:     r.Method,
		URL:        r.URL,
		Header:     r.Header,
		Body:       body,
		RemoteAddr: r.RemoteAddr,
	}
}

func writeResponse(w http.ResponseWriter, res *hashira.Response, logger *slog.Logger) {
	for key, values := range res.Header {
		for _, v := range values {
			w.Header().Add(key, v)
		}
	}

	if !res.Body.IsStream() {
		data, _ := res.Body.Bytes()
		if len(data) > 0 && w.Header().Get("Content-Length") == "" {
			w.Header().Set("Content-Length", fmt.Sprintf("%d", len(data)))
		}
		w.WriteHeader(res.Status)
		if len(data) > 0 {
			w.Write(data)
		}
		return
	}

	w.WriteHeader(res.Status)
	rc, err := res.Body.Reader()
	if err != nil {
		logger.Error("response body unavailable", "error", err)
		return
	}
	defer rc.Close()
	// io.Copy gives the stream transport back-pressure: the producer
	// blocks until the client drains the pipe.
	if _, err := io.Copy(w, rc); err != nil {
		logger.Debug("response stream aborted", "error", err)
	}
}
