package hashira

import (
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	contentTypeHTML = "text/html; charset=utf-8"
	contentTypeJSON = "application/json; charset=utf-8"
	contentTypeText = "text/plain; charset=utf-8"
)

// Response is the framework's server-agnostic HTTP response. Ownership
// transfers to the serving adapter when the dispatcher returns it; a
// streaming body is consumed exactly once while being written out.
type Response struct {
	// Status is the HTTP status code.
	Status int

	// Header holds the response headers.
	Header http.Header

	// Body is the response payload.
	Body *Body

	// err carries a structured error attached by a handler, so the
	// dispatcher can surface its message through the error chain.
	err *ResponseError
}

// NewResponse creates a response with the given status and body.
func NewResponse(status int, body *Body) *Response {
	if body == nil {
		body = EmptyBody()
	}
	return &Response{
		Status: status,
		Header: make(http.Header),
		Body:   body,
	}
}

// HTML creates a 200 response with a text/html body.
func HTML(markup string) *Response {
	res := NewResponse(http.StatusOK, BodyFromString(markup))
	res.Header.Set("Content-Type", contentTypeHTML)
	return res
}

// Text creates a 200 response with a text/plain body.
func Text(s string) *Response {
	res := NewResponse(http.StatusOK, BodyFromString(s))
	res.Header.Set("Content-Type", contentTypeText)
	return res
}

// JSON creates a 200 response with the value encoded as JSON. Encoding
// failures become a 500 carrying the encoder error.
func JSON(v any) *Response {
	data, err := json.Marshal(v)
	if err != nil {
		return NewResponseError(http.StatusInternalServerError,
			fmt.Sprintf("failed to encode response: %v", err)).Response()
	}
	res := NewResponse(http.StatusOK, BodyFromBytes(data))
	res.Header.Set("Content-Type", contentTypeJSON)
	return res
}

// WithStatus creates an empty-bodied response with the given status.
func WithStatus(status int) *Response {
	return NewResponse(status, EmptyBody())
}

// WithError attaches a structured error to the response. When the
// dispatcher sees a failing status it reads the attached error back so
// the error chain can render its message.
func (r *Response) WithError(err *ResponseError) *Response {
	r.err = err
	if r.Status < 400 && err != nil {
		r.Status = err.Status
	}
	return r
}

// ResponseErr returns the structured error attached to the response,
// if any.
func (r *Response) ResponseErr() *ResponseError {
	return r.err
}

// IsError reports whether the status is in the 4xx/5xx range.
func (r *Response) IsError() bool {
	return r.Status >= 400 && r.Status <= 599
}
