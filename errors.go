package hashira

import (
	"errors"
	"fmt"
	"net/http"
)

// ResponseError is a status-carrying error surfaced by a handler. The
// dispatcher converts it to a response directly when no error page is
// registered for its status.
type ResponseError struct {
	// Status is the HTTP status code.
	Status int

	// Message is an optional human-readable description. When empty,
	// the standard status text is used for the response body.
	Message string
}

// NewResponseError creates an error with a status and message.
func NewResponseError(status int, message string) *ResponseError {
	return &ResponseError{Status: status, Message: message}
}

// ErrorFromStatus creates an error with only a status code.
func ErrorFromStatus(status int) *ResponseError {
	return &ResponseError{Status: status}
}

// Error implements the error interface.
func (e *ResponseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, http.StatusText(e.Status), e.Message)
	}
	return fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
}

// Body returns the text used for a default response body: the message
// when present, otherwise the standard status text.
func (e *ResponseError) Body() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.Status)
}

// Response converts the error to a plain-text response.
func (e *ResponseError) Response() *Response {
	res := NewResponse(e.Status, BodyFromString(e.Body()))
	res.Header.Set("Content-Type", contentTypeText)
	res.err = e
	return res
}

// AsResponseError unwraps err looking for a *ResponseError.
func AsResponseError(err error) (*ResponseError, bool) {
	var re *ResponseError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
