package telemetry

import (
	"context"

	"github.com/google/uuid"

	"github.com/hashira-dev/hashira"
)

// RequestIDHeader is the header carrying the request identifier.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID creates a hook that assigns every request a unique
// identifier. An identifier already present on the incoming request is
// kept; otherwise a UUID is generated. The identifier is echoed on the
// response and stored in the context for downstream calls.
func RequestID() hashira.Hook {
	return hashira.HookFunc(func(ctx context.Context, req *hashira.Request, next hashira.HandlerFunc) *hashira.Response {
		id := req.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
			req.Header.Set(RequestIDHeader, id)
		}

		res := next(context.WithValue(ctx, requestIDKey{}, id), req)

		if res != nil && res.Header.Get(RequestIDHeader) == "" {
			res.Header.Set(RequestIDHeader, id)
		}
		return res
	})
}

// RequestIDFromContext returns the request identifier stored by the
// RequestID hook, or "" when the hook is not installed.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
