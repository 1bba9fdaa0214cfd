package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hashira-dev/hashira"
)

// Default tracer name for Hashira applications.
const defaultTracerName = "hashira"

// TracingConfig configures the OpenTelemetry hook.
type TracingConfig struct {
	// TracerName is the name of the tracer (default: "hashira").
	TracerName string

	// Filter determines which requests to trace.
	// Return true to trace the request, false to skip.
	// If nil, all requests are traced.
	Filter func(req *hashira.Request) bool

	// AttributeExtractor extracts custom attributes from the request.
	// Called for each traced request.
	AttributeExtractor func(req *hashira.Request) []attribute.KeyValue
}

// TracingOption configures the OpenTelemetry hook.
type TracingOption func(*TracingConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracingOption {
	return func(c *TracingConfig) {
		c.TracerName = name
	}
}

// WithRequestFilter sets a filter function for requests.
func WithRequestFilter(filter func(req *hashira.Request) bool) TracingOption {
	return func(c *TracingConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(req *hashira.Request) []attribute.KeyValue) TracingOption {
	return func(c *TracingConfig) {
		c.AttributeExtractor = extractor
	}
}

type tracingHook struct {
	config TracingConfig
	tracer trace.Tracer
}

// Tracing creates a hook that traces every dispatched request.
//
// The hook:
//   - Creates a span per request named "<method> <path>"
//   - Propagates the span context to the rest of the chain
//   - Records the response status and marks 5xx responses as errors
//
// The tracer uses the global OpenTelemetry tracer provider. Configure
// it in your main() before starting the server:
//
//	tp := sdktrace.NewTracerProvider(
//	    sdktrace.WithBatcher(exporter),
//	    sdktrace.WithResource(resource.NewWithAttributes(
//	        semconv.SchemaURL,
//	        semconv.ServiceName("my-app"),
//	    )),
//	)
//	otel.SetTracerProvider(tp)
func Tracing(opts ...TracingOption) hashira.Hook {
	config := TracingConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	return &tracingHook{
		config: config,
		tracer: otel.Tracer(config.TracerName),
	}
}

// OnHandle implements hashira.Hook.
func (t *tracingHook) OnHandle(ctx context.Context, req *hashira.Request, next hashira.HandlerFunc) *hashira.Response {
	if t.config.Filter != nil && !t.config.Filter(req) {
		return next(ctx, req)
	}

	attrs := []attribute.KeyValue{
		attribute.String("http.method", req.Method),
		attribute.String("http.target", req.Path()),
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(req)...)
	}

	spanCtx, span := t.tracer.Start(
		ctx,
		fmt.Sprintf("%s %s", req.Method, req.Path()),
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
		trace.WithTimestamp(time.Now()),
	)
	defer span.End()

	res := next(spanCtx, req)

	if res != nil {
		span.SetAttributes(attribute.Int("http.status_code", res.Status))
		if res.Status >= 500 {
			msg := ""
			if re := res.ResponseErr(); re != nil {
				msg = re.Message
			}
			span.SetStatus(codes.Error, msg)
		} else {
			span.SetStatus(codes.Ok, "")
		}
	}

	return res
}
