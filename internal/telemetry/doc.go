// Package telemetry provides observability hooks for the dispatcher:
// Prometheus request metrics, OpenTelemetry tracing, and request
// identifiers. Each is a hashira.Hook and composes with the rest of
// the hook chain.
package telemetry
