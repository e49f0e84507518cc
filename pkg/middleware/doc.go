// Package middleware provides HTTP middleware for the routesync server.
//
// This package includes:
//   - OpenTelemetry tracing middleware
//   - Prometheus metrics middleware
//
// Both are plain func(http.Handler) http.Handler and plug into chi:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry())
//	r.Use(middleware.Prometheus(middleware.WithNamespace("routesync")))
//
// Requests are labelled with the chi route pattern (for example
// "/paths/{name}") rather than the raw URL, which keeps label cardinality
// bounded.
//
// # OpenTelemetry Middleware
//
// The tracer comes from the global provider. Configure it in main() before
// starting the server:
//
//	otel.SetTracerProvider(tp)
package middleware
