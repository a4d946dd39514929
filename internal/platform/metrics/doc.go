// Package metrics exposes Prometheus instrumentation for the service layer
// and the HTTP router.
package metrics
