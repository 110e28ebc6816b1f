// Package server runs the short-lived local HTTP server that captures the
// OAuth redirect during login. It serves the configured callback path plus
// /healthz, and exposes Prometheus metrics on /metrics when instrumentation
// is enabled.
package server
