// Package instrumentation provides OpenTelemetry metrics for the OAuth flow.
//
// A Provider owns the meter provider and exporter lifecycle; the Metrics
// recorder it hands out is safe to use when instrumentation is disabled (all
// recording methods are no-ops on a nil or empty recorder). Metrics can be
// exported through Prometheus, OTLP or stdout.
package instrumentation
