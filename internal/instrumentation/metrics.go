package instrumentation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys.
const (
	attrGrantType = "grant_type"
	attrResult    = "result"
	attrStatus    = "status"
)

// Result values for the result attribute.
const (
	ResultSuccess = "success"
	ResultError   = "error"
)

// Metrics provides methods for recording OAuth flow metrics. The zero value
// is a no-op recorder, so callers never need to branch on whether
// instrumentation is enabled.
type Metrics struct {
	tokenRequestsTotal   metric.Int64Counter
	tokenRequestDuration metric.Float64Histogram
	cacheReadsTotal      metric.Int64Counter
}

// NewMetrics creates a Metrics instance with all instruments registered on
// the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}

	var err error

	m.tokenRequestsTotal, err = meter.Int64Counter(
		"oauth_token_requests_total",
		metric.WithDescription("Total number of token endpoint requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_requests_total counter: %w", err)
	}

	m.tokenRequestDuration, err = meter.Float64Histogram(
		"oauth_token_request_duration_seconds",
		metric.WithDescription("Token endpoint request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_request_duration_seconds histogram: %w", err)
	}

	m.cacheReadsTotal, err = meter.Int64Counter(
		"oauth_token_cache_reads_total",
		metric.WithDescription("Total number of token cache reads by status"),
		metric.WithUnit("{read}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create oauth_token_cache_reads_total counter: %w", err)
	}

	return m, nil
}

// RecordTokenRequest records one token endpoint request with its grant type,
// outcome and duration.
func (m *Metrics) RecordTokenRequest(ctx context.Context, grantType, result string, duration time.Duration) {
	if m == nil || m.tokenRequestsTotal == nil {
		return
	}

	m.tokenRequestsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrGrantType, grantType),
		attribute.String(attrResult, result),
	))
	m.tokenRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(attrGrantType, grantType),
	))
}

// RecordCacheRead records one token cache read with its status
// (valid, no cache, corrupt).
func (m *Metrics) RecordCacheRead(ctx context.Context, status string) {
	if m == nil || m.cacheReadsTotal == nil {
		return
	}

	m.cacheReadsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrStatus, status),
	))
}
