package instrumentation

import (
	"context"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestMetricsNilSafe(t *testing.T) {
	ctx := context.Background()

	// Neither a nil recorder nor the zero value may panic.
	var nilMetrics *Metrics
	nilMetrics.RecordTokenRequest(ctx, "authorization_code", ResultSuccess, time.Second)
	nilMetrics.RecordCacheRead(ctx, "valid")

	empty := &Metrics{}
	empty.RecordTokenRequest(ctx, "refresh_token", ResultError, time.Second)
	empty.RecordCacheRead(ctx, "corrupt")
}

func TestMetricsRecording(t *testing.T) {
	ctx := context.Background()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(ctx) }()

	metrics, err := NewMetrics(provider.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	metrics.RecordTokenRequest(ctx, "authorization_code", ResultSuccess, 250*time.Millisecond)
	metrics.RecordTokenRequest(ctx, "refresh_token", ResultError, 100*time.Millisecond)
	metrics.RecordCacheRead(ctx, "no cache")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	found := map[string]bool{}
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			found[m.Name] = true
		}
	}

	for _, name := range []string{
		"oauth_token_requests_total",
		"oauth_token_request_duration_seconds",
		"oauth_token_cache_reads_total",
	} {
		if !found[name] {
			t.Errorf("metric %q was not recorded", name)
		}
	}
}

func TestProviderDisabled(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	if provider.Enabled() {
		t.Error("provider should report disabled")
	}
	if provider.Metrics() == nil {
		t.Fatal("Metrics() should never return nil")
	}

	// Recording through a disabled provider is a no-op, not a panic.
	provider.Metrics().RecordCacheRead(ctx, "valid")

	if err := provider.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestProviderStdoutExporter(t *testing.T) {
	ctx := context.Background()

	provider, err := NewProvider(ctx, Config{
		ServiceName:     "spotauth-test",
		ServiceVersion:  "test",
		Enabled:         true,
		MetricsExporter: ExporterStdout,
	})
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()

	if !provider.Enabled() {
		t.Error("provider should report enabled")
	}

	provider.Metrics().RecordTokenRequest(ctx, "authorization_code", ResultSuccess, time.Millisecond)
}
