package instrumentation

import "testing"

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.ServiceName != "spotauth" {
		t.Errorf("ServiceName = %q, want spotauth", config.ServiceName)
	}
	if config.Enabled {
		t.Error("instrumentation should be disabled by default")
	}
	if config.MetricsExporter != ExporterPrometheus {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterPrometheus)
	}
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("INSTRUMENTATION_ENABLED", "true")
	t.Setenv("METRICS_EXPORTER", ExporterStdout)
	t.Setenv("OTEL_SERVICE_NAME", "spotauth-test")

	config := DefaultConfig()

	if !config.Enabled {
		t.Error("Enabled should be true")
	}
	if config.MetricsExporter != ExporterStdout {
		t.Errorf("MetricsExporter = %q, want %q", config.MetricsExporter, ExporterStdout)
	}
	if config.ServiceName != "spotauth-test" {
		t.Errorf("ServiceName = %q, want spotauth-test", config.ServiceName)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{
			name:    "prometheus exporter",
			config:  Config{MetricsExporter: ExporterPrometheus},
			wantErr: false,
		},
		{
			name:    "stdout exporter",
			config:  Config{MetricsExporter: ExporterStdout},
			wantErr: false,
		},
		{
			name:    "otlp without endpoint",
			config:  Config{MetricsExporter: ExporterOTLP},
			wantErr: true,
		},
		{
			name:    "otlp with endpoint",
			config:  Config{MetricsExporter: ExporterOTLP, OTLPEndpoint: "localhost:4318"},
			wantErr: false,
		},
		{
			name:    "unknown exporter",
			config:  Config{MetricsExporter: "statsd"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
