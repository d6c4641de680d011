package config

// MetricsConfig controls the metrics pipeline. The Prometheus endpoint is
// always wired when enabled; OTLP export is additionally turned on when an
// endpoint is provided.
type MetricsConfig struct {
	Enabled      bool
	OTLPEndpoint string
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(EnvMetricsEnabled, true),
		OTLPEndpoint: envOrDefault(EnvMetricsOTLPEndpoint, ""),
	}
}
