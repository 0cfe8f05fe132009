package tracing

// Config holds configuration for OpenTelemetry tracing.
type Config struct {
	// Enabled installs an SDK tracer provider. When false spans are dropped.
	Enabled bool `mapstructure:"enabled" default:"false"`
	// Exporter selects where finished spans are written. Only "stdout" is supported.
	Exporter string `mapstructure:"exporter" default:"stdout"`
	// ServiceName is reported as the service.name resource attribute.
	ServiceName string `mapstructure:"service_name" default:"datajoin"`
	// SampleRatio is the fraction of root spans kept, between 0 and 1.
	SampleRatio float64 `mapstructure:"sample_ratio" default:"1"`
}
