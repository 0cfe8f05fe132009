// Package tracing installs the OpenTelemetry tracer provider used by the
// scene service spans.
package tracing

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// ShutdownFunc flushes pending spans and releases the exporter.
type ShutdownFunc func(ctx context.Context) error

// New builds a tracer provider from cfg. Spans are exported as JSON lines to
// w. A disabled config returns a no-op provider.
func New(cfg Config, w io.Writer) (trace.TracerProvider, ShutdownFunc, error) {
	if !cfg.Enabled {
		return noop.NewTracerProvider(), func(context.Context) error { return nil }, nil
	}

	var exporter sdktrace.SpanExporter
	switch cfg.Exporter {
	case "", "stdout":
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create stdout exporter: %w", err)
		}
		exporter = exp
	default:
		return nil, nil, fmt.Errorf("unsupported trace exporter %q", cfg.Exporter)
	}

	ratio := cfg.SampleRatio
	if ratio < 0 || ratio > 1 {
		return nil, nil, fmt.Errorf("sample ratio %v must be between 0 and 1", ratio)
	}

	name := cfg.ServiceName
	if name == "" {
		name = "datajoin"
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(name),
		)),
	)
	return tp, tp.Shutdown, nil
}

// Install builds a provider with New and makes it the global one.
func Install(cfg Config, w io.Writer) (trace.TracerProvider, ShutdownFunc, error) {
	tp, shutdown, err := New(cfg, w)
	if err != nil {
		return nil, nil, err
	}
	otel.SetTracerProvider(tp)
	return tp, shutdown, nil
}
