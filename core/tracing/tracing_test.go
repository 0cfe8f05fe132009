package tracing

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNew_Disabled(t *testing.T) {
	var buf bytes.Buffer
	tp, shutdown, err := New(Config{}, &buf)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "ignored")
	assert.False(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Zero(t, buf.Len())
}

func TestNew_StdoutExporter(t *testing.T) {
	var buf bytes.Buffer
	tp, shutdown, err := New(Config{Enabled: true, Exporter: "stdout", ServiceName: "datajoin-test", SampleRatio: 1}, &buf)
	require.NoError(t, err)

	_, span := tp.Tracer("test").Start(context.Background(), "scenes.Join")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	// Shutdown flushes the batcher
	require.NoError(t, shutdown(context.Background()))
	out := buf.String()
	assert.Contains(t, out, `"Name":"scenes.Join"`)
	assert.Contains(t, out, "datajoin-test")
}

func TestNew_InvalidConfig(t *testing.T) {
	_, _, err := New(Config{Enabled: true, Exporter: "zipkin", SampleRatio: 1}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unsupported trace exporter")

	_, _, err = New(Config{Enabled: true, SampleRatio: 2}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "sample ratio")
}

func TestInstall_SetsGlobalProvider(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tp, shutdown, err := Install(Config{Enabled: true, SampleRatio: 1}, &bytes.Buffer{})
	require.NoError(t, err)
	defer shutdown(context.Background())

	assert.Same(t, tp, otel.GetTracerProvider())
}
