package cmd

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"datajoin/core/config"
	"datajoin/core/middleware/auth"
	"datajoin/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T, mutate func(cfg *config.Config)) *fiber.App {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Server.ApiKey = "secret"
	if mutate != nil {
		mutate(cfg)
	}

	rt := &runtime{cfg: cfg, logger: zap.NewNop(), client: new(mocks.Client)}
	app, err := newApp(rt)
	require.NoError(t, err)
	return app
}

func readBody(t *testing.T, r io.Reader) string {
	data, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(data)
}

func TestNewApp_AuthProtectsFeatures(t *testing.T) {
	app := setupTestApp(t, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/scenes", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	req := httptest.NewRequest("GET", "/scenes", nil)
	req.Header.Set(auth.Header, "secret")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Ray-ID"))
}

func TestNewApp_MetricsArePublic(t *testing.T) {
	app := setupTestApp(t, nil)

	body := `{"selector":"circle.dot","tag":"circle","key":"id","items":[{"id":"a"},{"id":"b"}]}`
	req := httptest.NewRequest("POST", "/scenes/chart/join", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.Header, "secret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	text := readBody(t, resp.Body)
	assert.Contains(t, text, `datajoin_items_entered_total{scene="chart"} 2`)
	assert.Contains(t, text, "go_goroutines")
}

func TestNewApp_MetricsDisabled(t *testing.T) {
	app := setupTestApp(t, func(cfg *config.Config) {
		cfg.Metrics.Enabled = false
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	// Unknown routes fall through to the auth middleware
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestNewApp_JoinSpansUseRuntimeTracer(t *testing.T) {
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.Server.ApiKey = "secret"

	rec := tracetest.NewSpanRecorder()
	rt := &runtime{
		cfg:    cfg,
		logger: zap.NewNop(),
		client: new(mocks.Client),
		tracer: sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)),
	}
	app, err := newApp(rt)
	require.NoError(t, err)

	body := `{"selector":"circle.dot","tag":"circle","key":"id","items":[{"id":"a"}]}`
	req := httptest.NewRequest("POST", "/scenes/chart/join", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(auth.Header, "secret")
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "scenes.Join", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("scene", "chart"))
}
