package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("OTEL_ENABLED", "Yes")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "x-token=abc, broken ,=v,k=")
	t.Setenv("OTEL_SAMPLER_RATIO", "2.5")

	cfg := ConfigFromEnv("production")
	assert.True(t, cfg.Enabled)
	assert.Equal(t, defaultServiceName, cfg.ServiceName)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "collector:4318", cfg.Endpoint)
	assert.True(t, cfg.Insecure)
	assert.Equal(t, map[string]string{"x-token": "abc"}, cfg.Headers)
	assert.Equal(t, 1.0, cfg.SampleRatio)
}

func TestParseRatio(t *testing.T) {
	assert.Equal(t, 0.1, parseRatio(""))
	assert.Equal(t, 0.1, parseRatio("lots"))
	assert.Equal(t, 0.0, parseRatio("-1"))
	assert.Equal(t, 0.25, parseRatio("0.25"))
}

func TestInitOTel_DisabledIsNoop(t *testing.T) {
	shutdown := InitOTel(context.Background(), zap.NewNop(), OtelConfig{})
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitOTel_StdoutExporter(t *testing.T) {
	shutdown := InitOTel(context.Background(), zap.NewNop(), OtelConfig{
		Enabled:     true,
		ServiceName: "test",
		SampleRatio: 1,
	})
	assert.NoError(t, shutdown(context.Background()))
}
