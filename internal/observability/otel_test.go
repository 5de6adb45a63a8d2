package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"pagebuilder/internal/config"
)

func TestInitTracing_DisabledKeepsNoop(t *testing.T) {
	before := otel.GetTracerProvider()
	shutdown := InitTracing(context.Background(), nil, config.TracingConfig{}, "test")
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, before, otel.GetTracerProvider())
}

func TestInitTracing_StderrExporter(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown := InitTracing(context.Background(), nil, config.TracingConfig{Enabled: true, SampleRatio: 1}, "test")
	_, span := otel.Tracer("test").Start(context.Background(), "unit")
	assert.True(t, span.SpanContext().IsValid(), "enabled tracing should record spans")
	span.End()
	assert.NoError(t, shutdown(context.Background()))
}
