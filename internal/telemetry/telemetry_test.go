package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/donaldgifford/device-grader/internal/config"
	"github.com/donaldgifford/device-grader/internal/telemetry"
)

func TestSetup_Disabled(t *testing.T) {
	t.Parallel()

	shutdown, err := telemetry.Setup(context.Background(), config.TracingConfig{}, "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
}

// Not parallel: installs global providers.
func TestSetup_Enabled(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	shutdown, err := telemetry.Setup(context.Background(), config.TracingConfig{
		Enabled:     true,
		Endpoint:    "127.0.0.1:4317",
		Insecure:    true,
		ServiceName: "device-grader-test",
		SampleRatio: 1,
	}, "test")
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_ = shutdown(ctx) // nothing is listening; only the call path matters
}
