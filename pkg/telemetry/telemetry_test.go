package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/macropower/lv2lint/pkg/telemetry"
)

func TestSetup(t *testing.T) {
	tcs := map[string]struct {
		env     map[string]string
		enabled bool
	}{
		"disabled": {
			env: map[string]string{},
		},
		"endpoint": {
			env:     map[string]string{telemetry.EnvEndpoint: "http://localhost:4317"},
			enabled: true,
		},
		"traces endpoint": {
			env:     map[string]string{telemetry.EnvTracesEndpoint: "http://localhost:4317"},
			enabled: true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Setenv(telemetry.EnvEndpoint, "")
			t.Setenv(telemetry.EnvTracesEndpoint, "")

			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			prev := otel.GetTracerProvider()
			t.Cleanup(func() { otel.SetTracerProvider(prev) })

			assert.Equal(t, tc.enabled, telemetry.Enabled())

			shutdown, err := telemetry.Setup(t.Context(), "lv2lint", "test")
			require.NoError(t, err)
			require.NotNil(t, shutdown)

			_, isSDK := otel.GetTracerProvider().(*sdktrace.TracerProvider)
			assert.Equal(t, tc.enabled, isSDK)

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			require.NoError(t, shutdown(ctx))
		})
	}
}
