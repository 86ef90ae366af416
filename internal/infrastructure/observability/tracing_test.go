package observability_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/jhoicas/pos-api/internal/infrastructure/observability"
	"github.com/jhoicas/pos-api/pkg/config"
)

func TestSetupTracing_SinEndpointEsNoop(t *testing.T) {
	tp, shutdown, err := observability.SetupTracing(context.Background(), config.TelemetryConfig{ServiceName: "pos-api"}, "test")
	require.NoError(t, err)

	_, isSDK := tp.(*sdktrace.TracerProvider)
	assert.False(t, isSDK)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetupTracing_ConEndpointUsaSDK(t *testing.T) {
	tp, shutdown, err := observability.SetupTracing(context.Background(), config.TelemetryConfig{
		OTLPEndpoint: "http://127.0.0.1:4318",
		ServiceName:  "pos-api",
	}, "test")
	require.NoError(t, err)

	_, isSDK := tp.(*sdktrace.TracerProvider)
	assert.True(t, isSDK)
	assert.NoError(t, shutdown(context.Background()))
}
