package otel

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

func TestNewResourceCarriesServiceIdentity(t *testing.T) {
	res, err := NewResource(context.Background(), Config{
		ServiceName:    "rolldice",
		ServiceVersion: "1.0.0",
		Environment:    "local",
	})
	require.NoError(t, err)

	attrs := make(map[string]string)
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}

	assert.Equal(t, "rolldice", attrs[string(semconv.ServiceNameKey)])
	assert.Equal(t, "1.0.0", attrs[string(semconv.ServiceVersionKey)])
	assert.Equal(t, "local", attrs[string(semconv.DeploymentEnvironmentKey)])
}

func TestTrimScheme(t *testing.T) {
	assert.Equal(t, "otlp.example.com:4317", trimScheme("https://otlp.example.com:4317"))
	assert.Equal(t, "localhost:4317", trimScheme("http://localhost:4317"))
	assert.Equal(t, "localhost:4317", trimScheme("localhost:4317"))
}
