package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func TestShutdownIsIdempotent(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tc := NewTracingContextWithProvider(tp)

	require.NoError(t, tc.Shutdown(context.Background()))
	// 第二次是 no-op，不会 panic 也不会重复关闭 provider
	require.NoError(t, tc.Shutdown(context.Background()))
}

func TestStartSpanAfterShutdownIsInert(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tc := NewTracingContextWithProvider(tp)

	require.NoError(t, tc.Shutdown(context.Background()))

	_, span := tc.StartSpan(context.Background(), "late", trace.SpanKindInternal)
	assert.False(t, span.IsRecording())

	span.End()
	assert.Empty(t, sr.Ended())
}

func TestStartSpanParentsThroughContext(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	tc := NewTracingContextWithProvider(tp)
	t.Cleanup(func() { _ = tc.Shutdown(context.Background()) })

	ctx, parent := tc.StartSpan(context.Background(), "parent", trace.SpanKindServer)
	_, child := tc.StartSpan(ctx, "child", trace.SpanKindInternal)

	child.End()
	parent.End()

	spans := sr.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "child", spans[0].Name())
	assert.Equal(t, parent.SpanContext().SpanID(), spans[0].Parent().SpanID())
}

func TestRunIDIsStable(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	tc := NewTracingContextWithProvider(tp)
	t.Cleanup(func() { _ = tc.Shutdown(context.Background()) })

	assert.NotEmpty(t, tc.RunID())
	assert.Equal(t, tc.RunID(), tc.RunID())
}
