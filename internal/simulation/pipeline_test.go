package simulation

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"RollDice/internal/dice"
)

// newTestPipeline 组装一条挂在内存 recorder 上的管线，Sleep 替换为 no-op
func newTestPipeline(t *testing.T, seed int64) (*Pipeline, *tracetest.SpanRecorder, *TracingContext) {
	t.Helper()

	res, err := resource.New(context.Background(),
		resource.WithAttributes(
			semconv.ServiceName("rolldice-test"),
			semconv.DeploymentEnvironment("local"),
		),
	)
	require.NoError(t, err)

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sr),
		sdktrace.WithResource(res),
	)

	tc := NewTracingContextWithProvider(tp)
	t.Cleanup(func() {
		_ = tc.Shutdown(context.Background())
	})

	p := NewPipeline(tc, dice.NewRoller(rand.New(rand.NewSource(seed))))
	p.Sleep = func(time.Duration) {}

	return p, sr, tc
}

func attrValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func spansByKind(spans []sdktrace.ReadOnlySpan) map[trace.SpanKind][]sdktrace.ReadOnlySpan {
	byKind := make(map[trace.SpanKind][]sdktrace.ReadOnlySpan)
	for _, s := range spans {
		byKind[s.SpanKind()] = append(byKind[s.SpanKind()], s)
	}
	return byKind
}

func TestProcessRequestEmitsSpanTriple(t *testing.T) {
	p, sr, _ := newTestPipeline(t, 1)

	result := p.ProcessRequest(context.Background(), 12345)

	spans := sr.Ended()
	require.Len(t, spans, 3)

	byKind := spansByKind(spans)
	require.Len(t, byKind[trace.SpanKindServer], 1)
	require.Len(t, byKind[trace.SpanKindInternal], 1)
	require.Len(t, byKind[trace.SpanKindClient], 1)

	server := byKind[trace.SpanKindServer][0]
	internal := byKind[trace.SpanKindInternal][0]
	client := byKind[trace.SpanKindClient][0]

	assert.Equal(t, Endpoint, server.Name())
	assert.Equal(t, "roll_dice", internal.Name())
	assert.Equal(t, "postgresql.query", client.Name())

	// 两个子 span 都直接挂在 server span 下面
	assert.Equal(t, server.SpanContext().SpanID(), internal.Parent().SpanID())
	assert.Equal(t, server.SpanContext().SpanID(), client.Parent().SpanID())
	assert.Equal(t, server.SpanContext().TraceID(), internal.SpanContext().TraceID())
	assert.Equal(t, server.SpanContext().TraceID(), client.SpanContext().TraceID())

	// 掷骰结果回填在 internal span 上，且和返回值一致
	v, ok := attrValue(internal.Attributes(), "dice.result")
	require.True(t, ok)
	assert.Equal(t, int64(result.Roll), v.AsInt64())
	assert.GreaterOrEqual(t, result.Roll, 1)
	assert.LessOrEqual(t, result.Roll, 6)

	// request.id 和 run.id 记录在 server span 上
	id, ok := attrValue(server.Attributes(), "request.id")
	require.True(t, ok)
	assert.Equal(t, int64(12345), id.AsInt64())

	_, ok = attrValue(server.Attributes(), "run.id")
	assert.True(t, ok)

	// 结束时回填的结果属性
	status, ok := attrValue(server.Attributes(), "http.status_code")
	require.True(t, ok)
	assert.Equal(t, int64(200), status.AsInt64())
	assert.Equal(t, 200, result.StatusCode)
}

func TestProcessRequestChildSpansNestInParentInterval(t *testing.T) {
	p, sr, _ := newTestPipeline(t, 2)

	p.ProcessRequest(context.Background(), 1)

	spans := sr.Ended()
	require.Len(t, spans, 3)

	byKind := spansByKind(spans)
	server := byKind[trace.SpanKindServer][0]

	for _, child := range []sdktrace.ReadOnlySpan{
		byKind[trace.SpanKindInternal][0],
		byKind[trace.SpanKindClient][0],
	} {
		// 子 span 的时间区间完整落在父 span 的区间内：父最后关闭
		assert.False(t, child.StartTime().Before(server.StartTime()),
			"%s started before its parent", child.Name())
		assert.False(t, child.EndTime().After(server.EndTime()),
			"%s ended after its parent", child.Name())
	}

	// internal 先于 client 关闭：严格顺序执行
	internal := byKind[trace.SpanKindInternal][0]
	client := byKind[trace.SpanKindClient][0]
	assert.False(t, client.StartTime().Before(internal.EndTime()))
}

func TestProcessRequestResourceStableAcrossSpans(t *testing.T) {
	p, sr, _ := newTestPipeline(t, 3)

	for i := 0; i < 5; i++ {
		p.ProcessRequest(context.Background(), int64(i))
	}

	spans := sr.Ended()
	require.Len(t, spans, 15)

	// 所有 span 共享构建时那一份不可变的 Resource
	first := spans[0].Resource().Attributes()
	for _, s := range spans[1:] {
		assert.Equal(t, first, s.Resource().Attributes())
	}
}
