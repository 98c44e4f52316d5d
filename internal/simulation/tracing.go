package simulation

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	pkgotel "RollDice/pkg/otel"
)

// TracingContext 显式传递的 tracing 句柄
// 持有 TracerProvider（连同它的批处理器和 Resource），代替通过全局状态取 tracer：
// 一个进程仍然只有一个 provider，只是归属关系在调用点可见
type TracingContext struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
	shutdown pkgotel.ShutdownFunc
	runID    string

	closeOnce sync.Once
	closed    chan struct{}
}

// NewTracingContext 构建完整的 tracing 句柄（OTLP exporter + 批处理器 + Resource）
func NewTracingContext(ctx context.Context, cfg pkgotel.Config) (*TracingContext, error) {
	tp, shutdown, err := pkgotel.InitOpenTelemetry(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return newTracingContext(tp, shutdown, cfg.ServiceName, cfg.ServiceVersion), nil
}

// NewTracingContextWithProvider 用现成的 provider 构建句柄
// 测试里配合 tracetest 的内存 exporter 使用
func NewTracingContextWithProvider(tp *sdktrace.TracerProvider) *TracingContext {
	return newTracingContext(tp, tp.Shutdown, "rolldice", "")
}

func newTracingContext(tp *sdktrace.TracerProvider, shutdown pkgotel.ShutdownFunc, name, version string) *TracingContext {
	return &TracingContext{
		provider: tp,
		tracer:   tp.Tracer(name, trace.WithInstrumentationVersion(version)),
		shutdown: shutdown,
		runID:    uuid.NewString(),
		closed:   make(chan struct{}),
	}
}

// RunID 返回本次进程运行的标识，附加在每个根 span 上
func (tc *TracingContext) RunID() string {
	return tc.runID
}

// StartSpan 开启一个 span
// 父子关系通过传入的 ctx 显式建立：ctx 里带着的 span 就是新 span 的父亲，
// 调用方必须保证在所有退出路径上 End 返回的 span
// Shutdown 之后再调用会返回惰性的非记录 span，不报错
func (tc *TracingContext) StartSpan(ctx context.Context, name string, kind trace.SpanKind, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	select {
	case <-tc.closed:
		return noop.NewTracerProvider().Tracer("rolldice").Start(ctx, name)
	default:
	}

	return tc.tracer.Start(ctx, name,
		trace.WithSpanKind(kind),
		trace.WithAttributes(attrs...),
	)
}

// ForceFlush 同步排空批处理器缓冲，受传入 ctx 的超时约束
func (tc *TracingContext) ForceFlush(ctx context.Context) error {
	return tc.provider.ForceFlush(ctx)
}

// Shutdown 刷新缓冲并关闭 provider
// 幂等：第二次调用是 no-op，直接返回 nil
func (tc *TracingContext) Shutdown(ctx context.Context) error {
	var err error
	tc.closeOnce.Do(func() {
		close(tc.closed)
		err = tc.shutdown(ctx)
	})
	return err
}
