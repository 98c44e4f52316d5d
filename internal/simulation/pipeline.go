package simulation

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"

	"RollDice/internal/dice"
	"RollDice/pkg/metrics"
)

// 模拟请求的固定画像，对应一次假想的 GET /roll-dice 调用
const (
	Endpoint      = "GET /roll-dice"
	Route         = "/roll-dice"
	ResponseBytes = 42
)

// RollResult 一次模拟请求的结果
type RollResult struct {
	RequestID  int64
	Roll       int
	StatusCode int
	Duration   time.Duration
}

// Pipeline 按固定顺序为一次模拟请求产出三个 span：
// server（入口）→ internal（本地计算）→ client（外部依赖调用）
// 子 span 先于父 span 关闭，嵌套关系靠严格的顺序执行保证
type Pipeline struct {
	tc     *TracingContext
	roller *dice.Roller

	// Sleep 可注入，测试里替换掉避免真实等待
	Sleep func(time.Duration)
}

// NewPipeline 创建管线
func NewPipeline(tc *TracingContext, roller *dice.Roller) *Pipeline {
	return &Pipeline{
		tc:     tc,
		roller: roller,
		Sleep:  time.Sleep,
	}
}

// ProcessRequest 处理一次模拟请求
// server span 通过 defer 关闭，任何提前返回的路径上它也一定会 End
func (p *Pipeline) ProcessRequest(ctx context.Context, requestID int64) RollResult {
	start := time.Now()

	m := metrics.GetMetrics()
	if m != nil {
		m.AddActiveRequest(ctx)
		defer m.SubtractActiveRequest(ctx)
	}

	// 1. 入口 server span，它是本次请求内所有 span 的隐式父亲
	serverCtx, serverSpan := p.tc.StartSpan(ctx, Endpoint, trace.SpanKindServer,
		semconv.HTTPMethod("GET"),
		semconv.HTTPScheme("http"),
		semconv.HTTPTarget(Route),
		semconv.HTTPRoute(Route),
		attribute.String("http.host", "localhost:8080"),
		attribute.String("http.user_agent", "curl/7.68.0"),
		attribute.Int("http.request_content_length", 0),
		semconv.NetHostName("localhost"),
		semconv.NetHostPort(8080),
		attribute.Int64("request.id", requestID),
		attribute.String("run.id", p.tc.RunID()),
	)
	defer serverSpan.End()

	// 2 + 3. internal 子 span（本地计算）和 client 子 span（外部依赖调用）
	roll := p.SimulateWork(serverCtx)

	// 4. 回填结果属性后结束 server span（由 defer 执行）
	// server span 结束即定稿，交给批处理器排队导出，之后不再变更
	serverSpan.SetAttributes(
		semconv.HTTPStatusCode(200),
		attribute.Int("http.response_content_length", ResponseBytes),
	)
	serverSpan.SetStatus(codes.Ok, "HTTP success")

	duration := time.Since(start)
	if m != nil {
		m.RecordRequest(ctx, Route, 200, duration.Seconds())
	}

	return RollResult{
		RequestID:  requestID,
		Roll:       roll,
		StatusCode: 200,
		Duration:   duration,
	}
}

// SimulateWork 在 ctx 携带的入口 span 下依次执行两个子 span：
// 先是本地计算（internal），后是数据库外呼（client），两者都完整关闭后才返回
// HTTP 模式下由 handler 在中间件建立的 server span 下调用
func (p *Pipeline) SimulateWork(ctx context.Context) int {
	m := metrics.GetMetrics()

	roll := p.rollDice(ctx, m)
	p.queryDatabase(ctx)

	return roll
}

// rollDice 开一个 internal 子 span，模拟 50~150ms 的本地计算并掷骰
func (p *Pipeline) rollDice(ctx context.Context, m *metrics.OTelMetrics) int {
	rollCtx, span := p.tc.StartSpan(ctx, "roll_dice", trace.SpanKindInternal)
	defer span.End()

	workStart := time.Now()
	p.Sleep(time.Duration(p.roller.Jitter(50, 100)) * time.Millisecond)

	result := p.roller.Roll()
	span.SetAttributes(attribute.Int("dice.result", result))

	if m != nil {
		m.RecordRoll(rollCtx, result, time.Since(workStart).Seconds())
	}

	return result
}

// queryDatabase 开一个 client 子 span，模拟 20~70ms 的数据库写入
// 只是模拟：不建立任何真实连接，属性按 semconv 填出外呼目标的画像
func (p *Pipeline) queryDatabase(ctx context.Context) {
	_, span := p.tc.StartSpan(ctx, "postgresql.query", trace.SpanKindClient,
		semconv.DBSystemPostgreSQL,
		semconv.DBName("dice_db"),
		semconv.DBOperation("INSERT"),
		semconv.DBStatement("INSERT INTO rolls (value) VALUES ($1)"),
		semconv.NetPeerName("db.example.com"),
		semconv.NetPeerPort(5432),
	)
	defer span.End()

	p.Sleep(time.Duration(p.roller.Jitter(20, 50)) * time.Millisecond)
}
