package otel

// Resource 描述产生 telemetry 数据的实体（服务、容器、主机等）
// 这些信息会在 provider 构建时附加一次，之后所有的 spans 和 metrics 共享同一份，
// 构建完成后不可变

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

// NewResource 构建进程级 Resource
// service.name 和 deployment.environment 来自配置，缺省时回退到固定默认值
func NewResource(ctx context.Context, cfg Config) (*resource.Resource, error) {
	return resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			semconv.ServiceVersion(cfg.ServiceVersion),
			semconv.DeploymentEnvironment(cfg.Environment),
			semconv.ServiceNamespace("rolldice"),
			semconv.TelemetrySDKLanguageGo,
		),
		resource.WithHost(),
		resource.WithOSType(),
		resource.WithOSDescription(),
	)
}

// ServiceAttributes 获取服务属性，供 span/metric 级别补充资源信息使用
func ServiceAttributes(serviceName, serviceVersion, environment string) []attribute.KeyValue {
	return []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(serviceVersion),
		semconv.DeploymentEnvironment(environment),
		semconv.ServiceNamespace("rolldice"),
	}
}
