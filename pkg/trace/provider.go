package trace

import (
	"context"

	"github.com/google/wire"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ProviderSet 提供 trace 相关的依赖
var ProviderSet = wire.NewSet(ProvideTracerProvider)

// ProvideTracerProvider 初始化全局 TracerProvider，cleanup 刷新并关闭
func ProvideTracerProvider(conf Conf) (*sdktrace.TracerProvider, func(), error) {
	return InitTracerProvider(context.Background(), conf)
}
