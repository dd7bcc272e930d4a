package guard

import (
	"github.com/google/wire"
	"github.com/planejaedu/identity/internal/engine/service"
	"github.com/planejaedu/identity/pkg/cache"
	"github.com/planejaedu/identity/pkg/metrics"
	"github.com/planejaedu/identity/pkg/ratelimit"
)

// ProviderSet 提供请求管道相关的依赖
var ProviderSet = wire.NewSet(
	DefaultRegistry,
	ProvideLimiter,
	ProvidePipeline,
)

// ProvideLimiter 按配置创建限流器
func ProvideLimiter(conf ratelimit.Conf, c cache.ICache) (ratelimit.Limiter, error) {
	return ratelimit.New(conf, c, RateLimitKey)
}

// ProvidePipeline 组装请求管道，token 服务作为认证器
func ProvidePipeline(registry *Registry, tokens *service.TokenService, limiter ratelimit.Limiter, m *metrics.IdentityMetrics) *Pipeline {
	return NewPipeline(registry, tokens, limiter, m)
}
