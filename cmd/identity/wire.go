//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"
	"github.com/planejaedu/identity/internal/engine/bootstrap"
	"github.com/planejaedu/identity/internal/engine/config"
	"github.com/planejaedu/identity/internal/engine/guard"
	"github.com/planejaedu/identity/internal/engine/repo"
	"github.com/planejaedu/identity/internal/engine/router"
	"github.com/planejaedu/identity/internal/engine/service"
	"github.com/planejaedu/identity/internal/pkg/notify"
	"github.com/planejaedu/identity/internal/pkg/queue"
	"github.com/planejaedu/identity/pkg/cache"
	"github.com/planejaedu/identity/pkg/database"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/planejaedu/identity/pkg/metrics"
	"github.com/planejaedu/identity/pkg/trace"
)

func initApp(configPath string) (*bootstrap.App, func(), error) {
	panic(wire.Build(
		// 配置层
		config.ProviderSet,
		log.ProviderSet,
		// 基础设施
		cache.ProviderSet,
		database.ProviderSet,
		queue.ProviderSet,
		notify.ProviderSet,
		metrics.ProviderSet,
		trace.ProviderSet,
		// 仓储层
		repo.ProviderSet,
		// 服务层
		service.ProviderSet,
		// 请求管道
		guard.ProviderSet,
		// 路由层
		router.ProviderSet,
		// 应用层
		bootstrap.NewApp,
	))
}
