// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"github.com/google/wire"
	"github.com/planejaedu/identity/internal/engine/service"
	"github.com/planejaedu/identity/internal/pkg/notify"
	"github.com/planejaedu/identity/internal/pkg/queue"
	"github.com/planejaedu/identity/pkg/cache"
	"github.com/planejaedu/identity/pkg/database"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/planejaedu/identity/pkg/ratelimit"
	"github.com/planejaedu/identity/pkg/trace"
)

// ProviderSet 提供配置层相关的依赖
var ProviderSet = wire.NewSet(
	ProvideConf,
	ProvideHttpConfig,
	ProvideAuthConfig,
	ProvideLogConfig,
	ProvideDatabaseConfig,
	ProvideRedisConfig,
	ProvideRateLimitConfig,
	ProvideNotifyConfig,
	ProvideQueueConfig,
	ProvideTraceConfig,
	ProvideSeedConfig,
)

// ProvideConf 提供应用配置
func ProvideConf(configPath string) (*AppConfig, error) {
	return LoadConfigFile(configPath)
}

// ProvideHttpConfig 提供 HTTP 配置
func ProvideHttpConfig(appConf *AppConfig) *http.Http {
	return &appConf.Http
}

// ProvideAuthConfig 提供凭证配置
func ProvideAuthConfig(appConf *AppConfig) http.Auth {
	return appConf.Auth
}

// ProvideLogConfig 提供日志配置
func ProvideLogConfig(appConf *AppConfig) *log.Conf {
	return &appConf.Log
}

// ProvideDatabaseConfig 提供数据库配置
func ProvideDatabaseConfig(appConf *AppConfig) database.Database {
	return appConf.Database
}

// ProvideRedisConfig 提供 Redis 配置
func ProvideRedisConfig(appConf *AppConfig) cache.Redis {
	return appConf.Redis
}

func ProvideRateLimitConfig(appConf *AppConfig) ratelimit.Conf {
	return appConf.RateLimit
}

func ProvideNotifyConfig(appConf *AppConfig) notify.Conf {
	return appConf.Notify
}

func ProvideQueueConfig(appConf *AppConfig) queue.Conf {
	return appConf.Queue
}

// ProvideSeedConfig 提供初始化数据配置
func ProvideSeedConfig(appConf *AppConfig) service.SeedConf {
	return appConf.Bootstrap
}

// ProvideTraceConfig 提供链路追踪配置
func ProvideTraceConfig(appConf *AppConfig) trace.Conf {
	return appConf.Trace
}
