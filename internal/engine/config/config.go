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
	"fmt"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/planejaedu/identity/internal/engine/service"
	"github.com/planejaedu/identity/internal/pkg/notify"
	"github.com/planejaedu/identity/internal/pkg/queue"
	"github.com/planejaedu/identity/pkg/cache"
	"github.com/planejaedu/identity/pkg/database"
	"github.com/planejaedu/identity/pkg/http"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/planejaedu/identity/pkg/ratelimit"
	"github.com/planejaedu/identity/pkg/trace"
	"github.com/spf13/viper"
)

// EnvPrefix 环境变量前缀, e.g. IDENTITY_AUTH_SECRETKEY
const EnvPrefix = "IDENTITY"

const minSecretLen = 32

type AppConfig struct {
	Log       log.Conf
	Http      http.Http
	Auth      http.Auth
	Database  database.Database
	Redis     cache.Redis
	RateLimit ratelimit.Conf `mapstructure:"rateLimit"`
	Notify    notify.Conf
	Queue     queue.Conf
	Debug     DebugConf
	Trace     trace.Conf
	Bootstrap service.SeedConf
}

// DebugConf 运维监听：/metrics 以及可选的 /debug/pprof，不经过对外 API
type DebugConf struct {
	Enable bool
	Host   string
	Port   int
	Pprof  bool
}

func (d *DebugConf) SetDefaults() {
	if d.Host == "" {
		d.Host = "127.0.0.1"
	}
	if d.Port == 0 {
		d.Port = 9090
	}
}

var mu sync.RWMutex

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.output", "stdout")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.path", "./logs")
	v.SetDefault("log.filename", "identity.log")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.contextPath", "/api/v1")
	v.SetDefault("http.accessLog", true)

	v.SetDefault("auth.secretKey", "")
	v.SetDefault("auth.issuer", "identity")
	v.SetDefault("auth.accessExpire", "15m")
	v.SetDefault("auth.refreshExpire", "168h")
	v.SetDefault("auth.inviteExpire", "24h")
	v.SetDefault("auth.bcryptCost", 10)

	v.SetDefault("database.type", "mysql")
	v.SetDefault("database.autoMigrate", true)

	v.SetDefault("redis.mode", "single")
	v.SetDefault("redis.address", "127.0.0.1:6379")
	v.SetDefault("redis.password", "")

	v.SetDefault("rateLimit.mode", ratelimit.ModeRedis)
	v.SetDefault("rateLimit.requests", 100)
	v.SetDefault("rateLimit.window", "1m")

	v.SetDefault("notify.enable", false)
	v.SetDefault("queue.enable", false)
	v.SetDefault("debug.enable", false)
	v.SetDefault("debug.pprof", false)
	v.SetDefault("trace.enabled", false)

	v.SetDefault("bootstrap.adminEmail", "")
	v.SetDefault("bootstrap.adminPassword", "")
}

// LoadConfigFile load config file, environment variables override file values.
// Changes to the file re-apply the log level of the running process.
func LoadConfigFile(confFile string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(confFile) // 文件名
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read configuration file: %w", err)
	}

	cfg := new(AppConfig)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		reloaded := new(AppConfig)
		if err := v.Unmarshal(reloaded); err != nil {
			log.Warnw("config reload failed", "path", e.Name, "error", err)
			return
		}
		mu.Lock()
		cfg.Log.Level = reloaded.Log.Level
		mu.Unlock()
		log.SetLevel(reloaded.Log.Level)
		log.Infow("config reloaded", "path", e.Name, "level", reloaded.Log.Level)
	})
	v.WatchConfig()

	log.Infow("config file loaded",
		"path", confFile,
	)
	return cfg, nil
}

// SetDefaults fills the sections whose zero values are not usable.
func (c *AppConfig) SetDefaults() {
	c.Http.SetDefaults()
	c.Auth.SetDefaults()
	c.RateLimit.SetDefaults()
	c.Debug.SetDefaults()
	c.Trace.SetDefaults()
}

// Validate rejects configurations the service cannot start with.
func (c *AppConfig) Validate() error {
	if len(c.Auth.SecretKey) < minSecretLen {
		return fmt.Errorf("auth.secretKey must be at least %d characters", minSecretLen)
	}
	if c.Auth.AccessExpire <= 0 || c.Auth.RefreshExpire <= 0 || c.Auth.InviteExpire <= 0 {
		return fmt.Errorf("auth expirations must be positive")
	}
	if c.Auth.RefreshExpire <= c.Auth.AccessExpire {
		return fmt.Errorf("auth.refreshExpire must exceed auth.accessExpire")
	}
	switch c.Database.Type {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database type: %q", c.Database.Type)
	}
	if c.Redis.Address == "" {
		return fmt.Errorf("redis.address is required")
	}
	if c.Bootstrap.AdminEmail != "" && c.Bootstrap.AdminPassword == "" {
		return fmt.Errorf("bootstrap.adminPassword is required with bootstrap.adminEmail")
	}
	return c.Log.Validate()
}

// LogLevel returns the level currently in effect, including reloads.
func (c *AppConfig) LogLevel() string {
	mu.RLock()
	defer mu.RUnlock()
	return c.Log.Level
}
