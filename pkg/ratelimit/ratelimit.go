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

package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/planejaedu/identity/pkg/cache"
)

const (
	ModeRedis = "redis"
	ModeLocal = "local"
)

// Conf configures the request budget of one caller identity.
type Conf struct {
	Mode     string
	Requests int
	Window   time.Duration
}

func (c *Conf) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeRedis
	}
	if c.Requests <= 0 {
		c.Requests = 100
	}
	if c.Window <= 0 {
		c.Window = time.Minute
	}
}

// Limiter decides whether identity may spend one more request.
type Limiter interface {
	Allow(ctx context.Context, identity string) (bool, error)
}

// KeyFunc maps a caller identity to the counter key in the shared store.
type KeyFunc func(identity string) string

// New builds the limiter selected by conf.Mode.
func New(conf Conf, c cache.ICache, key KeyFunc) (Limiter, error) {
	conf.SetDefaults()
	switch conf.Mode {
	case ModeRedis:
		if c == nil {
			return nil, fmt.Errorf("redis rate limiter requires a cache")
		}
		return NewRedisLimiter(c, conf.Requests, conf.Window, key), nil
	case ModeLocal:
		return NewLocalLimiter(conf.Requests, conf.Window), nil
	default:
		return nil, fmt.Errorf("unsupported rate limit mode: %s", conf.Mode)
	}
}
