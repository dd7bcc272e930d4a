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

package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// ICache is the credential store: a key-value store with per-key TTL.
// GetDel is the only primitive that may be used to consume single-use
// entries, it reads and removes a key in one step.
type ICache interface {
	// Get 获取缓存值
	Get(ctx context.Context, key string) *redis.StringCmd
	// Set 设置缓存值
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	// GetDel 原子读取并删除
	GetDel(ctx context.Context, key string) *redis.StringCmd
	// Del 删除缓存，返回实际删除的 key 数量
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	// TTL 剩余过期时间
	TTL(ctx context.Context, key string) *redis.DurationCmd
	// Incr 计数器自增
	Incr(ctx context.Context, key string) *redis.IntCmd
	// Expire 设置过期时间
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	// TxPipeline 创建事务管道
	TxPipeline() redis.Pipeliner
}
