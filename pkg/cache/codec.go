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
	"errors"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent or already expired.
var ErrCacheMiss = errors.New("cache: key not found")

// SetJSON stores v encoded as JSON under key with the given TTL.
func SetJSON(ctx context.Context, c ICache, key string, v any, ttl time.Duration) error {
	data, err := sonic.MarshalString(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.Set(ctx, key, data, ttl).Err()
}

// GetJSON decodes the value under key into v without removing it.
func GetJSON(ctx context.Context, c ICache, key string, v any) error {
	return decode(c.Get(ctx, key), v)
}

// GetDelJSON consumes the value under key and decodes it into v.
// Of several concurrent callers on the same key exactly one gets the value,
// the rest get ErrCacheMiss.
func GetDelJSON(ctx context.Context, c ICache, key string, v any) error {
	return decode(c.GetDel(ctx, key), v)
}

// RemainingTTL returns the time to live of key, or zero when the key is
// absent or has no expiry.
func RemainingTTL(ctx context.Context, c ICache, key string) (time.Duration, error) {
	ttl, err := c.TTL(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if ttl < 0 {
		return 0, nil
	}
	return ttl, nil
}

func decode(cmd *redis.StringCmd, v any) error {
	data, err := cmd.Result()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err := sonic.UnmarshalString(data, v); err != nil {
		return fmt.Errorf("unmarshal cache value: %w", err)
	}
	return nil
}
