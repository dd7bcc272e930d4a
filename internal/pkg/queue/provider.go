package queue

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// ProviderSet 提供 queue 相关的依赖
var ProviderSet = wire.NewSet(ProvideTaskQueue)

// Conf 任务队列配置
type Conf struct {
	Enable          bool
	Concurrency     int
	LogLevel        string `mapstructure:"logLevel"`
	ShutdownTimeout int    `mapstructure:"shutdownTimeout"`
	MaxRetry        int    `mapstructure:"maxRetry"`
	Priority        map[string]int
}

// ProvideTaskQueue returns nil when the queue is disabled; callers then
// deliver in process.
func ProvideTaskQueue(conf Conf, redisClient redis.UniversalClient) (*TaskQueue, func(), error) {
	if !conf.Enable {
		return nil, func() {}, nil
	}
	q, err := NewTaskQueue(&Config{
		RedisClient:     redisClient,
		Concurrency:     conf.Concurrency,
		Queues:          conf.Priority,
		DefaultQueue:    Default,
		LogLevel:        conf.LogLevel,
		ShutdownTimeout: conf.ShutdownTimeout,
		MaxRetry:        conf.MaxRetry,
	})
	if err != nil {
		return nil, nil, err
	}
	return q, q.Shutdown, nil
}
