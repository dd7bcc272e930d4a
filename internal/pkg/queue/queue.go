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

package queue

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/hibiken/asynq"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/redis/go-redis/v9"
)

// TaskQueue 基于 asynq 的任务队列，用于异步投递通知等后台任务
type TaskQueue struct {
	client   *asynq.Client
	server   *asynq.Server
	mux      *asynq.ServeMux
	config   *Config
	handlers map[string]TaskHandler
}

// Config queue 配置
type Config struct {
	RedisClient     redis.UniversalClient // 复用已有的 Redis 客户端
	Concurrency     int                   // 并发处理数
	Queues          map[string]int        // 队列名 -> 优先级权重
	DefaultQueue    string                // 默认队列名称
	LogLevel        string                // debug, info, warn, error
	ShutdownTimeout int                   // 关闭超时时间（秒）
	MaxRetry        int                   // 默认重试次数
}

// TaskHandler 任务处理器接口，payload 为入队时的 JSON
type TaskHandler interface {
	HandleTask(ctx context.Context, payload []byte) error
}

// TaskHandlerFunc 任务处理器函数类型
type TaskHandlerFunc func(ctx context.Context, payload []byte) error

func (f TaskHandlerFunc) HandleTask(ctx context.Context, payload []byte) error {
	return f(ctx, payload)
}

// 队列名称常量
const (
	Critical = "critical"
	Default  = "default"
	Low      = "low"
)

func defaultQueues() map[string]int {
	return map[string]int{
		Critical: 6,
		Default:  3,
		Low:      1,
	}
}

// NewTaskQueue 创建任务队列
func NewTaskQueue(cfg *Config) (*TaskQueue, error) {
	if cfg == nil {
		return nil, fmt.Errorf("queue config is required")
	}
	if cfg.RedisClient == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	redisOpt := &redisConnOptWrapper{client: cfg.RedisClient}

	if len(cfg.Queues) == 0 {
		cfg.Queues = defaultQueues()
	}
	if cfg.DefaultQueue == "" {
		cfg.DefaultQueue = Default
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 10
	}
	if cfg.MaxRetry <= 0 {
		cfg.MaxRetry = 5
	}

	logLevel := asynq.InfoLevel
	if cfg.LogLevel != "" {
		if err := logLevel.Set(cfg.LogLevel); err != nil {
			log.Warnw("invalid log level, using default info", "logLevel", cfg.LogLevel, "error", err)
			logLevel = asynq.InfoLevel
		}
	}

	shutdownTimeout := 10 * time.Second
	if cfg.ShutdownTimeout > 0 {
		shutdownTimeout = time.Duration(cfg.ShutdownTimeout) * time.Second
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:     cfg.Concurrency,
		Queues:          cfg.Queues,
		Logger:          newAsynqLogger(log.GetLogger),
		LogLevel:        logLevel,
		RetryDelayFunc:  asynq.DefaultRetryDelayFunc,
		ShutdownTimeout: shutdownTimeout,
	})

	q := &TaskQueue{
		client:   asynq.NewClient(redisOpt),
		server:   server,
		mux:      asynq.NewServeMux(),
		config:   cfg,
		handlers: make(map[string]TaskHandler),
	}

	log.Infow("asynq task queue created",
		"concurrency", cfg.Concurrency,
		"queues", cfg.Queues,
	)
	return q, nil
}

// RegisterHandler 注册任务处理器
func (q *TaskQueue) RegisterHandler(taskType string, handler TaskHandler) {
	q.handlers[taskType] = handler

	q.mux.HandleFunc(taskType, func(ctx context.Context, t *asynq.Task) error {
		log.Debugw("processing task", "task_type", t.Type())
		if err := handler.HandleTask(ctx, t.Payload()); err != nil {
			log.Warnw("task failed", "task_type", t.Type(), "error", err)
			return err
		}
		return nil
	})

	log.Infow("task handler registered", "task_type", taskType)
}

// Enqueue 入队任务，payload 以 JSON 编码
func (q *TaskQueue) Enqueue(ctx context.Context, taskType string, payload any) error {
	data, err := sonic.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal task payload: %w", err)
	}

	task := asynq.NewTask(taskType, data)
	info, err := q.client.EnqueueContext(ctx, task,
		asynq.Queue(q.config.DefaultQueue),
		asynq.MaxRetry(q.config.MaxRetry),
	)
	if err != nil {
		return fmt.Errorf("enqueue task: %w", err)
	}

	log.Debugw("task enqueued",
		"task_type", taskType,
		"queue", info.Queue,
		"asynq_task_id", info.ID,
	)
	return nil
}

// Start 启动任务队列服务器，立即返回
func (q *TaskQueue) Start() error {
	log.Info("starting task queue server")
	return q.server.Start(q.mux)
}

// Shutdown 关闭任务队列服务器与客户端
func (q *TaskQueue) Shutdown() {
	log.Info("shutting down task queue server")
	q.server.Shutdown()

	if err := q.client.Close(); err != nil {
		log.Warnw("error closing asynq client", "error", err)
	}
}

// redisConnOptWrapper 包装已有的 Redis 客户端实现 RedisConnOpt 接口
type redisConnOptWrapper struct {
	client redis.UniversalClient
}

// MakeRedisClient 实现 RedisConnOpt 接口
func (r *redisConnOptWrapper) MakeRedisClient() interface{} {
	return r.client
}
