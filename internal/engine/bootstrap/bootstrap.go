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

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/planejaedu/identity/internal/engine/config"
	"github.com/planejaedu/identity/internal/engine/router"
	"github.com/planejaedu/identity/internal/engine/service"
	"github.com/planejaedu/identity/internal/pkg/queue"
	"github.com/planejaedu/identity/pkg/log"
	"github.com/planejaedu/identity/pkg/metrics"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/sync/errgroup"
)

type App struct {
	HttpApp *fiber.App
	Logger  *log.Logger
	Seeder  *service.Seeder
	Queue   *queue.TaskQueue
	Metrics *metrics.Metrics
	Tracer  *sdktrace.TracerProvider
	AppConf *config.AppConfig

	debug *debugServer
}

// InitAppFunc init app function type
type InitAppFunc func(configPath string) (*App, func(), error)

func NewApp(
	rt *router.Router,
	logger *log.Logger,
	seeder *service.Seeder,
	taskQueue *queue.TaskQueue,
	m *metrics.Metrics,
	tracer *sdktrace.TracerProvider,
	appConf *config.AppConfig,
) *App {
	return &App{
		HttpApp: rt.Router(),
		Logger:  logger,
		Seeder:  seeder,
		Queue:   taskQueue,
		Metrics: m,
		Tracer:  tracer,
		AppConf: appConf,
	}
}

// Bootstrap init app, seed the configured tenants and ADMIN, return App and cleanup
func Bootstrap(configFile string, initApp InitAppFunc) (*App, func(), error) {
	// Wire build App (所有依赖都由 wire 自动注入)
	app, cleanup, err := initApp(configFile)
	if err != nil {
		return nil, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := app.Seeder.Seed(ctx); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("seed initial data: %w", err)
	}
	return app, cleanup, nil
}

// Start starts the background components: task queue and the debug listener.
func (app *App) Start() error {
	if app.Queue != nil {
		if err := app.Queue.Start(); err != nil {
			return fmt.Errorf("start task queue: %w", err)
		}
	}
	if app.AppConf != nil && app.AppConf.Debug.Enable {
		app.debug = newDebugServer(app.AppConf.Debug, app.Metrics)
		if err := app.debug.start(); err != nil {
			return err
		}
	}
	return nil
}

// Stop shuts the HTTP and debug listeners down concurrently.
func (app *App) Stop(ctx context.Context) error {
	var g errgroup.Group
	if app.HttpApp != nil {
		g.Go(func() error {
			if err := app.HttpApp.ShutdownWithContext(ctx); err != nil {
				return fmt.Errorf("http server: %w", err)
			}
			return nil
		})
	}
	if app.debug != nil {
		g.Go(func() error {
			if err := app.debug.stop(ctx); err != nil {
				return fmt.Errorf("debug listener: %w", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// Run start app and wait for exit signal, then gracefully shutdown
func Run(app *App, cleanup func()) {
	logger := app.Logger.Log
	httpConf := app.AppConf.Http

	if err := app.Start(); err != nil {
		logger.Errorw("startup failed", "error", err)
		cleanup()
		return
	}

	// set signal listener (graceful shutdown)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	// start HTTP server (async)
	addr := fmt.Sprintf("%s:%d", httpConf.Host, httpConf.Port)
	go func() {
		logger.Infow("HTTP listener started", "address", addr)
		var err error
		if httpConf.TLS.CertFile != "" && httpConf.TLS.KeyFile != "" {
			err = app.HttpApp.ListenTLS(addr, httpConf.TLS.CertFile, httpConf.TLS.KeyFile)
		} else {
			err = app.HttpApp.Listen(addr)
		}
		if err != nil {
			logger.Errorw("HTTP listener failed", "address", addr, "error", err)
			quit <- syscall.SIGTERM
		}
	}()

	// wait for exit signal
	sig := <-quit
	logger.Infof("Received signal: %v, shutting down gracefully...", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), time.Duration(httpConf.ShutdownTimeout)*time.Second)
	defer shutdownCancel()
	if err := app.Stop(shutdownCtx); err != nil {
		logger.Errorw("shutdown error", "error", err)
	} else {
		logger.Info("listeners shut down gracefully")
	}

	// queue, redis, database and the span exporter
	cleanup()

	logger.Info("Server shutdown complete")
}
