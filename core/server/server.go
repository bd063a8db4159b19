package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"planner-api/core/cache"
	"planner-api/core/config"
	"planner-api/core/constants"
	"planner-api/core/database"
	"planner-api/core/logger"
	"planner-api/core/middleware"
	"planner-api/jobs"
	"planner-api/modules/channel"
	"planner-api/modules/focus"
	"planner-api/modules/planning"
	"planner-api/modules/sync"
	"planner-api/modules/task"
	"planner-api/modules/timeblock"
)

// Run wires configuration, storage, the HTTP surface, and the background
// queue, then blocks until an interrupt arrives.
func Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel)

	db, err := database.InitDB(cfg.Database)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer db.Close()

	redisCache, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		return fmt.Errorf("init redis: %w", err)
	}
	defer redisCache.Close()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomiddleware.Recover())

	mw := middleware.NewMiddleware(redisCache)
	e.Use(mw.RequestLogger())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	timeblock.Init(e, db, mw)
	task.Init(e, db, mw)
	channel.Init(e, db, mw)
	sync.Init(e, db, mw)
	planning.Init(e, db, mw)
	focus.Init(e, db, mw)

	runner := jobs.NewRunner(db, redisCache, cfg.Redis)
	if err := runner.Start(); err != nil {
		return fmt.Errorf("start jobs: %w", err)
	}
	defer runner.Shutdown()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server stopped", err)
		}
	}()
	logger.Info("server_started", "addr", addr, "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutdown_started")
	ctx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	logger.Info("shutdown_completed")
	return nil
}
