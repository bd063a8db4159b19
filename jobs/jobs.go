package jobs

import (
	"time"

	"github.com/hibiken/asynq"

	"planner-api/core/cache"
	"planner-api/core/config"
	"planner-api/core/database"
	"planner-api/core/logger"
	syncmodule "planner-api/modules/sync"
	syncrepo "planner-api/modules/sync/repository"
	taskmodule "planner-api/modules/task"
)

// Periodic schedules, in UTC.
const (
	digestSchedule    = "@every 6h"
	rolloverSchedule  = "0 0 * * *"
	heartbeatSchedule = "@every 60s"
	syncSchedule      = "@every 15m"
)

// Runner owns the queue worker and the periodic scheduler.
type Runner struct {
	server    *asynq.Server
	scheduler *asynq.Scheduler
	mux       *asynq.ServeMux
}

func NewRunner(db database.IDatabase, c cache.Cache, redisCfg config.RedisConfig) *Runner {
	redisOpt := asynq.RedisClientOpt{
		Addr:     redisCfg.Addr,
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	}

	server := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: 5,
		Queues: map[string]int{
			"default": 5,
		},
	})

	utc := time.UTC
	scheduler := asynq.NewScheduler(redisOpt, &asynq.SchedulerOpts{Location: utc})

	mux := asynq.NewServeMux()
	mux.Handle(TypeDailyDigest, NewDigestHandler(db))
	mux.Handle(TypeTaskRollover, NewRolloverHandler(taskmodule.NewService(db)))
	mux.Handle(TypeHeartbeat, NewHeartbeatHandler(c))
	mux.Handle(TypeCalendarSync, NewCalendarSyncHandler(
		syncmodule.NewService(db),
		syncrepo.NewIntegrationRepository(db)))

	return &Runner{server: server, scheduler: scheduler, mux: mux}
}

// Start registers the periodic entries and launches the worker and the
// scheduler. Both run until Shutdown.
func (r *Runner) Start() error {
	entries := []struct {
		spec string
		task *asynq.Task
	}{
		{digestSchedule, asynq.NewTask(TypeDailyDigest, nil)},
		{rolloverSchedule, asynq.NewTask(TypeTaskRollover, nil)},
		{heartbeatSchedule, asynq.NewTask(TypeHeartbeat, nil)},
		{syncSchedule, asynq.NewTask(TypeCalendarSync, nil)},
	}
	for _, entry := range entries {
		if _, err := r.scheduler.Register(entry.spec, entry.task); err != nil {
			return err
		}
	}

	if err := r.server.Start(r.mux); err != nil {
		return err
	}
	if err := r.scheduler.Start(); err != nil {
		r.server.Shutdown()
		return err
	}

	logger.Info("jobs_started", "entries", len(entries))
	return nil
}

func (r *Runner) Shutdown() {
	r.scheduler.Shutdown()
	r.server.Shutdown()
	logger.Info("jobs_stopped")
}
