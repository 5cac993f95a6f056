package main

import (
	"catalog-backend/internal/domains/category/model"
	"catalog-backend/internal/infrastructure/queue"
	"catalog-backend/pkg/container"

	"github.com/rs/zerolog/log"
)

// asynqScheduler wraps queue.Scheduler; nil khi snapshot tắt
type asynqScheduler struct {
	*queue.Scheduler
}

func setupScheduler(c *container.Container) *asynqScheduler {
	if c.CategorySnapshotHandler == nil {
		log.Info().Msg("[Scheduler] Snapshot disabled, scheduler not started")
		return nil
	}

	scope, err := model.ParseTreeScope(c.Config.Snapshot.Scope)
	if err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Invalid SNAPSHOT_SCOPE")
	}

	scheduler := queue.NewScheduler(c.RedisClientOpt())
	if err := scheduler.RegisterSnapshotJob(c.Config.Snapshot.Cron, scope); err != nil {
		log.Fatal().Err(err).Msg("[Scheduler] Failed to register")
	}

	go func() {
		log.Info().Msg("[Scheduler] Starting...")
		if err := scheduler.Start(); err != nil {
			log.Fatal().Err(err).Msg("[Scheduler] Failed")
		}
	}()

	return &asynqScheduler{Scheduler: scheduler}
}

func (s *asynqScheduler) Shutdown() {
	if s == nil {
		return
	}
	log.Info().Msg("[Scheduler] Shutting down...")
	s.Scheduler.Shutdown()
	log.Info().Msg("[Scheduler] Stopped")
}
