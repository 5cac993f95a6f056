package queue

import (
	"encoding/json"
	"time"

	"catalog-backend/internal/domains/category/model"
	"catalog-backend/pkg/logger"

	"github.com/hibiken/asynq"
)

// Scheduler enqueue các task định kỳ theo cron (giờ UTC)
type Scheduler struct {
	scheduler *asynq.Scheduler
}

func NewScheduler(opt asynq.RedisClientOpt) *Scheduler {
	scheduler := asynq.NewScheduler(
		opt,
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{scheduler: scheduler}
}

// RegisterSnapshotJob: export cây category theo scope và lưu lên object storage
func (s *Scheduler) RegisterSnapshotJob(cronspec string, scope model.TreeScope) error {
	payload, err := json.Marshal(model.SnapshotPayload{Scope: scope})
	if err != nil {
		return err
	}

	task := asynq.NewTask(model.TypeCategorySnapshot, payload)

	entryID, err := s.scheduler.Register(
		cronspec,
		task,
		asynq.Queue(QueueLow),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
		// 2 lần trigger trùng nhau (vd worker restart) chỉ chạy 1
		asynq.Unique(time.Hour),
	)
	if err != nil {
		logger.Error("Failed to register category snapshot job", err)
		return err
	}

	logger.Info("Registered category snapshot job", map[string]interface{}{
		"entry_id": entryID,
		"cron":     cronspec,
		"scope":    scope,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
