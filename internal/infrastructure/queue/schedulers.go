package queue

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"trailguide-backend/internal/config"
	"trailguide-backend/internal/shared"
	"trailguide-backend/pkg/logger"
)

type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	return s.registerExpireOverdueReviewsJob()
}

// ================================================
// JOB: Expire Overdue Reviews (hourly by default)
// ================================================
// The sweep is the authoritative expiration path; submission also checks
// the deadline lazily, so the cadence only bounds how stale a draft's
// stored status can be.
func (s *Scheduler) registerExpireOverdueReviewsJob() error {
	payload, err := json.Marshal(shared.ExpireOverdueReviewsPayload{})
	if err != nil {
		return err
	}

	task := asynq.NewTask(shared.TypeExpireOverdueReviews, payload)

	_, err = s.scheduler.Register(
		s.jobConfig.ExpireSweepCron,
		task,
		asynq.Queue(shared.QueueReview),
		asynq.MaxRetry(2),
		asynq.Timeout(5*time.Minute),
	)

	if err != nil {
		logger.Error("Failed to register ExpireOverdueReviews job", err)
		return err
	}

	logger.Info("✓ Registered ExpireOverdueReviews", map[string]interface{}{
		"cron": s.jobConfig.ExpireSweepCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
