package job

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"trailguide-backend/internal/domains/review/service"
	"trailguide-backend/internal/shared"
	"trailguide-backend/pkg/logger"
)

// ExpireSweepHandler runs the scheduled sweep that transitions overdue
// draft reviews to expired.
type ExpireSweepHandler struct {
	reviewService service.ReviewService
}

func NewExpireSweepHandler(reviewService service.ReviewService) *ExpireSweepHandler {
	return &ExpireSweepHandler{
		reviewService: reviewService,
	}
}

func (h *ExpireSweepHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.ExpireOverdueReviewsPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Error("Unmarshal fail due to ", err)
		return err
	}

	now := time.Now()
	log.Info().
		Time("sweep_time", now).
		Msg("Starting expiration sweep of overdue reviews")

	expired, err := h.reviewService.ExpireOverdue(ctx, now)
	if err != nil {
		logger.Error("Expiration sweep failed due to ", err)
		return err
	}

	log.Info().
		Int64("reviews_expired", expired).
		Msg("Expiration sweep finished")

	return nil
}
