package main

import (
	"github.com/hibiken/asynq"

	reviewJob "trailguide-backend/internal/domains/review/job"
	notificationJob "trailguide-backend/internal/notification/job"
	"trailguide-backend/internal/shared"
	"trailguide-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	expireSweep *reviewJob.ExpireSweepHandler
	dispatch    *notificationJob.DispatchHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	return &HandlerRegistry{
		expireSweep: reviewJob.NewExpireSweepHandler(c.ReviewService),
		dispatch: notificationJob.NewDispatchHandler(
			c.Config.Notify.WebhookURL,
			c.Config.Notify.Timeout,
		),
	}
}

// RegisterHandlers registers all handlers with the mux
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.HandleFunc(shared.TypeExpireOverdueReviews, h.expireSweep.ProcessTask)
	mux.HandleFunc(shared.TypeDispatchNotification, h.dispatch.ProcessTask)
}
