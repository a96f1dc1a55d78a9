package notification

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"

	"trailguide-backend/internal/shared"
	"trailguide-backend/pkg/logger"
)

// Dispatcher hands notification events to the external dispatch
// collaborator. Delivery is fire-and-forget: Notify never fails the
// business operation that triggered it.
type Dispatcher interface {
	Notify(ctx context.Context, payload shared.NotificationPayload)
}

// asynqDispatcher enqueues notifications as background tasks so the
// HTTP request never waits on the webhook.
type asynqDispatcher struct {
	client *asynq.Client
}

func NewAsynqDispatcher(client *asynq.Client) Dispatcher {
	return &asynqDispatcher{client: client}
}

func (d *asynqDispatcher) Notify(ctx context.Context, payload shared.NotificationPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal notification payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeDispatchNotification, data)
	info, err := d.client.EnqueueContext(ctx, task, asynq.Queue(shared.QueueNotification))
	if err != nil {
		// Log and drop: notification loss is acceptable, blocking the
		// triggering operation is not.
		logger.Error("Failed to enqueue notification", err)
		return
	}

	logger.Info("Notification enqueued", map[string]interface{}{
		"event":   payload.Event,
		"task_id": info.ID,
		"queue":   info.Queue,
	})
}
