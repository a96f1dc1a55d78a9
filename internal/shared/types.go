package shared

import (
	"time"

	"github.com/google/uuid"
)

// Asynq task types
const (
	TypeExpireOverdueReviews = "review:expire_overdue"
	TypeDispatchNotification = "notification:dispatch"
)

// Asynq queues
const (
	QueueReview       = "review"
	QueueNotification = "notifications"
)

// Notification events sent to the external dispatch collaborator
const (
	EventPairPublished   = "review.pair_published"
	EventResponseCreated = "review.response_created"
)

// ExpireOverdueReviewsPayload is the (empty) payload for the sweep job
type ExpireOverdueReviewsPayload struct{}

// NotificationPayload is the envelope handed to notification dispatch.
// Fire-and-forget: the engine only guarantees it is enqueued once per
// triggering transition.
type NotificationPayload struct {
	Event      string     `json:"event"`
	BookingID  uuid.UUID  `json:"booking_id"`
	ReviewID   *uuid.UUID `json:"review_id,omitempty"`
	HikerID    uuid.UUID  `json:"hiker_id"`
	GuideID    uuid.UUID  `json:"guide_id"`
	OccurredAt time.Time  `json:"occurred_at"`
}
