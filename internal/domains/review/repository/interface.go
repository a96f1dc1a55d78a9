package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trailguide-backend/internal/domains/review/model"
)

// ReviewRepository is the persistence contract for the review engine.
// All status-changing operations are conditional writes: the status check
// and the status write happen in a single statement (or a single
// transaction holding row locks), never as a read-then-write split.
type ReviewRepository interface {
	// CreatePair inserts both draft reviews of a booking in one
	// transaction. Returns model.ErrPairExists if either row already
	// exists (unique booking_id + review_type).
	CreatePair(ctx context.Context, first, second *model.Review) error

	// GetByID gets a review by ID, with its response if any
	GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error)

	// GetPairByBooking returns both reviews of a booking (0 rows when the
	// pair was never generated)
	GetPairByBooking(ctx context.Context, bookingID uuid.UUID) ([]*model.Review, error)

	// SaveSubmission writes the submitted content and flips draft ->
	// submitted, guarded by the current status and the deadline. Returns
	// model.ErrStatusConflict when the guard misses; callers re-read to
	// classify the race.
	SaveSubmission(ctx context.Context, review *model.Review) error

	// PublishPair atomically flips both reviews to published with a
	// shared published_at, if and only if both are currently submitted.
	// Returns (true, nil) when this call performed the transition and
	// (false, nil) when it was a no-op (pair incomplete, or already
	// published by a concurrent call).
	PublishPair(ctx context.Context, bookingID uuid.UUID, publishedAt time.Time) (bool, error)

	// ExpireOverdue transitions draft reviews past their deadline to
	// expired. Idempotent; returns the number of rows transitioned.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)

	// CreateResponse inserts the single response of a review. Returns
	// model.ErrAlreadyResponded on the unique review_id conflict.
	CreateResponse(ctx context.Context, response *model.Response) error

	// ListPublishedBySubject lists published reviews about a subject
	ListPublishedBySubject(ctx context.Context, subjectID uuid.UUID, page, limit int) ([]*model.Review, int, error)

	// GetGuideStatistics aggregates published hiker_to_guide reviews
	GetGuideStatistics(ctx context.Context, guideID uuid.UUID) (*model.GuideStatistics, error)

	// AdminList lists reviews with admin filters (all statuses)
	AdminList(ctx context.Context, filters map[string]interface{}, page, limit int) ([]*model.Review, int, error)

	// CountPendingPairs counts pairs that still have at least one draft
	CountPendingPairs(ctx context.Context) (*model.PendingPairStats, error)
}
