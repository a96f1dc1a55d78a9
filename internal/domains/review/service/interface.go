package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trailguide-backend/internal/domains/review/model"
)

// ReviewService is the application-facing surface of the review engine.
type ReviewService interface {
	// GenerateForBooking creates the draft review pair for an eligible
	// completed booking. Idempotent: a second call returns the existing
	// pair with Created=false.
	GenerateForBooking(ctx context.Context, bookingID, callerID uuid.UUID, isAdmin bool) (*model.GeneratePairResult, error)

	// Submit stores one party's filled-out review and, when it completes
	// the pair, publishes both sides atomically.
	Submit(ctx context.Context, reviewID, callerID uuid.UUID, req *model.SubmitReviewRequest) (*model.SubmitReviewResult, error)

	// Respond attaches the reviewed party's single response to a
	// published review.
	Respond(ctx context.Context, reviewID, callerID uuid.UUID, req *model.RespondRequest) (*model.ReviewPayload, error)

	// GetReview returns a single review. Unpublished content is visible
	// only to its author and admins.
	GetReview(ctx context.Context, reviewID, callerID uuid.UUID, isAdmin bool) (*model.ReviewPayload, error)

	// ListByBooking returns both reviews of a booking, filtered by the
	// caller's visibility.
	ListByBooking(ctx context.Context, bookingID, callerID uuid.UUID, isAdmin bool) ([]model.ReviewPayload, error)

	// ListPublishedBySubject lists published reviews about a subject
	ListPublishedBySubject(ctx context.Context, req *model.ListReviewsRequest) (*model.ListReviewsResult, error)

	// GetGuideStatistics aggregates published ratings for a guide
	GetGuideStatistics(ctx context.Context, guideID uuid.UUID) (*model.GuideStatistics, error)

	// AdminList lists reviews across all statuses with filters
	AdminList(ctx context.Context, req *model.AdminListReviewsRequest) (*model.AdminListReviewsResult, error)

	// PendingPairs counts review pairs still awaiting submissions
	PendingPairs(ctx context.Context) (*model.PendingPairStats, error)

	// ExpireOverdue sweeps draft reviews past their deadline. Run from
	// the scheduled worker job.
	ExpireOverdue(ctx context.Context, now time.Time) (int64, error)
}
