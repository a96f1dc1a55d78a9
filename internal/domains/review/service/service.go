package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	bookingmodel "trailguide-backend/internal/domains/booking/model"
	bookingrepo "trailguide-backend/internal/domains/booking/repository"
	"trailguide-backend/internal/domains/review/model"
	"trailguide-backend/internal/domains/review/repository"
	"trailguide-backend/internal/notification"
	"trailguide-backend/internal/shared"
	"trailguide-backend/pkg/cache"
	"trailguide-backend/pkg/logger"
)

const guideStatsCacheKeyPrefix = "guide:stats:"

type reviewService struct {
	reviewRepo    repository.ReviewRepository
	bookingRepo   bookingrepo.BookingRepository
	dispatcher    notification.Dispatcher
	cache         cache.Cache
	availability  time.Duration
	expiryWindow  time.Duration
	statsCacheTTL time.Duration
	now           func() time.Time
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookingRepo bookingrepo.BookingRepository,
	dispatcher notification.Dispatcher,
	cacheStore cache.Cache,
	availabilityDelay, expiryWindow, statsCacheTTL time.Duration,
) ReviewService {
	return &reviewService{
		reviewRepo:    reviewRepo,
		bookingRepo:   bookingRepo,
		dispatcher:    dispatcher,
		cache:         cacheStore,
		availability:  availabilityDelay,
		expiryWindow:  expiryWindow,
		statsCacheTTL: statsCacheTTL,
		now:           time.Now,
	}
}

// =====================================================
// PAIR GENERATION
// =====================================================

func (s *reviewService) GenerateForBooking(
	ctx context.Context,
	bookingID, callerID uuid.UUID,
	isAdmin bool,
) (*model.GeneratePairResult, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingmodel.ErrBookingNotFound) {
			return nil, model.NewBookingNotFoundError()
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}

	if !isAdmin && callerID != booking.HikerID &&
		(booking.GuideID == nil || callerID != *booking.GuideID) {
		return nil, model.NewUnauthorizedError("Only booking participants can generate reviews")
	}

	if booking.GuideID == nil {
		return nil, model.NewIneligibleBookingError("no guide assigned")
	}
	if booking.CompletedAt == nil {
		return nil, model.NewIneligibleBookingError("tour is not completed")
	}

	now := s.now()
	availableAt := booking.CompletedAt.Add(s.availability)
	expiresAt := availableAt.Add(s.expiryWindow)

	hikerReview := &model.Review{
		ID:          uuid.New(),
		BookingID:   booking.ID,
		Type:        model.TypeHikerToGuide,
		AuthorID:    booking.HikerID,
		SubjectID:   *booking.GuideID,
		Status:      model.StatusDraft,
		CreatedAt:   now,
		AvailableAt: availableAt,
		ExpiresAt:   expiresAt,
	}
	guideReview := &model.Review{
		ID:          uuid.New(),
		BookingID:   booking.ID,
		Type:        model.TypeGuideToHiker,
		AuthorID:    *booking.GuideID,
		SubjectID:   booking.HikerID,
		Status:      model.StatusDraft,
		CreatedAt:   now,
		AvailableAt: availableAt,
		ExpiresAt:   expiresAt,
	}

	err = s.reviewRepo.CreatePair(ctx, hikerReview, guideReview)
	if err != nil {
		if errors.Is(err, model.ErrPairExists) {
			// Idempotent: return the pair the earlier call created
			existing, err := s.reviewRepo.GetPairByBooking(ctx, booking.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to load existing pair: %w", err)
			}
			return &model.GeneratePairResult{
				BookingID: booking.ID,
				Created:   false,
				Reviews:   toPayloads(existing),
			}, nil
		}
		return nil, fmt.Errorf("failed to create review pair: %w", err)
	}

	logger.Info("Review pair generated", map[string]interface{}{
		"booking_id": booking.ID.String(),
		"expires_at": expiresAt,
	})

	return &model.GeneratePairResult{
		BookingID: booking.ID,
		Created:   true,
		Reviews:   toPayloads([]*model.Review{hikerReview, guideReview}),
	}, nil
}

// =====================================================
// SUBMISSION
// =====================================================

func (s *reviewService) Submit(
	ctx context.Context,
	reviewID, callerID uuid.UUID,
	req *model.SubmitReviewRequest,
) (*model.SubmitReviewResult, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}

	if review.AuthorID != callerID {
		return nil, model.NewNotAuthorError()
	}

	now := s.now()
	switch review.Status {
	case model.StatusSubmitted, model.StatusPublished:
		return nil, model.NewAlreadySubmittedError()
	case model.StatusExpired:
		return nil, model.NewExpiredError()
	}
	if review.IsExpiredAt(now) {
		// deadline passed but the sweep has not run yet
		return nil, model.NewExpiredError()
	}

	if err := req.ValidateFor(review.Type); err != nil {
		return nil, model.NewValidationError(err)
	}

	review.Comment = req.Comment
	review.SubmittedAt = &now
	review.Status = model.StatusSubmitted

	switch review.Type {
	case model.TypeHikerToGuide:
		review.CategoryRatings = req.CategoryRatings
		review.OverallRating = req.CategoryRatings.Overall()
		review.HighlightTags = req.HighlightTags
	case model.TypeGuideToHiker:
		assessment := req.QuickAssessment.ToAssessment()
		review.QuickAssessment = &assessment
		review.OverallRating = req.OverallRating
		review.PrivateNotes = req.PrivateNotes
	}

	if err := s.reviewRepo.SaveSubmission(ctx, review); err != nil {
		if errors.Is(err, model.ErrStatusConflict) {
			return nil, s.classifySubmissionConflict(ctx, reviewID, now)
		}
		return nil, fmt.Errorf("failed to save submission: %w", err)
	}

	result := &model.SubmitReviewResult{
		ID:            review.ID,
		Status:        model.StatusSubmitted,
		OverallRating: review.OverallRating,
		SubmittedAt:   now,
	}

	publishedAt, err := s.tryPublish(ctx, review)
	if err != nil {
		return nil, err
	}
	if publishedAt != nil {
		result.Status = model.StatusPublished
		result.PublishedAt = publishedAt
	}

	return result, nil
}

// classifySubmissionConflict re-reads a review whose conditional write
// missed its guard and maps the current state to a business error.
func (s *reviewService) classifySubmissionConflict(ctx context.Context, reviewID uuid.UUID, now time.Time) error {
	current, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return fmt.Errorf("failed to classify submission conflict: %w", err)
	}
	if current.Status == model.StatusExpired || current.IsExpiredAt(now) {
		return model.NewExpiredError()
	}
	return model.NewAlreadySubmittedError()
}

// tryPublish attempts the atomic pair publication and, when this call
// performed the transition, sends the single pair_published notification
// and invalidates the guide's cached statistics.
func (s *reviewService) tryPublish(ctx context.Context, review *model.Review) (*time.Time, error) {
	publishedAt := s.now()
	published, err := s.reviewRepo.PublishPair(ctx, review.BookingID, publishedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to publish review pair: %w", err)
	}
	if !published {
		return nil, nil
	}

	hikerID, guideID := review.AuthorID, review.SubjectID
	if review.Type == model.TypeGuideToHiker {
		hikerID, guideID = review.SubjectID, review.AuthorID
	}

	s.dispatcher.Notify(ctx, shared.NotificationPayload{
		Event:      shared.EventPairPublished,
		BookingID:  review.BookingID,
		HikerID:    hikerID,
		GuideID:    guideID,
		OccurredAt: publishedAt,
	})

	s.invalidateGuideStats(ctx, guideID)

	logger.Info("Review pair published", map[string]interface{}{
		"booking_id":   review.BookingID.String(),
		"published_at": publishedAt,
	})

	return &publishedAt, nil
}

// =====================================================
// RESPONSES
// =====================================================

func (s *reviewService) Respond(
	ctx context.Context,
	reviewID, callerID uuid.UUID,
	req *model.RespondRequest,
) (*model.ReviewPayload, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}

	if review.Status != model.StatusPublished {
		return nil, model.NewNotPublishedError()
	}
	if review.SubjectID != callerID {
		return nil, model.NewNotSubjectError()
	}
	if review.Response != nil {
		return nil, model.NewAlreadyRespondedError()
	}

	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	response := &model.Response{
		ID:          uuid.New(),
		ReviewID:    review.ID,
		ResponderID: callerID,
		Text:        req.Text,
		CreatedAt:   s.now(),
	}

	if err := s.reviewRepo.CreateResponse(ctx, response); err != nil {
		if errors.Is(err, model.ErrAlreadyResponded) {
			return nil, model.NewAlreadyRespondedError()
		}
		return nil, fmt.Errorf("failed to create response: %w", err)
	}

	review.Response = response

	hikerID, guideID := review.AuthorID, review.SubjectID
	if review.Type == model.TypeGuideToHiker {
		hikerID, guideID = review.SubjectID, review.AuthorID
	}
	reviewIDCopy := review.ID
	s.dispatcher.Notify(ctx, shared.NotificationPayload{
		Event:      shared.EventResponseCreated,
		BookingID:  review.BookingID,
		ReviewID:   &reviewIDCopy,
		HikerID:    hikerID,
		GuideID:    guideID,
		OccurredAt: response.CreatedAt,
	})

	payload := model.NewReviewPayload(review)
	return &payload, nil
}

// =====================================================
// READS
// =====================================================

func (s *reviewService) GetReview(
	ctx context.Context,
	reviewID, callerID uuid.UUID,
	isAdmin bool,
) (*model.ReviewPayload, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, fmt.Errorf("failed to load review: %w", err)
	}

	// Unpublished content stays hidden from everyone but its author.
	// Not-found rather than forbidden, so the sibling's submission state
	// cannot be probed.
	if review.Status != model.StatusPublished && !isAdmin && review.AuthorID != callerID {
		return nil, model.NewReviewNotFoundError()
	}

	payload := model.NewReviewPayload(review)
	return &payload, nil
}

func (s *reviewService) ListByBooking(
	ctx context.Context,
	bookingID, callerID uuid.UUID,
	isAdmin bool,
) ([]model.ReviewPayload, error) {
	reviews, err := s.reviewRepo.GetPairByBooking(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load review pair: %w", err)
	}

	payloads := make([]model.ReviewPayload, 0, len(reviews))
	for _, review := range reviews {
		if review.Status != model.StatusPublished && !isAdmin && review.AuthorID != callerID {
			continue
		}
		payloads = append(payloads, model.NewReviewPayload(review))
	}
	return payloads, nil
}

func (s *reviewService) ListPublishedBySubject(
	ctx context.Context,
	req *model.ListReviewsRequest,
) (*model.ListReviewsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	reviews, total, err := s.reviewRepo.ListPublishedBySubject(ctx, req.SubjectID, req.Page, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return &model.ListReviewsResult{
		Reviews:    toPayloads(reviews),
		Pagination: model.NewPaginationMeta(req.Page, req.Limit, total),
	}, nil
}

// =====================================================
// STATISTICS
// =====================================================

func (s *reviewService) GetGuideStatistics(ctx context.Context, guideID uuid.UUID) (*model.GuideStatistics, error) {
	cacheKey := guideStatsCacheKeyPrefix + guideID.String()

	var cached model.GuideStatistics
	found, err := s.cache.Get(ctx, cacheKey, &cached)
	if err != nil {
		logger.Error("Failed to read statistics cache", err)
	}
	if found {
		return &cached, nil
	}

	stats, err := s.reviewRepo.GetGuideStatistics(ctx, guideID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guide statistics: %w", err)
	}

	if err := s.cache.Set(ctx, cacheKey, stats, s.statsCacheTTL); err != nil {
		logger.Error("Failed to write statistics cache", err)
	}

	return stats, nil
}

func (s *reviewService) invalidateGuideStats(ctx context.Context, guideID uuid.UUID) {
	if err := s.cache.Delete(ctx, guideStatsCacheKeyPrefix+guideID.String()); err != nil {
		logger.Error("Failed to invalidate statistics cache", err)
	}
}

// =====================================================
// ADMIN
// =====================================================

func (s *reviewService) AdminList(
	ctx context.Context,
	req *model.AdminListReviewsRequest,
) (*model.AdminListReviewsResult, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewValidationError(err)
	}

	filters := make(map[string]interface{})
	if req.BookingID != nil {
		filters["booking_id"] = *req.BookingID
	}
	if req.AuthorID != nil {
		filters["author_id"] = *req.AuthorID
	}
	if req.SubjectID != nil {
		filters["subject_id"] = *req.SubjectID
	}
	if req.Type != nil {
		filters["review_type"] = *req.Type
	}
	if req.Status != nil {
		filters["status"] = *req.Status
	}

	reviews, total, err := s.reviewRepo.AdminList(ctx, filters, req.Page, req.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	payloads := make([]model.AdminReviewPayload, 0, len(reviews))
	for _, review := range reviews {
		payloads = append(payloads, model.NewAdminReviewPayload(review))
	}

	return &model.AdminListReviewsResult{
		Reviews:    payloads,
		Pagination: model.NewPaginationMeta(req.Page, req.Limit, total),
	}, nil
}

func (s *reviewService) PendingPairs(ctx context.Context) (*model.PendingPairStats, error) {
	stats, err := s.reviewRepo.CountPendingPairs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending pairs: %w", err)
	}
	return stats, nil
}

// =====================================================
// EXPIRATION SWEEP
// =====================================================

func (s *reviewService) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	expired, err := s.reviewRepo.ExpireOverdue(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue reviews: %w", err)
	}

	if expired > 0 {
		logger.Info("Expired overdue reviews", map[string]interface{}{
			"count": expired,
		})
	}

	return expired, nil
}

func toPayloads(reviews []*model.Review) []model.ReviewPayload {
	payloads := make([]model.ReviewPayload, 0, len(reviews))
	for _, review := range reviews {
		payloads = append(payloads, model.NewReviewPayload(review))
	}
	return payloads
}
