package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trailguide-backend/internal/domains/review/model"
	"trailguide-backend/internal/shared"
)

// memoryReviewRepo is a mutex-guarded in-memory repository mirroring the
// conditional-write semantics of the Postgres implementation. Used to
// exercise the publication race without a database.
type memoryReviewRepo struct {
	mu        sync.Mutex
	reviews   map[uuid.UUID]*model.Review
	responses map[uuid.UUID]*model.Response
}

func newMemoryReviewRepo() *memoryReviewRepo {
	return &memoryReviewRepo{
		reviews:   make(map[uuid.UUID]*model.Review),
		responses: make(map[uuid.UUID]*model.Response),
	}
}

func (r *memoryReviewRepo) CreatePair(ctx context.Context, first, second *model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.BookingID == first.BookingID {
			return model.ErrPairExists
		}
	}
	a, b := *first, *second
	r.reviews[a.ID] = &a
	r.reviews[b.ID] = &b
	return nil
}

func (r *memoryReviewRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, model.ErrReviewNotFound
	}
	copied := *review
	return &copied, nil
}

func (r *memoryReviewRepo) GetPairByBooking(ctx context.Context, bookingID uuid.UUID) ([]*model.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pair []*model.Review
	for _, review := range r.reviews {
		if review.BookingID == bookingID {
			copied := *review
			pair = append(pair, &copied)
		}
	}
	return pair, nil
}

func (r *memoryReviewRepo) SaveSubmission(ctx context.Context, review *model.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.reviews[review.ID]
	if !ok {
		return model.ErrReviewNotFound
	}
	if stored.Status != model.StatusDraft || !review.SubmittedAt.Before(stored.ExpiresAt) {
		return model.ErrStatusConflict
	}
	copied := *review
	r.reviews[review.ID] = &copied
	return nil
}

func (r *memoryReviewRepo) PublishPair(ctx context.Context, bookingID uuid.UUID, publishedAt time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var pair []*model.Review
	for _, review := range r.reviews {
		if review.BookingID == bookingID {
			pair = append(pair, review)
		}
	}
	if len(pair) != 2 {
		return false, nil
	}
	for _, review := range pair {
		if review.Status != model.StatusSubmitted {
			return false, nil
		}
	}
	for _, review := range pair {
		review.Status = model.StatusPublished
		at := publishedAt
		review.PublishedAt = &at
	}
	return true, nil
}

func (r *memoryReviewRepo) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, review := range r.reviews {
		if review.Status == model.StatusDraft && now.After(review.ExpiresAt) {
			review.Status = model.StatusExpired
			count++
		}
	}
	return count, nil
}

func (r *memoryReviewRepo) CreateResponse(ctx context.Context, response *model.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.responses[response.ReviewID]; ok {
		return model.ErrAlreadyResponded
	}
	copied := *response
	r.responses[response.ReviewID] = &copied
	return nil
}

func (r *memoryReviewRepo) ListPublishedBySubject(ctx context.Context, subjectID uuid.UUID, page, limit int) ([]*model.Review, int, error) {
	return nil, 0, nil
}

func (r *memoryReviewRepo) GetGuideStatistics(ctx context.Context, guideID uuid.UUID) (*model.GuideStatistics, error) {
	return &model.GuideStatistics{}, nil
}

func (r *memoryReviewRepo) AdminList(ctx context.Context, filters map[string]interface{}, page, limit int) ([]*model.Review, int, error) {
	return nil, 0, nil
}

func (r *memoryReviewRepo) CountPendingPairs(ctx context.Context) (*model.PendingPairStats, error) {
	return &model.PendingPairStats{}, nil
}

// countingDispatcher records every notification it receives
type countingDispatcher struct {
	mu       sync.Mutex
	payloads []shared.NotificationPayload
}

func (d *countingDispatcher) Notify(ctx context.Context, payload shared.NotificationPayload) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.payloads = append(d.payloads, payload)
}

func TestConcurrentSubmissionsPublishOnce(t *testing.T) {
	repo := newMemoryReviewRepo()
	dispatcher := &countingDispatcher{}

	booking := completedBooking()
	bookingRepo := new(MockBookingRepository)
	bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	svc := &reviewService{
		reviewRepo:    repo,
		bookingRepo:   bookingRepo,
		dispatcher:    dispatcher,
		cache:         noopCache{},
		availability:  availabilityDelay,
		expiryWindow:  expiryWindow,
		statsCacheTTL: 10 * time.Minute,
		now:           func() time.Time { return testNow },
	}

	result, err := svc.GenerateForBooking(context.Background(), booking.ID, booking.HikerID, false)
	require.NoError(t, err)
	require.Len(t, result.Reviews, 2)

	var hikerReviewID, guideReviewID uuid.UUID
	for _, review := range result.Reviews {
		if review.Type == model.TypeHikerToGuide {
			hikerReviewID = review.ID
		} else {
			guideReviewID = review.ID
		}
	}

	// Both parties submit at the same time
	var wg sync.WaitGroup
	wg.Add(2)
	errs := make(chan error, 2)

	go func() {
		defer wg.Done()
		_, err := svc.Submit(context.Background(), hikerReviewID, booking.HikerID, hikerSubmitRequest())
		errs <- err
	}()
	go func() {
		defer wg.Done()
		_, err := svc.Submit(context.Background(), guideReviewID, *booking.GuideID, guideSubmitRequest())
		errs <- err
	}()

	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	// Exactly one pair_published notification
	require.Len(t, dispatcher.payloads, 1)
	assert.Equal(t, shared.EventPairPublished, dispatcher.payloads[0].Event)
	assert.Equal(t, booking.ID, dispatcher.payloads[0].BookingID)

	// Both sides published with the same published_at
	pair, err := repo.GetPairByBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	require.Len(t, pair, 2)
	for _, review := range pair {
		assert.Equal(t, model.StatusPublished, review.Status)
		require.NotNil(t, review.PublishedAt)
		assert.Equal(t, *pair[0].PublishedAt, *review.PublishedAt)
	}
}

func TestDuplicateSubmissionLosesCleanly(t *testing.T) {
	repo := newMemoryReviewRepo()
	dispatcher := &countingDispatcher{}

	booking := completedBooking()
	bookingRepo := new(MockBookingRepository)
	bookingRepo.On("GetByID", mock.Anything, booking.ID).Return(booking, nil)

	svc := &reviewService{
		reviewRepo:    repo,
		bookingRepo:   bookingRepo,
		dispatcher:    dispatcher,
		cache:         noopCache{},
		availability:  availabilityDelay,
		expiryWindow:  expiryWindow,
		statsCacheTTL: 10 * time.Minute,
		now:           func() time.Time { return testNow },
	}

	result, err := svc.GenerateForBooking(context.Background(), booking.ID, booking.HikerID, false)
	require.NoError(t, err)

	var hikerReviewID uuid.UUID
	for _, review := range result.Reviews {
		if review.Type == model.TypeHikerToGuide {
			hikerReviewID = review.ID
		}
	}

	_, err = svc.Submit(context.Background(), hikerReviewID, booking.HikerID, hikerSubmitRequest())
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), hikerReviewID, booking.HikerID, hikerSubmitRequest())
	assertReviewErrCode(t, err, model.ErrCodeAlreadySubmitted)

	// The failed duplicate must not have clobbered anything
	review, err := repo.GetByID(context.Background(), hikerReviewID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusSubmitted, review.Status)
}
