package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	bookingmodel "trailguide-backend/internal/domains/booking/model"
	"trailguide-backend/internal/domains/review/model"
	"trailguide-backend/internal/shared"
)

// MockReviewRepository is a mock implementation of repository.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) CreatePair(ctx context.Context, first, second *model.Review) error {
	args := m.Called(ctx, first, second)
	return args.Error(0)
}

func (m *MockReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Review), args.Error(1)
}

func (m *MockReviewRepository) GetPairByBooking(ctx context.Context, bookingID uuid.UUID) ([]*model.Review, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Review), args.Error(1)
}

func (m *MockReviewRepository) SaveSubmission(ctx context.Context, review *model.Review) error {
	args := m.Called(ctx, review)
	return args.Error(0)
}

func (m *MockReviewRepository) PublishPair(ctx context.Context, bookingID uuid.UUID, publishedAt time.Time) (bool, error) {
	args := m.Called(ctx, bookingID, publishedAt)
	return args.Bool(0), args.Error(1)
}

func (m *MockReviewRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) CreateResponse(ctx context.Context, response *model.Response) error {
	args := m.Called(ctx, response)
	return args.Error(0)
}

func (m *MockReviewRepository) ListPublishedBySubject(ctx context.Context, subjectID uuid.UUID, page, limit int) ([]*model.Review, int, error) {
	args := m.Called(ctx, subjectID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Review), args.Int(1), args.Error(2)
}

func (m *MockReviewRepository) GetGuideStatistics(ctx context.Context, guideID uuid.UUID) (*model.GuideStatistics, error) {
	args := m.Called(ctx, guideID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuideStatistics), args.Error(1)
}

func (m *MockReviewRepository) AdminList(ctx context.Context, filters map[string]interface{}, page, limit int) ([]*model.Review, int, error) {
	args := m.Called(ctx, filters, page, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*model.Review), args.Int(1), args.Error(2)
}

func (m *MockReviewRepository) CountPendingPairs(ctx context.Context) (*model.PendingPairStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingPairStats), args.Error(1)
}

// MockBookingRepository is a mock implementation of repository.BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*bookingmodel.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*bookingmodel.Booking), args.Error(1)
}

// MockDispatcher is a mock implementation of notification.Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Notify(ctx context.Context, payload shared.NotificationPayload) {
	m.Called(ctx, payload)
}

// MockCache is a mock implementation of cache.Cache
type MockCache struct {
	mock.Mock
}

func (m *MockCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCache) Delete(ctx context.Context, keys ...string) error {
	args := m.Called(keys)
	return args.Error(0)
}

func (m *MockCache) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// noopCache is a Cache that never hits, for tests that don't care
type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	return false, nil
}
func (noopCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}
func (noopCache) Delete(ctx context.Context, keys ...string) error { return nil }
func (noopCache) Ping(ctx context.Context) error                   { return nil }
