package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"trailguide-backend/internal/domains/review/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockReviewService is a mock implementation of service.ReviewService
type MockReviewService struct {
	mock.Mock
}

func (m *MockReviewService) GenerateForBooking(ctx context.Context, bookingID, callerID uuid.UUID, isAdmin bool) (*model.GeneratePairResult, error) {
	args := m.Called(ctx, bookingID, callerID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GeneratePairResult), args.Error(1)
}

func (m *MockReviewService) Submit(ctx context.Context, reviewID, callerID uuid.UUID, req *model.SubmitReviewRequest) (*model.SubmitReviewResult, error) {
	args := m.Called(ctx, reviewID, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubmitReviewResult), args.Error(1)
}

func (m *MockReviewService) Respond(ctx context.Context, reviewID, callerID uuid.UUID, req *model.RespondRequest) (*model.ReviewPayload, error) {
	args := m.Called(ctx, reviewID, callerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewPayload), args.Error(1)
}

func (m *MockReviewService) GetReview(ctx context.Context, reviewID, callerID uuid.UUID, isAdmin bool) (*model.ReviewPayload, error) {
	args := m.Called(ctx, reviewID, callerID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReviewPayload), args.Error(1)
}

func (m *MockReviewService) ListByBooking(ctx context.Context, bookingID, callerID uuid.UUID, isAdmin bool) ([]model.ReviewPayload, error) {
	args := m.Called(ctx, bookingID, callerID, isAdmin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReviewPayload), args.Error(1)
}

func (m *MockReviewService) ListPublishedBySubject(ctx context.Context, req *model.ListReviewsRequest) (*model.ListReviewsResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ListReviewsResult), args.Error(1)
}

func (m *MockReviewService) GetGuideStatistics(ctx context.Context, guideID uuid.UUID) (*model.GuideStatistics, error) {
	args := m.Called(ctx, guideID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GuideStatistics), args.Error(1)
}

func (m *MockReviewService) AdminList(ctx context.Context, req *model.AdminListReviewsRequest) (*model.AdminListReviewsResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminListReviewsResult), args.Error(1)
}

func (m *MockReviewService) PendingPairs(ctx context.Context) (*model.PendingPairStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.PendingPairStats), args.Error(1)
}

func (m *MockReviewService) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func setupTestRouter(svc *MockReviewService, userID uuid.UUID) *gin.Engine {
	router := gin.New()
	h := NewReviewHandler(svc)

	// Stand-in for the auth middleware
	router.Use(func(c *gin.Context) {
		c.Set("user_id", userID.String())
		c.Set("role", "user")
	})

	router.POST("/reviews/:id/submit", h.Submit)
	router.POST("/reviews/:id/response", h.Respond)
	router.GET("/reviews/:id", h.GetReview)
	return router
}

func performSubmit(router *gin.Engine, reviewID uuid.UUID, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/reviews/"+reviewID.String()+"/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSubmitEndpointSuccess(t *testing.T) {
	svc := new(MockReviewService)
	userID := uuid.New()
	reviewID := uuid.New()

	submittedAt := time.Now()
	svc.On("Submit", mock.Anything, reviewID, userID, mock.Anything).Return(&model.SubmitReviewResult{
		ID:            reviewID,
		Status:        model.StatusSubmitted,
		OverallRating: 4,
		SubmittedAt:   submittedAt,
	}, nil)

	router := setupTestRouter(svc, userID)
	body := `{"comment": "` + strings.Repeat("a fine day in the mountains ", 3) + `"}`
	w := performSubmit(router, reviewID, body)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "submitted", resp.Data.Status)
}

func TestSubmitEndpointInvalidReviewID(t *testing.T) {
	router := setupTestRouter(new(MockReviewService), uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/reviews/not-a-uuid/submit", strings.NewReader(`{"comment":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", model.NewReviewNotFoundError(), http.StatusNotFound, model.ErrCodeReviewNotFound},
		{"validation", model.NewValidationError(assert.AnError), http.StatusBadRequest, model.ErrCodeValidation},
		{"not author", model.NewNotAuthorError(), http.StatusForbidden, model.ErrCodeNotAuthor},
		{"already submitted", model.NewAlreadySubmittedError(), http.StatusConflict, model.ErrCodeAlreadySubmitted},
		{"expired", model.NewExpiredError(), http.StatusUnprocessableEntity, model.ErrCodeExpired},
		{"not subject", model.NewNotSubjectError(), http.StatusForbidden, model.ErrCodeNotSubject},
		{"not published", model.NewNotPublishedError(), http.StatusUnprocessableEntity, model.ErrCodeNotPublished},
		{"already responded", model.NewAlreadyRespondedError(), http.StatusConflict, model.ErrCodeAlreadyResponded},
	}

	userID := uuid.New()
	reviewID := uuid.New()
	body := `{"comment": "` + strings.Repeat("a fine day in the mountains ", 3) + `"}`

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockReviewService)
			svc.On("Submit", mock.Anything, reviewID, userID, mock.Anything).Return(nil, tt.err)

			router := setupTestRouter(svc, userID)
			w := performSubmit(router, reviewID, body)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp struct {
				Success bool `json:"success"`
				Error   struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}
