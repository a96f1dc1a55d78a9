package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"trailguide-backend/internal/domains/review/model"
	"trailguide-backend/internal/domains/review/service"
	"trailguide-backend/internal/shared/response"
	"trailguide-backend/pkg/logger"
)

type ReviewHandler struct {
	service service.ReviewService
}

func NewReviewHandler(service service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// =====================================================
// HELPERS
// =====================================================

func callerFromContext(c *gin.Context) (uuid.UUID, bool, error) {
	userIDStr, exists := c.Get("user_id")
	if !exists {
		return uuid.Nil, false, errors.New("user not authenticated")
	}
	userID, err := uuid.Parse(userIDStr.(string))
	if err != nil {
		return uuid.Nil, false, errors.New("invalid user id in token")
	}

	role, _ := c.Get("role")
	isAdmin := role == "admin"
	return userID, isAdmin, nil
}

// handleError maps the closed error taxonomy to HTTP statuses
func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	var reviewErr *model.ReviewError
	if errors.As(err, &reviewErr) {
		status := http.StatusInternalServerError
		switch reviewErr.Code {
		case model.ErrCodeReviewNotFound, model.ErrCodeBookingNotFound:
			status = http.StatusNotFound
		case model.ErrCodeValidation:
			status = http.StatusBadRequest
		case model.ErrCodeIneligibleBooking, model.ErrCodeExpired, model.ErrCodeNotPublished:
			status = http.StatusUnprocessableEntity
		case model.ErrCodeNotAuthor, model.ErrCodeNotSubject, model.ErrCodeUnauthorized:
			status = http.StatusForbidden
		case model.ErrCodeAlreadySubmitted, model.ErrCodeAlreadyResponded:
			status = http.StatusConflict
		}
		if reviewErr.Details != nil {
			response.ErrorWithDetails(c, status, reviewErr.Code, reviewErr.Message, reviewErr.Details)
			return
		}
		response.ErrorResponse(c, status, reviewErr.Code, reviewErr.Message)
		return
	}

	logger.Error("Unhandled review error", err)
	response.InternalServerError(c, "An unexpected error occurred")
}

// =====================================================
// PAIR GENERATION
// =====================================================

// GenerateForBooking handles POST /api/v1/bookings/:id/reviews
func (h *ReviewHandler) GenerateForBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid booking ID")
		return
	}

	callerID, isAdmin, err := callerFromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	result, err := h.service.GenerateForBooking(c.Request.Context(), bookingID, callerID, isAdmin)
	if err != nil {
		h.handleError(c, err)
		return
	}

	status := http.StatusCreated
	if !result.Created {
		status = http.StatusOK
	}
	response.Success(c, status, result)
}

// =====================================================
// SUBMISSION
// =====================================================

// Submit handles POST /api/v1/reviews/:id/submit
func (h *ReviewHandler) Submit(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	callerID, _, err := callerFromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	var req model.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeValidation,
			"Invalid request body", err.Error())
		return
	}

	result, err := h.service.Submit(c.Request.Context(), reviewID, callerID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// =====================================================
// RESPONSES
// =====================================================

// Respond handles POST /api/v1/reviews/:id/response
func (h *ReviewHandler) Respond(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	callerID, _, err := callerFromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	var req model.RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeValidation,
			"Invalid request body", err.Error())
		return
	}

	result, err := h.service.Respond(c.Request.Context(), reviewID, callerID, &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// =====================================================
// READS
// =====================================================

// GetReview handles GET /api/v1/reviews/:id
func (h *ReviewHandler) GetReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	callerID, isAdmin, err := callerFromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	result, err := h.service.GetReview(c.Request.Context(), reviewID, callerID, isAdmin)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// ListByBooking handles GET /api/v1/bookings/:id/reviews
func (h *ReviewHandler) ListByBooking(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid booking ID")
		return
	}

	callerID, isAdmin, err := callerFromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	reviews, err := h.service.ListByBooking(c.Request.Context(), bookingID, callerID, isAdmin)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"reviews": reviews})
}

// ListPublished handles GET /api/v1/reviews?subject_id=...
// Public: no authentication required, only published content appears.
func (h *ReviewHandler) ListPublished(c *gin.Context) {
	var req model.ListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.ListPublishedBySubject(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// GetGuideStatistics handles GET /api/v1/guides/:id/statistics
func (h *ReviewHandler) GetGuideStatistics(c *gin.Context) {
	guideID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid guide ID")
		return
	}

	stats, err := h.service.GetGuideStatistics(c.Request.Context(), guideID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// =====================================================
// ADMIN
// =====================================================

// AdminList handles GET /api/v1/admin/reviews
func (h *ReviewHandler) AdminList(c *gin.Context) {
	var req model.AdminListReviewsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.AdminList(c.Request.Context(), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// AdminPendingPairs handles GET /api/v1/admin/statistics/pending-reviews
func (h *ReviewHandler) AdminPendingPairs(c *gin.Context) {
	stats, err := h.service.PendingPairs(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}

// AdminGetReview handles GET /api/v1/admin/reviews/:id
func (h *ReviewHandler) AdminGetReview(c *gin.Context) {
	reviewID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "Invalid review ID")
		return
	}

	callerID, _, err := callerFromContext(c)
	if err != nil {
		response.Unauthorized(c, err.Error())
		return
	}

	result, err := h.service.GetReview(c.Request.Context(), reviewID, callerID, true)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}
