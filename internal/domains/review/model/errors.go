package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeReviewNotFound     = "REV001"
	ErrCodeIneligibleBooking  = "REV002"
	ErrCodeValidation         = "REV003"
	ErrCodeNotAuthor          = "REV004"
	ErrCodeAlreadySubmitted   = "REV005"
	ErrCodeExpired            = "REV006"
	ErrCodeNotSubject         = "REV007"
	ErrCodeNotPublished       = "REV008"
	ErrCodeAlreadyResponded   = "REV009"
	ErrCodeBookingNotFound    = "REV010"
	ErrCodeUnauthorized       = "REV011"
)

// Sentinel errors. These are business-rule rejections, not system
// failures; handlers map them to 4xx and they are never logged as errors.
var (
	ErrReviewNotFound    = errors.New("review not found")
	ErrIneligibleBooking = errors.New("booking is not eligible for reviews")
	ErrNotAuthor         = errors.New("caller is not the review author")
	ErrAlreadySubmitted  = errors.New("review has already been submitted")
	ErrExpired           = errors.New("review window has expired")
	ErrNotSubject        = errors.New("caller is not the reviewed party")
	ErrNotPublished      = errors.New("review is not published")
	ErrAlreadyResponded  = errors.New("review already has a response")
	ErrUnauthorized      = errors.New("unauthorized to perform this action")

	// Repository-level sentinels, translated by the service layer.
	ErrPairExists     = errors.New("review pair already exists for booking")
	ErrStatusConflict = errors.New("review status changed since read")
)

// ReviewError custom error type
type ReviewError struct {
	Code    string
	Message string
	Details interface{}
	Err     error
}

func (e *ReviewError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ReviewError) Unwrap() error {
	return e.Err
}

// Error constructors
func NewReviewNotFoundError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeReviewNotFound,
		Message: "Review not found",
		Err:     ErrReviewNotFound,
	}
}

func NewIneligibleBookingError(reason string) *ReviewError {
	return &ReviewError{
		Code:    ErrCodeIneligibleBooking,
		Message: fmt.Sprintf("Booking is not eligible for reviews: %s", reason),
		Err:     ErrIneligibleBooking,
	}
}

func NewValidationError(err error) *ReviewError {
	return &ReviewError{
		Code:    ErrCodeValidation,
		Message: "Review payload failed validation",
		Details: err.Error(),
		Err:     err,
	}
}

func NewNotAuthorError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeNotAuthor,
		Message: "Only the review author can submit this review",
		Err:     ErrNotAuthor,
	}
}

func NewAlreadySubmittedError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeAlreadySubmitted,
		Message: "This review has already been submitted",
		Err:     ErrAlreadySubmitted,
	}
}

func NewExpiredError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeExpired,
		Message: "The review window for this booking has expired",
		Err:     ErrExpired,
	}
}

func NewNotSubjectError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeNotSubject,
		Message: "Only the reviewed party can respond to this review",
		Err:     ErrNotSubject,
	}
}

func NewNotPublishedError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeNotPublished,
		Message: "Responses can only be added to published reviews",
		Err:     ErrNotPublished,
	}
}

func NewAlreadyRespondedError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeAlreadyResponded,
		Message: "This review already has a response",
		Err:     ErrAlreadyResponded,
	}
}

func NewBookingNotFoundError() *ReviewError {
	return &ReviewError{
		Code:    ErrCodeBookingNotFound,
		Message: "Booking not found",
	}
}

func NewUnauthorizedError(message string) *ReviewError {
	return &ReviewError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Err:     ErrUnauthorized,
	}
}
