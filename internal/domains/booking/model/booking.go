package model

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrBookingNotFound = errors.New("booking not found")

// Booking is owned by the booking subsystem. The review engine reads it
// once at eligibility-generation time and never mutates it.
type Booking struct {
	ID          uuid.UUID  `json:"id"`
	HikerID     uuid.UUID  `json:"hiker_id"`
	GuideID     *uuid.UUID `json:"guide_id"` // nil until a guide is assigned
	TourID      uuid.UUID  `json:"tour_id"`
	Status      string     `json:"status"`
	CompletedAt *time.Time `json:"completed_at"` // nil until the tour completes
	CreatedAt   time.Time  `json:"created_at"`
}

// IsReviewEligible reports whether the booking can seed a review pair:
// a guide must be assigned and the tour must have a completion timestamp.
func (b *Booking) IsReviewEligible() bool {
	return b.GuideID != nil && b.CompletedAt != nil
}
