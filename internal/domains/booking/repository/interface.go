package repository

import (
	"context"

	"github.com/google/uuid"

	"trailguide-backend/internal/domains/booking/model"
)

// BookingRepository is the read-only view the review engine has of the
// booking subsystem's records.
type BookingRepository interface {
	// GetByID gets booking by ID
	GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error)
}
