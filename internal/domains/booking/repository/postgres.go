package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trailguide-backend/internal/domains/booking/model"
)

type postgresBookingRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresBookingRepository(pool *pgxpool.Pool) BookingRepository {
	return &postgresBookingRepository{pool: pool}
}

func (r *postgresBookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `
		SELECT id, hiker_id, guide_id, tour_id, status, completed_at, created_at
		FROM bookings
		WHERE id = $1
	`

	booking := &model.Booking{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&booking.ID,
		&booking.HikerID,
		&booking.GuideID,
		&booking.TourID,
		&booking.Status,
		&booking.CompletedAt,
		&booking.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}

	return booking, nil
}
