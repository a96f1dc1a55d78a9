package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"trailguide-backend/internal/domains/review/model"
	"trailguide-backend/pkg/database"
)

// =====================================================
// POSTGRES REPOSITORY IMPLEMENTATION
// =====================================================

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

const reviewColumns = `
	id, booking_id, review_type, author_id, subject_id, status,
	overall_rating, comment,
	expertise_rating, safety_rating, communication_rating, leadership_rating, value_rating,
	fitness_accurate, well_prepared, great_companion, would_guide_again,
	highlight_tags, private_notes,
	created_at, available_at, expires_at, submitted_at, published_at
`

// scanReview works for both pgx.Row and pgx.Rows
func scanReview(row pgx.Row) (*model.Review, error) {
	review := &model.Review{}
	var (
		expertise, safety, communication, leadership, value          *int
		fitnessAccurate, wellPrepared, greatCompanion, wouldGuideAgain *bool
		tags                                                         []string
	)

	err := row.Scan(
		&review.ID,
		&review.BookingID,
		&review.Type,
		&review.AuthorID,
		&review.SubjectID,
		&review.Status,
		&review.OverallRating,
		&review.Comment,
		&expertise,
		&safety,
		&communication,
		&leadership,
		&value,
		&fitnessAccurate,
		&wellPrepared,
		&greatCompanion,
		&wouldGuideAgain,
		pq.Array(&tags),
		&review.PrivateNotes,
		&review.CreatedAt,
		&review.AvailableAt,
		&review.ExpiresAt,
		&review.SubmittedAt,
		&review.PublishedAt,
	)
	if err != nil {
		return nil, err
	}

	// Reassemble the tagged variant from the per-type columns
	if expertise != nil {
		review.CategoryRatings = &model.CategoryRatings{
			Expertise:     *expertise,
			Safety:        *safety,
			Communication: *communication,
			Leadership:    *leadership,
			Value:         *value,
		}
	}
	if fitnessAccurate != nil {
		review.QuickAssessment = &model.QuickAssessment{
			FitnessAccurate: *fitnessAccurate,
			WellPrepared:    *wellPrepared,
			GreatCompanion:  *greatCompanion,
			WouldGuideAgain: *wouldGuideAgain,
		}
	}
	review.HighlightTags = tags

	return review, nil
}

// =====================================================
// CREATE PAIR
// =====================================================

func (r *postgresReviewRepository) CreatePair(ctx context.Context, first, second *model.Review) error {
	query := `
		INSERT INTO reviews (
			id, booking_id, review_type, author_id, subject_id, status,
			created_at, available_at, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	err := database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		for _, review := range []*model.Review{first, second} {
			_, err := tx.Exec(ctx, query,
				review.ID,
				review.BookingID,
				review.Type,
				review.AuthorID,
				review.SubjectID,
				review.Status,
				review.CreatedAt,
				review.AvailableAt,
				review.ExpiresAt,
			)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrPairExists
		}
		return fmt.Errorf("failed to create review pair: %w", err)
	}

	return nil
}

// =====================================================
// GET
// =====================================================

func (r *postgresReviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE id = $1`

	review, err := scanReview(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("failed to get review: %w", err)
	}

	if err := r.attachResponses(ctx, []*model.Review{review}); err != nil {
		return nil, err
	}

	return review, nil
}

func (r *postgresReviewRepository) GetPairByBooking(ctx context.Context, bookingID uuid.UUID) ([]*model.Review, error) {
	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE booking_id = $1 ORDER BY review_type`

	rows, err := r.pool.Query(ctx, query, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get review pair: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read review pair: %w", err)
	}

	if err := r.attachResponses(ctx, reviews); err != nil {
		return nil, err
	}

	return reviews, nil
}

// =====================================================
// SUBMISSION
// =====================================================

// SaveSubmission is a conditional write: the WHERE clause re-checks the
// draft status and the deadline, so a concurrent sweep or duplicate
// submission loses the race cleanly instead of overwriting.
func (r *postgresReviewRepository) SaveSubmission(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET
			status = $2,
			overall_rating = $3,
			comment = $4,
			expertise_rating = $5,
			safety_rating = $6,
			communication_rating = $7,
			leadership_rating = $8,
			value_rating = $9,
			fitness_accurate = $10,
			well_prepared = $11,
			great_companion = $12,
			would_guide_again = $13,
			highlight_tags = $14,
			private_notes = $15,
			submitted_at = $16
		WHERE id = $1 AND status = 'draft' AND expires_at > $16
	`

	var (
		expertise, safety, communication, leadership, value            *int
		fitnessAccurate, wellPrepared, greatCompanion, wouldGuideAgain *bool
	)
	if cr := review.CategoryRatings; cr != nil {
		expertise, safety, communication, leadership, value =
			&cr.Expertise, &cr.Safety, &cr.Communication, &cr.Leadership, &cr.Value
	}
	if qa := review.QuickAssessment; qa != nil {
		fitnessAccurate, wellPrepared, greatCompanion, wouldGuideAgain =
			&qa.FitnessAccurate, &qa.WellPrepared, &qa.GreatCompanion, &qa.WouldGuideAgain
	}

	result, err := r.pool.Exec(ctx, query,
		review.ID,
		review.Status,
		review.OverallRating,
		review.Comment,
		expertise, safety, communication, leadership, value,
		fitnessAccurate, wellPrepared, greatCompanion, wouldGuideAgain,
		pq.Array(review.HighlightTags),
		review.PrivateNotes,
		review.SubmittedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save submission: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrStatusConflict
	}

	return nil
}

// =====================================================
// PUBLICATION
// =====================================================

// PublishPair locks both rows of the pair, then flips them to published
// in a single status-guarded statement. Holding the row locks makes the
// check-then-write indivisible; the status guard makes re-invocation a
// no-op instead of an error.
func (r *postgresReviewRepository) PublishPair(ctx context.Context, bookingID uuid.UUID, publishedAt time.Time) (bool, error) {
	published, err := database.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) (bool, error) {
		rows, err := tx.Query(ctx,
			`SELECT status FROM reviews WHERE booking_id = $1 ORDER BY review_type FOR UPDATE`,
			bookingID,
		)
		if err != nil {
			return false, err
		}

		var statuses []model.Status
		for rows.Next() {
			var status model.Status
			if err := rows.Scan(&status); err != nil {
				rows.Close()
				return false, err
			}
			statuses = append(statuses, status)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return false, err
		}

		if len(statuses) != 2 {
			return false, nil // pair never generated
		}
		for _, status := range statuses {
			if status != model.StatusSubmitted {
				return false, nil // sibling still draft/expired, or already published
			}
		}

		result, err := tx.Exec(ctx,
			`UPDATE reviews SET status = 'published', published_at = $2
			 WHERE booking_id = $1 AND status = 'submitted'`,
			bookingID, publishedAt,
		)
		if err != nil {
			return false, err
		}
		if result.RowsAffected() != 2 {
			// Cannot happen while the locks are held
			return false, model.ErrStatusConflict
		}

		return true, nil
	})

	if err != nil {
		return false, fmt.Errorf("failed to publish review pair: %w", err)
	}

	return published, nil
}

// =====================================================
// EXPIRATION SWEEP
// =====================================================

func (r *postgresReviewRepository) ExpireOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE reviews
		SET status = 'expired'
		WHERE status = 'draft' AND expires_at < $1
	`

	result, err := r.pool.Exec(ctx, query, now)
	if err != nil {
		return 0, fmt.Errorf("failed to expire overdue reviews: %w", err)
	}

	return result.RowsAffected(), nil
}

// =====================================================
// RESPONSES
// =====================================================

func (r *postgresReviewRepository) CreateResponse(ctx context.Context, response *model.Response) error {
	query := `
		INSERT INTO review_responses (id, review_id, responder_id, text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		response.ID,
		response.ReviewID,
		response.ResponderID,
		response.Text,
		response.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrAlreadyResponded
		}
		return fmt.Errorf("failed to create response: %w", err)
	}

	return nil
}

// attachResponses loads the responses for a set of reviews in one query
func (r *postgresReviewRepository) attachResponses(ctx context.Context, reviews []*model.Review) error {
	if len(reviews) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(reviews))
	byReview := make(map[uuid.UUID]*model.Review, len(reviews))
	for _, review := range reviews {
		ids = append(ids, review.ID)
		byReview[review.ID] = review
	}

	query := `
		SELECT id, review_id, responder_id, text, created_at
		FROM review_responses
		WHERE review_id = ANY($1)
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load responses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		response := &model.Response{}
		err := rows.Scan(
			&response.ID,
			&response.ReviewID,
			&response.ResponderID,
			&response.Text,
			&response.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to scan response: %w", err)
		}
		if review, ok := byReview[response.ReviewID]; ok {
			review.Response = response
		}
	}

	return rows.Err()
}

// =====================================================
// LISTING
// =====================================================

func (r *postgresReviewRepository) ListPublishedBySubject(
	ctx context.Context,
	subjectID uuid.UUID,
	page, limit int,
) ([]*model.Review, int, error) {
	query := `SELECT ` + reviewColumns + `
		FROM reviews
		WHERE subject_id = $1 AND status = 'published'
		ORDER BY published_at DESC
		LIMIT $2 OFFSET $3
	`

	offset := (page - 1) * limit
	rows, err := r.pool.Query(ctx, query, subjectID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read reviews: %w", err)
	}

	if err := r.attachResponses(ctx, reviews); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM reviews WHERE subject_id = $1 AND status = 'published'`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, subjectID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	return reviews, total, nil
}

// =====================================================
// STATISTICS
// =====================================================

func (r *postgresReviewRepository) GetGuideStatistics(
	ctx context.Context,
	guideID uuid.UUID,
) (*model.GuideStatistics, error) {
	query := `
		SELECT
			COUNT(*) as total_reviews,
			COALESCE(ROUND(AVG(overall_rating)::numeric, 1), 0) as average_rating
		FROM reviews
		WHERE subject_id = $1 AND review_type = 'hiker_to_guide' AND status = 'published'
	`

	stats := &model.GuideStatistics{}
	err := r.pool.QueryRow(ctx, query, guideID).Scan(
		&stats.TotalReviews,
		&stats.AverageRating,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}

	breakdownQuery := `
		SELECT overall_rating, COUNT(*) as count
		FROM reviews
		WHERE subject_id = $1 AND review_type = 'hiker_to_guide' AND status = 'published'
		GROUP BY overall_rating
	`

	rows, err := r.pool.Query(ctx, breakdownQuery, guideID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rating breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[int]int)
	for i := model.MinRating; i <= model.MaxRating; i++ {
		breakdown[i] = 0
	}
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("failed to scan rating breakdown: %w", err)
		}
		breakdown[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rating breakdown: %w", err)
	}

	stats.RatingBreakdown = breakdown
	return stats, nil
}

// =====================================================
// ADMIN
// =====================================================

func (r *postgresReviewRepository) AdminList(
	ctx context.Context,
	filters map[string]interface{},
	page, limit int,
) ([]*model.Review, int, error) {
	whereClause := " WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if bookingID, ok := filters["booking_id"].(uuid.UUID); ok {
		whereClause += fmt.Sprintf(" AND booking_id = $%d", argCount)
		args = append(args, bookingID)
		argCount++
	}
	if authorID, ok := filters["author_id"].(uuid.UUID); ok {
		whereClause += fmt.Sprintf(" AND author_id = $%d", argCount)
		args = append(args, authorID)
		argCount++
	}
	if subjectID, ok := filters["subject_id"].(uuid.UUID); ok {
		whereClause += fmt.Sprintf(" AND subject_id = $%d", argCount)
		args = append(args, subjectID)
		argCount++
	}
	if reviewType, ok := filters["review_type"].(string); ok {
		whereClause += fmt.Sprintf(" AND review_type = $%d", argCount)
		args = append(args, reviewType)
		argCount++
	}
	if status, ok := filters["status"].(string); ok {
		whereClause += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, status)
		argCount++
	}

	query := `SELECT ` + reviewColumns + ` FROM reviews` + whereClause +
		" ORDER BY created_at DESC" +
		fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	queryArgs := append(append([]interface{}{}, args...), limit, (page-1)*limit)

	rows, err := r.pool.Query(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	var reviews []*model.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read reviews: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM reviews` + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reviews: %w", err)
	}

	return reviews, total, nil
}

func (r *postgresReviewRepository) CountPendingPairs(ctx context.Context) (*model.PendingPairStats, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE submitted_count = 0),
			COUNT(*) FILTER (WHERE submitted_count = 1)
		FROM (
			SELECT booking_id,
			       COUNT(*) FILTER (WHERE status = 'submitted') AS submitted_count
			FROM reviews
			WHERE status IN ('draft', 'submitted')
			GROUP BY booking_id
			HAVING COUNT(*) FILTER (WHERE status = 'draft') > 0
		) pairs
	`

	stats := &model.PendingPairStats{}
	err := r.pool.QueryRow(ctx, query).Scan(&stats.AwaitingBoth, &stats.AwaitingOne)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending pairs: %w", err)
	}

	return stats, nil
}
