package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// =====================================================
// SUBMIT REVIEW REQUEST
// =====================================================

// SubmitReviewRequest carries one party's filled-out review. Which fields
// are legal depends on the review direction; ValidateFor enforces the
// per-type schema so a request can never mix the two shapes.
type SubmitReviewRequest struct {
	Comment         string                  `json:"comment" binding:"required"`
	CategoryRatings *CategoryRatings        `json:"category_ratings,omitempty"`
	QuickAssessment *QuickAssessmentPayload `json:"quick_assessment,omitempty"`
	OverallRating   int                     `json:"overall_rating,omitempty"`
	HighlightTags   []string                `json:"highlight_tags,omitempty"`
	PrivateNotes    *string                 `json:"private_notes,omitempty"`
}

// QuickAssessmentPayload uses pointers so a missing key is
// distinguishable from an explicit false: all four must be supplied.
type QuickAssessmentPayload struct {
	FitnessAccurate *bool `json:"fitness_accurate"`
	WellPrepared    *bool `json:"well_prepared"`
	GreatCompanion  *bool `json:"great_companion"`
	WouldGuideAgain *bool `json:"would_guide_again"`
}

func (p QuickAssessmentPayload) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.FitnessAccurate, validation.NotNil),
		validation.Field(&p.WellPrepared, validation.NotNil),
		validation.Field(&p.GreatCompanion, validation.NotNil),
		validation.Field(&p.WouldGuideAgain, validation.NotNil),
	)
}

// ToAssessment converts the payload after validation has passed
func (p QuickAssessmentPayload) ToAssessment() QuickAssessment {
	return QuickAssessment{
		FitnessAccurate: *p.FitnessAccurate,
		WellPrepared:    *p.WellPrepared,
		GreatCompanion:  *p.GreatCompanion,
		WouldGuideAgain: *p.WouldGuideAgain,
	}
}

// Validate enforces the category rating bounds; picked up automatically
// by ozzo when the parent request is validated.
func (c CategoryRatings) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Expertise, validation.Required, validation.Min(MinRating), validation.Max(MaxRating)),
		validation.Field(&c.Safety, validation.Required, validation.Min(MinRating), validation.Max(MaxRating)),
		validation.Field(&c.Communication, validation.Required, validation.Min(MinRating), validation.Max(MaxRating)),
		validation.Field(&c.Leadership, validation.Required, validation.Min(MinRating), validation.Max(MaxRating)),
		validation.Field(&c.Value, validation.Required, validation.Min(MinRating), validation.Max(MaxRating)),
	)
}

// ValidateFor validates the request against the schema of the given
// review direction.
func (req SubmitReviewRequest) ValidateFor(reviewType ReviewType) error {
	switch reviewType {
	case TypeHikerToGuide:
		return validation.ValidateStruct(&req,
			validation.Field(&req.Comment,
				validation.Required,
				validation.Length(HikerCommentMinLength, HikerCommentMaxLength)),
			validation.Field(&req.CategoryRatings, validation.NotNil),
			validation.Field(&req.QuickAssessment, validation.Nil),
			// The headline rating is derived from the categories, never
			// accepted from the caller.
			validation.Field(&req.OverallRating, validation.Empty),
			validation.Field(&req.PrivateNotes, validation.Nil),
			validation.Field(&req.HighlightTags,
				validation.Length(0, MaxHighlightTags),
				validation.Each(validation.Required, validation.Length(1, MaxHighlightTagLength))),
		)
	case TypeGuideToHiker:
		return validation.ValidateStruct(&req,
			validation.Field(&req.Comment,
				validation.Required,
				validation.Length(GuideCommentMinLength, GuideCommentMaxLength)),
			validation.Field(&req.QuickAssessment, validation.NotNil),
			validation.Field(&req.CategoryRatings, validation.Nil),
			validation.Field(&req.OverallRating,
				validation.Required,
				validation.Min(MinRating),
				validation.Max(MaxRating)),
			validation.Field(&req.HighlightTags, validation.Empty),
		)
	default:
		return validation.NewError("validation_review_type", "unknown review type")
	}
}

// =====================================================
// RESPOND REQUEST
// =====================================================

type RespondRequest struct {
	Text string `json:"text" binding:"required"`
}

func (req RespondRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Text,
			validation.Required,
			validation.Length(ResponseMinLength, ResponseMaxLength)),
	)
}

// =====================================================
// LIST REQUESTS
// =====================================================

// ListReviewsRequest lists published reviews about a subject
type ListReviewsRequest struct {
	SubjectID uuid.UUID `form:"subject_id" binding:"required"`
	Page      int       `form:"page"`
	Limit     int       `form:"limit"`
}

func (r *ListReviewsRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 20
	}
	return nil
}

// AdminListReviewsRequest lists reviews with admin filters
type AdminListReviewsRequest struct {
	BookingID *uuid.UUID `form:"booking_id"`
	AuthorID  *uuid.UUID `form:"author_id"`
	SubjectID *uuid.UUID `form:"subject_id"`
	Type      *string    `form:"review_type"`
	Status    *string    `form:"status"`
	Page      int        `form:"page"`
	Limit     int        `form:"limit"`
}

func (r *AdminListReviewsRequest) Validate() error {
	if r.Page < 1 {
		r.Page = 1
	}
	if r.Limit < 1 || r.Limit > 100 {
		r.Limit = 50
	}
	if r.Type != nil && !ReviewType(*r.Type).Valid() {
		return validation.NewError("validation_review_type", "unknown review type")
	}
	if r.Status != nil && !Status(*r.Status).Valid() {
		return validation.NewError("validation_status", "unknown review status")
	}
	return nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// ReviewPayload is the externally visible shape of a review.
// private_notes never appears here; admins get AdminReviewPayload.
type ReviewPayload struct {
	ID        uuid.UUID  `json:"id"`
	BookingID uuid.UUID  `json:"booking_id"`
	Type      ReviewType `json:"review_type"`
	AuthorID  uuid.UUID  `json:"author_id"`
	SubjectID uuid.UUID  `json:"subject_id"`
	Status    Status     `json:"status"`

	OverallRating   int              `json:"overall_rating,omitempty"`
	Comment         string           `json:"comment,omitempty"`
	CategoryRatings *CategoryRatings `json:"category_ratings,omitempty"`
	QuickAssessment *QuickAssessment `json:"quick_assessment,omitempty"`
	HighlightTags   []string         `json:"highlight_tags,omitempty"`

	AvailableAt time.Time  `json:"available_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`

	Response *ResponsePayload `json:"response,omitempty"`
}

type ResponsePayload struct {
	ResponderID uuid.UUID `json:"responder_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewReviewPayload builds the public projection of a review
func NewReviewPayload(r *Review) ReviewPayload {
	p := ReviewPayload{
		ID:              r.ID,
		BookingID:       r.BookingID,
		Type:            r.Type,
		AuthorID:        r.AuthorID,
		SubjectID:       r.SubjectID,
		Status:          r.Status,
		OverallRating:   r.OverallRating,
		Comment:         r.Comment,
		CategoryRatings: r.CategoryRatings,
		QuickAssessment: r.QuickAssessment,
		HighlightTags:   r.HighlightTags,
		AvailableAt:     r.AvailableAt,
		ExpiresAt:       r.ExpiresAt,
		SubmittedAt:     r.SubmittedAt,
		PublishedAt:     r.PublishedAt,
	}
	if r.Response != nil {
		p.Response = &ResponsePayload{
			ResponderID: r.Response.ResponderID,
			Text:        r.Response.Text,
			CreatedAt:   r.Response.CreatedAt,
		}
	}
	return p
}

// AdminReviewPayload includes the guide's private notes
type AdminReviewPayload struct {
	ReviewPayload
	PrivateNotes *string `json:"private_notes"`
}

func NewAdminReviewPayload(r *Review) AdminReviewPayload {
	return AdminReviewPayload{
		ReviewPayload: NewReviewPayload(r),
		PrivateNotes:  r.PrivateNotes,
	}
}

// SubmitReviewResult reports the review's state after a submission,
// including whether the submission completed the pair and published both.
type SubmitReviewResult struct {
	ID            uuid.UUID  `json:"id"`
	Status        Status     `json:"status"`
	OverallRating int        `json:"overall_rating"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`
}

// GeneratePairResult is returned by the eligibility trigger
type GeneratePairResult struct {
	BookingID uuid.UUID       `json:"booking_id"`
	Created   bool            `json:"created"` // false when the pair already existed
	Reviews   []ReviewPayload `json:"reviews"`
}

// ListReviewsResult is a paginated review listing
type ListReviewsResult struct {
	Reviews    []ReviewPayload `json:"reviews"`
	Pagination PaginationMeta  `json:"pagination"`
}

// AdminListReviewsResult is the admin variant carrying private notes
type AdminListReviewsResult struct {
	Reviews    []AdminReviewPayload `json:"reviews"`
	Pagination PaginationMeta       `json:"pagination"`
}

// GuideStatistics aggregates published hiker_to_guide reviews
type GuideStatistics struct {
	TotalReviews    int         `json:"total_reviews"`
	AverageRating   float64     `json:"average_rating"`
	RatingBreakdown map[int]int `json:"rating_breakdown"` // {5: 100, 4: 50, ...}
}

// PendingPairStats counts review pairs that can still publish.
// A pair leaves these counts once published, expired or half-expired.
type PendingPairStats struct {
	AwaitingBoth int64 `json:"awaiting_both"` // neither side submitted yet
	AwaitingOne  int64 `json:"awaiting_one"`  // one side submitted, one draft
}

// PaginationMeta pagination metadata
type PaginationMeta struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// NewPaginationMeta fills the derived paging fields
func NewPaginationMeta(page, limit, total int) PaginationMeta {
	totalPages := (total + limit - 1) / limit
	return PaginationMeta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
