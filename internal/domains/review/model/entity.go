package model

import (
	"time"

	"github.com/google/uuid"
)

// ReviewType is the direction of a review within a booking pair
type ReviewType string

const (
	TypeHikerToGuide ReviewType = "hiker_to_guide"
	TypeGuideToHiker ReviewType = "guide_to_hiker"
)

func (t ReviewType) Valid() bool {
	return t == TypeHikerToGuide || t == TypeGuideToHiker
}

// Sibling returns the opposite direction of the pair
func (t ReviewType) Sibling() ReviewType {
	if t == TypeHikerToGuide {
		return TypeGuideToHiker
	}
	return TypeHikerToGuide
}

// Status is the review lifecycle state.
// Legal transitions: draft -> submitted -> published, draft -> expired.
// published and expired are terminal.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusPublished Status = "published"
	StatusExpired   Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusPublished, StatusExpired:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusPublished || s == StatusExpired
}

// CanTransitionTo reports whether the state machine allows s -> next
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusSubmitted || next == StatusExpired
	case StatusSubmitted:
		return next == StatusPublished
	}
	return false
}

// CategoryRatings is the fixed hiker_to_guide rating schema.
// All five categories are required, each 1-5.
type CategoryRatings struct {
	Expertise     int `json:"expertise"`
	Safety        int `json:"safety"`
	Communication int `json:"communication"`
	Leadership    int `json:"leadership"`
	Value         int `json:"value"`
}

// Overall derives the headline rating as the rounded arithmetic mean of
// the five categories. The headline is never accepted from the caller,
// so it cannot contradict the category detail.
func (c CategoryRatings) Overall() int {
	sum := c.Expertise + c.Safety + c.Communication + c.Leadership + c.Value
	return (2*sum + 5) / 10 // round(sum/5) half up
}

// QuickAssessment is the fixed guide_to_hiker schema: four booleans,
// all required at submission.
type QuickAssessment struct {
	FitnessAccurate bool `json:"fitness_accurate"`
	WellPrepared    bool `json:"well_prepared"`
	GreatCompanion  bool `json:"great_companion"`
	WouldGuideAgain bool `json:"would_guide_again"`
}

// Review is the core entity. Exactly two exist per booking, one per
// direction. The per-type detail is a tagged variant: CategoryRatings is
// set only for hiker_to_guide, QuickAssessment only for guide_to_hiker.
type Review struct {
	ID        uuid.UUID  `json:"id"`
	BookingID uuid.UUID  `json:"booking_id"`
	Type      ReviewType `json:"review_type"`
	AuthorID  uuid.UUID  `json:"author_id"`
	SubjectID uuid.UUID  `json:"subject_id"`
	Status    Status     `json:"status"`

	// Content (empty until submitted)
	OverallRating   int              `json:"overall_rating"`
	Comment         string           `json:"comment"`
	CategoryRatings *CategoryRatings `json:"category_ratings,omitempty"`
	QuickAssessment *QuickAssessment `json:"quick_assessment,omitempty"`
	HighlightTags   []string         `json:"highlight_tags,omitempty"`
	PrivateNotes    *string          `json:"private_notes,omitempty"` // admin-only, never in published payloads

	// Timestamps
	CreatedAt   time.Time  `json:"created_at"`
	AvailableAt time.Time  `json:"available_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	SubmittedAt *time.Time `json:"submitted_at"`
	PublishedAt *time.Time `json:"published_at"`

	Response *Response `json:"response,omitempty"`
}

// IsExpiredAt reports whether a still-draft review is past its deadline
func (r *Review) IsExpiredAt(now time.Time) bool {
	return r.Status == StatusDraft && now.After(r.ExpiresAt)
}

// Response is the single post-publication reply the reviewed party may
// attach. Insert-only: no update or delete path exists.
type Response struct {
	ID          uuid.UUID `json:"id"`
	ReviewID    uuid.UUID `json:"review_id"`
	ResponderID uuid.UUID `json:"responder_id"`
	Text        string    `json:"text"`
	CreatedAt   time.Time `json:"created_at"`
}
