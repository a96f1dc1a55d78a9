package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func validCategoryRatings() *CategoryRatings {
	return &CategoryRatings{Expertise: 5, Safety: 4, Communication: 5, Leadership: 4, Value: 3}
}

func validQuickAssessment() *QuickAssessmentPayload {
	return &QuickAssessmentPayload{
		FitnessAccurate: boolPtr(true),
		WellPrepared:    boolPtr(true),
		GreatCompanion:  boolPtr(false),
		WouldGuideAgain: boolPtr(true),
	}
}

func validHikerRequest() SubmitReviewRequest {
	return SubmitReviewRequest{
		Comment:         strings.Repeat("a great tour ", 10), // 130 chars
		CategoryRatings: validCategoryRatings(),
		HighlightTags:   []string{"knows the terrain", "patient"},
	}
}

func validGuideRequest() SubmitReviewRequest {
	return SubmitReviewRequest{
		Comment:         strings.Repeat("well prepared ", 5), // 70 chars
		QuickAssessment: validQuickAssessment(),
		OverallRating:   4,
	}
}

func TestValidateForHikerToGuide(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		req := validHikerRequest()
		assert.NoError(t, req.ValidateFor(TypeHikerToGuide))
	})

	t.Run("comment too short", func(t *testing.T) {
		req := validHikerRequest()
		req.Comment = "too short"
		assert.Error(t, req.ValidateFor(TypeHikerToGuide))
	})

	t.Run("comment too long", func(t *testing.T) {
		req := validHikerRequest()
		req.Comment = strings.Repeat("x", HikerCommentMaxLength+1)
		assert.Error(t, req.ValidateFor(TypeHikerToGuide))
	})

	t.Run("missing category ratings", func(t *testing.T) {
		req := validHikerRequest()
		req.CategoryRatings = nil
		assert.Error(t, req.ValidateFor(TypeHikerToGuide))
	})

	t.Run("missing one category", func(t *testing.T) {
		req := validHikerRequest()
		req.CategoryRatings.Safety = 0
		assert.Error(t, req.ValidateFor(TypeHikerToGuide))
	})

	t.Run("category out of range", func(t *testing.T) {
		req := validHikerRequest()
		req.CategoryRatings.Value = 6
		assert.Error(t, req.ValidateFor(TypeHikerToGuide))
	})

	t.Run("quick assessment rejected for hiker review", func(t *testing.T) {
		req := validHikerRequest()
		req.QuickAssessment = validQuickAssessment()
		assert.Error(t, req.ValidateFor(TypeHikerToGuide))
	})

	t.Run("caller-supplied overall rating rejected", func(t *testing.T) {
		req := validHikerRequest()
		req.OverallRating = 5
		assert.Error(t, req.ValidateFor(TypeHikerToGuide))
	})

	t.Run("private notes rejected for hiker review", func(t *testing.T) {
		req := validHikerRequest()
		notes := "the guide seemed tired"
		req.PrivateNotes = &notes
		assert.Error(t, req.ValidateFor(TypeHikerToGuide))
	})

	t.Run("too many highlight tags", func(t *testing.T) {
		req := validHikerRequest()
		req.HighlightTags = make([]string, MaxHighlightTags+1)
		for i := range req.HighlightTags {
			req.HighlightTags[i] = "tag"
		}
		assert.Error(t, req.ValidateFor(TypeHikerToGuide))
	})

	t.Run("no highlight tags is fine", func(t *testing.T) {
		req := validHikerRequest()
		req.HighlightTags = nil
		assert.NoError(t, req.ValidateFor(TypeHikerToGuide))
	})
}

func TestValidateForGuideToHiker(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		req := validGuideRequest()
		assert.NoError(t, req.ValidateFor(TypeGuideToHiker))
	})

	t.Run("comment too short", func(t *testing.T) {
		req := validGuideRequest()
		req.Comment = "fine hiker"
		assert.Error(t, req.ValidateFor(TypeGuideToHiker))
	})

	t.Run("missing quick assessment", func(t *testing.T) {
		req := validGuideRequest()
		req.QuickAssessment = nil
		assert.Error(t, req.ValidateFor(TypeGuideToHiker))
	})

	t.Run("missing one boolean key", func(t *testing.T) {
		req := validGuideRequest()
		req.QuickAssessment.WouldGuideAgain = nil
		assert.Error(t, req.ValidateFor(TypeGuideToHiker))
	})

	t.Run("explicit false is not a missing key", func(t *testing.T) {
		req := validGuideRequest()
		req.QuickAssessment.FitnessAccurate = boolPtr(false)
		req.QuickAssessment.WellPrepared = boolPtr(false)
		req.QuickAssessment.GreatCompanion = boolPtr(false)
		req.QuickAssessment.WouldGuideAgain = boolPtr(false)
		assert.NoError(t, req.ValidateFor(TypeGuideToHiker))
	})

	t.Run("category ratings rejected for guide review", func(t *testing.T) {
		req := validGuideRequest()
		req.CategoryRatings = validCategoryRatings()
		assert.Error(t, req.ValidateFor(TypeGuideToHiker))
	})

	t.Run("overall rating required", func(t *testing.T) {
		req := validGuideRequest()
		req.OverallRating = 0
		assert.Error(t, req.ValidateFor(TypeGuideToHiker))
	})

	t.Run("overall rating out of range", func(t *testing.T) {
		req := validGuideRequest()
		req.OverallRating = 6
		assert.Error(t, req.ValidateFor(TypeGuideToHiker))
	})

	t.Run("highlight tags rejected for guide review", func(t *testing.T) {
		req := validGuideRequest()
		req.HighlightTags = []string{"strong"}
		assert.Error(t, req.ValidateFor(TypeGuideToHiker))
	})

	t.Run("private notes accepted", func(t *testing.T) {
		req := validGuideRequest()
		notes := "overstated their experience on the booking form"
		req.PrivateNotes = &notes
		assert.NoError(t, req.ValidateFor(TypeGuideToHiker))
	})
}

func TestValidateForUnknownType(t *testing.T) {
	req := validHikerRequest()
	assert.Error(t, req.ValidateFor(ReviewType("sideways")))
}

func TestRespondRequestValidate(t *testing.T) {
	assert.NoError(t, RespondRequest{Text: "Thank you for the kind words!"}.Validate())
	assert.Error(t, RespondRequest{Text: "thanks"}.Validate())
	assert.Error(t, RespondRequest{Text: ""}.Validate())
	assert.Error(t, RespondRequest{Text: strings.Repeat("x", ResponseMaxLength+1)}.Validate())
}

func TestNewReviewPayloadHidesPrivateNotes(t *testing.T) {
	notes := "private observation"
	review := &Review{PrivateNotes: &notes}

	payload := NewReviewPayload(review)

	// ReviewPayload has no private notes field at all; the admin
	// projection carries them
	admin := NewAdminReviewPayload(review)
	require.NotNil(t, admin.PrivateNotes)
	assert.Equal(t, notes, *admin.PrivateNotes)
	assert.Equal(t, review.ID, payload.ID)
}

func TestNewPaginationMeta(t *testing.T) {
	meta := NewPaginationMeta(2, 20, 45)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrev)

	first := NewPaginationMeta(1, 20, 15)
	assert.Equal(t, 1, first.TotalPages)
	assert.False(t, first.HasNext)
	assert.False(t, first.HasPrev)
}
