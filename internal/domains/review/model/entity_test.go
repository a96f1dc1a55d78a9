package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCategoryRatingsOverall(t *testing.T) {
	tests := []struct {
		name     string
		ratings  CategoryRatings
		expected int
	}{
		{
			name:     "all fives",
			ratings:  CategoryRatings{Expertise: 5, Safety: 5, Communication: 5, Leadership: 5, Value: 5},
			expected: 5,
		},
		{
			name:     "all ones",
			ratings:  CategoryRatings{Expertise: 1, Safety: 1, Communication: 1, Leadership: 1, Value: 1},
			expected: 1,
		},
		{
			name: "mean 3.4 rounds down",
			// sum 17
			ratings:  CategoryRatings{Expertise: 4, Safety: 4, Communication: 3, Leadership: 3, Value: 3},
			expected: 3,
		},
		{
			name: "mean 3.6 rounds up",
			// sum 18
			ratings:  CategoryRatings{Expertise: 4, Safety: 4, Communication: 4, Leadership: 3, Value: 3},
			expected: 4,
		},
		{
			name: "mean 4.2 rounds down",
			// sum 21
			ratings:  CategoryRatings{Expertise: 5, Safety: 4, Communication: 4, Leadership: 4, Value: 4},
			expected: 4,
		},
		{
			name: "mean 4.8 rounds up",
			// sum 24
			ratings:  CategoryRatings{Expertise: 5, Safety: 5, Communication: 5, Leadership: 5, Value: 4},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ratings.Overall())
		})
	}
}

func TestReviewTypeSibling(t *testing.T) {
	assert.Equal(t, TypeGuideToHiker, TypeHikerToGuide.Sibling())
	assert.Equal(t, TypeHikerToGuide, TypeGuideToHiker.Sibling())
}

func TestReviewTypeValid(t *testing.T) {
	assert.True(t, TypeHikerToGuide.Valid())
	assert.True(t, TypeGuideToHiker.Valid())
	assert.False(t, ReviewType("moderator_to_guide").Valid())
	assert.False(t, ReviewType("").Valid())
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusDraft, StatusSubmitted, true},
		{StatusDraft, StatusExpired, true},
		{StatusDraft, StatusPublished, false},
		{StatusSubmitted, StatusPublished, true},
		{StatusSubmitted, StatusExpired, false},
		{StatusSubmitted, StatusDraft, false},
		{StatusPublished, StatusDraft, false},
		{StatusPublished, StatusExpired, false},
		{StatusExpired, StatusSubmitted, false},
		{StatusExpired, StatusPublished, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusDraft.Terminal())
	assert.False(t, StatusSubmitted.Terminal())
	assert.True(t, StatusPublished.Terminal())
	assert.True(t, StatusExpired.Terminal())
}

func TestReviewIsExpiredAt(t *testing.T) {
	now := time.Now()

	draft := &Review{Status: StatusDraft, ExpiresAt: now.Add(-time.Hour)}
	assert.True(t, draft.IsExpiredAt(now))

	openDraft := &Review{Status: StatusDraft, ExpiresAt: now.Add(time.Hour)}
	assert.False(t, openDraft.IsExpiredAt(now))

	// Only drafts expire; a submitted review past its deadline stays
	// submitted and simply never publishes
	submitted := &Review{Status: StatusSubmitted, ExpiresAt: now.Add(-time.Hour)}
	assert.False(t, submitted.IsExpiredAt(now))
}
