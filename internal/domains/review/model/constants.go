package model

import "time"

const (
	// Review windows (overridable via config)
	DefaultAvailabilityDelay = 24 * time.Hour      // settle time after the tour before reviews open
	DefaultExpiryWindow      = 30 * 24 * time.Hour // how long a draft stays open after availability

	// Comment length bounds per direction
	HikerCommentMinLength = 50
	HikerCommentMaxLength = 1000
	GuideCommentMinLength = 30
	GuideCommentMaxLength = 500

	// Response text bounds
	ResponseMinLength = 10
	ResponseMaxLength = 300

	// Rating
	MinRating = 1
	MaxRating = 5

	// Highlight tags (hiker_to_guide only)
	MaxHighlightTags      = 10
	MaxHighlightTagLength = 40
)
