package venuereviews

import (
	"errors"
	"time"

	"habitat/internal/sentiment"
)

var (
	ErrInvalidVenue = errors.New("Invalid venue")
	ErrToxicReview  = errors.New("Review contains toxic language")
)

// NoReviews labels venues in listings that have not been reviewed yet.
const NoReviews sentiment.Label = "No Reviews"

type Review struct {
	ID          int64           `json:"id"`
	VenueID     int64           `json:"venueId"`
	UserID      int64           `json:"userId"`
	Description string          `json:"description"`
	Rating      int             `json:"rating"` // 1-5
	Sentiment   sentiment.Label `json:"sentiment"`
	CreatedAt   time.Time       `json:"createdAt"`

	// Joined fields
	UserName string `json:"userName,omitempty"`
}

// Stat is the slice of a review needed for list aggregation.
type Stat struct {
	VenueID   int64
	Rating    int
	Sentiment sentiment.Label
}

// Summary is the per-venue aggregate shown in listings.
type Summary struct {
	ComputedRating   float64         `json:"computedRating"`
	TotalReviews     int             `json:"totalReviews"`
	GeneralSentiment sentiment.Label `json:"generalSentiment"`
}
