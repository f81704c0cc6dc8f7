package main

import (
	"errors"
	"net/http"
	"strings"

	"habitat/internal/domain/storage"
	venuereviews "habitat/internal/domain/venuereview"
	"habitat/internal/domain/venues"
	"habitat/internal/sentiment"
)

var errUserMismatch = errors.New("userId does not match the logged in user")

// Create Review Handler
type CreateReviewPayload struct {
	VenueID     int64  `json:"venueId" validate:"required,gt=0"`
	Description string `json:"description" validate:"required,max=1000"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	// UserID is accepted for older clients. The token decides the author.
	UserID *int64 `json:"userId,omitempty"`
}

// createReviewHandler godoc
//
//	@Summary		Submit a review
//	@Description	Scores the review text, rejects toxic reviews, stores it and recomputes the venue rating. The AI summary refreshes in the background.
//	@Tags			reviews
//	@Accept			json
//	@Produce		json
//	@Param			payload	body		CreateReviewPayload	true	"Review"
//	@Success		201		{object}	venuereviews.Review	"Review added"
//	@Failure		400		{object}	ErrorResponse		"Validation failed or Review contains toxic language"
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse		"Invalid venue"
//	@Failure		500		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/review [post]
func (app *application) createReviewHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	var payload CreateReviewPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	payload.Description = strings.TrimSpace(payload.Description)
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if payload.UserID != nil && *payload.UserID != user.ID {
		app.badRequestResponse(w, r, errUserMismatch)
		return
	}

	score := app.analyzer.Analyze(payload.Description)
	if app.analyzer.IsToxic(score.Score) {
		app.logger.Warnw("toxic review rejected", "venue_id", payload.VenueID, "user_id", user.ID, "score", score.Score)
		app.badRequestResponse(w, r, venuereviews.ErrToxicReview)
		return
	}

	review := &venuereviews.Review{
		VenueID:     payload.VenueID,
		UserID:      user.ID,
		Description: payload.Description,
		Rating:      payload.Rating,
		Sentiment:   sentiment.Classify(score.Score),
	}

	var rating float64
	err := app.store.WithReviewTx(r.Context(), func(tx *storage.ReviewTx) error {
		// serializes rating recomputation per venue
		if err := tx.Venues.Lock(r.Context(), review.VenueID); err != nil {
			if errors.Is(err, venues.ErrVenueNotFound) {
				return venuereviews.ErrInvalidVenue
			}
			return err
		}

		if err := tx.Reviews.Create(r.Context(), review); err != nil {
			return err
		}

		ratings, err := tx.Reviews.Ratings(r.Context(), review.VenueID)
		if err != nil {
			return err
		}

		rating = venuereviews.MeanRating(ratings)
		return tx.Venues.UpdateRating(r.Context(), review.VenueID, rating)
	})
	if err != nil {
		switch {
		case errors.Is(err, venuereviews.ErrInvalidVenue):
			app.notFoundResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	review.UserName = user.Name
	app.logger.Infow("review added", "venue_id", review.VenueID, "user_id", user.ID, "sentiment", review.Sentiment, "rating", rating)

	app.summaries.Dispatch(review.VenueID)

	if err := app.jsonResponse(w, http.StatusCreated, "Review added", review); err != nil {
		app.internalServerError(w, r, err)
	}
}
