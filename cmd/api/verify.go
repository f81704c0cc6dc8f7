package main

import (
	"errors"
	"net/http"

	"habitat/internal/domain/venues"
	"habitat/internal/params"
)

// PendingVenuesResponse is a page of venues waiting for a decision.
type PendingVenuesResponse struct {
	Venues     []venues.Venue    `json:"venues"`
	Pagination params.Pagination `json:"pagination"`
}

// listPendingVenuesHandler godoc
//
//	@Summary		List pending venues
//	@Description	Pending venue submissions, newest first.
//	@Tags			verification
//	@Produce		json
//	@Param			page	query		int	false	"Page number (default 1)"
//	@Param			limit	query		int	false	"Page size (default 15, max 50)"
//	@Success		200		{object}	PendingVenuesResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/verify [get]
func (app *application) listPendingVenuesHandler(w http.ResponseWriter, r *http.Request) {
	p := params.ParsePagination(r.URL.Query())

	list, total, err := app.store.Venues.ListByStatus(r.Context(), venues.StatusPending, p.Limit, p.Offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	p.ComputeMeta(total)

	if list == nil {
		list = []venues.Venue{}
	}

	if err := app.jsonResponse(w, http.StatusOK, "", PendingVenuesResponse{Venues: list, Pagination: p}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// decideVenue moves a pending venue to the given status and notifies its submitter.
func (app *application) decideVenue(w http.ResponseWriter, r *http.Request, to venues.Status, message string) {
	id, err := venueIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	venue, err := app.store.Venues.SetStatus(r.Context(), id, venues.StatusPending, to)
	if err != nil {
		switch {
		case errors.Is(err, venues.ErrVenueNotFound):
			app.notFoundResponse(w, r, err)
		case errors.Is(err, venues.ErrInvalidTransition):
			app.conflictResponse(w, r, err)
		default:
			app.internalServerError(w, r, err)
		}
		return
	}

	admin := getUserFromContext(r)
	app.logger.Infow("venue decided", "venue_id", venue.ID, "status", venue.Status, "admin_id", admin.ID)

	app.notifyDecision(venue)

	if err := app.jsonResponse(w, http.StatusOK, message, venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

// approveVenueHandler godoc
//
//	@Summary		Approve a venue
//	@Description	Publishes a pending venue.
//	@Tags			verification
//	@Produce		json
//	@Param			venueID	path		int				true	"Venue ID"
//	@Success		200		{object}	venues.Venue	"Venue verified and published"
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Already decided"
//	@Failure		500		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/verify/{venueID} [post]
func (app *application) approveVenueHandler(w http.ResponseWriter, r *http.Request) {
	app.decideVenue(w, r, venues.StatusPublished, "Venue verified and published")
}

// rejectVenueHandler godoc
//
//	@Summary		Reject a venue
//	@Description	Rejects a pending venue.
//	@Tags			verification
//	@Produce		json
//	@Param			venueID	path		int				true	"Venue ID"
//	@Success		200		{object}	venues.Venue	"Venue rejected"
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Already decided"
//	@Failure		500		{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/venues/verify/{venueID} [delete]
func (app *application) rejectVenueHandler(w http.ResponseWriter, r *http.Request) {
	app.decideVenue(w, r, venues.StatusRejected, "Venue rejected")
}
