package main

import (
	"context"
	"fmt"
	"time"

	"habitat/internal/domain/venues"
	"habitat/internal/mailer"
)

// background runs fn in its own goroutine and logs a recovered panic.
func (app *application) background(fn func()) {
	go func() {
		defer func() {
			if err := recover(); err != nil {
				app.logger.Errorw("background task panicked", "error", fmt.Sprint(err))
			}
		}()
		fn()
	}()
}

// notifyDecision emails the submitter of a venue once an admin decides on it.
// Nothing is sent when mail is not configured or the submitter is unknown.
func (app *application) notifyDecision(venue *venues.Venue) {
	if app.mailer == nil || venue.SubmittedBy == nil {
		return
	}

	tmpl := mailer.VenueApprovedTemplate
	if venue.Status == venues.StatusRejected {
		tmpl = mailer.VenueRejectedTemplate
	}
	submitter := *venue.SubmittedBy

	app.background(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := app.store.Users.GetByID(ctx, submitter)
		if err != nil {
			app.logger.Errorw("error loading venue submitter", "venue_id", venue.ID, "user_id", submitter, "error", err)
			return
		}

		data := mailer.VenueDecision{Username: user.Name, VenueName: venue.Name}
		if err := app.mailer.Send(tmpl, user.Name, user.Email, data); err != nil {
			app.logger.Errorw("error sending venue decision email", "venue_id", venue.ID, "error", err)
			return
		}
		app.logger.Infow("venue decision email sent", "venue_id", venue.ID, "status", venue.Status)
	})
}
