package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	venuereviews "habitat/internal/domain/venuereview"
	"habitat/internal/domain/venues"
	"habitat/internal/geo"
	"habitat/internal/sentiment"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/schema"
)

var errResourceNotFound = errors.New("Resource Not Found")

var formDecoder = func() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.ZeroEmpty(true)
	return d
}()

// CreateVenueForm holds the text fields of the multipart venue submission.
// List and object fields arrive as JSON strings.
type CreateVenueForm struct {
	Name        string  `schema:"name" validate:"required,max=120"`
	Type        string  `schema:"type" validate:"required,oneof=PG Mess"`
	OwnerName   string  `schema:"ownerName" validate:"required,max=100"`
	ContactNo   string  `schema:"contactNo" validate:"required,contactno"`
	Description string  `schema:"description" validate:"max=2000"`
	MinPrice    float64 `schema:"minPrice" validate:"gte=0"`
	MaxPrice    float64 `schema:"maxPrice" validate:"gte=0"`
	Street      string  `schema:"street" validate:"max=255"`
	Pincode     string  `schema:"pincode" validate:"omitempty,numeric,len=6"`
	Latitude    float64 `schema:"latitude" validate:"gte=-90,lte=90"`
	Longitude   float64 `schema:"longitude" validate:"gte=-180,lte=180"`

	AvailableRoomTypes string `schema:"availableRoomTypes"`
	SharingTypes       string `schema:"sharingTypes"`

	FoodType      string `schema:"foodType"`
	MealsProvided string `schema:"mealsProvided"`
	WeeklyMenu    string `schema:"weeklyMenu"`
}

func decodeJSONField(field, raw string, dst any) error {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return fmt.Errorf("%s must be valid JSON: %w", field, err)
	}
	return nil
}

// toVenue builds a venue from the form, filling the details that match its type.
func (f *CreateVenueForm) toVenue(campus geo.Point, defaultPincode string) (*venues.Venue, error) {
	v := &venues.Venue{
		Name:        strings.TrimSpace(f.Name),
		OwnerName:   strings.TrimSpace(f.OwnerName),
		ContactNo:   f.ContactNo,
		Type:        venues.Type(f.Type),
		Description: f.Description,
		Address: venues.Address{
			Street:    f.Street,
			Pincode:   f.Pincode,
			Latitude:  f.Latitude,
			Longitude: f.Longitude,
		},
		DistanceFromCampus: geo.DistanceFrom(campus, f.Latitude, f.Longitude),
		Cost:               venues.Cost{Min: f.MinPrice, Max: f.MaxPrice, Per: "Month"},
	}
	if v.Address.Pincode == "" {
		v.Address.Pincode = defaultPincode
	}

	switch v.Type {
	case venues.TypePG:
		pg := &venues.PGDetails{AvailableRoomTypes: []string{}, SharingTypes: []string{}}
		if err := decodeJSONField("availableRoomTypes", f.AvailableRoomTypes, &pg.AvailableRoomTypes); err != nil {
			return nil, err
		}
		if err := decodeJSONField("sharingTypes", f.SharingTypes, &pg.SharingTypes); err != nil {
			return nil, err
		}
		v.PGDetails = pg
	case venues.TypeMess:
		mess := &venues.MessDetails{FoodType: f.FoodType, WeeklyMenu: []venues.DayMenu{}}
		if err := decodeJSONField("mealsProvided", f.MealsProvided, &mess.MealsProvided); err != nil {
			return nil, err
		}
		if err := decodeJSONField("weeklyMenu", f.WeeklyMenu, &mess.WeeklyMenu); err != nil {
			return nil, err
		}
		v.MessDetails = mess
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// createVenueHandler godoc
//
//	@Summary		Submit a venue
//	@Description	Creates a PG or Mess listing in pending state. Text fields and up to 7 images as multipart form data.
//	@Tags			venues
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			name				formData	string	true	"Venue name"
//	@Param			type				formData	string	true	"PG or Mess"
//	@Param			ownerName			formData	string	true	"Owner name"
//	@Param			contactNo			formData	string	true	"Contact number"
//	@Param			description			formData	string	false	"Description"
//	@Param			minPrice			formData	number	false	"Minimum monthly cost"
//	@Param			maxPrice			formData	number	false	"Maximum monthly cost"
//	@Param			street				formData	string	false	"Street"
//	@Param			pincode				formData	string	false	"Pincode"
//	@Param			latitude			formData	number	false	"Latitude"
//	@Param			longitude			formData	number	false	"Longitude"
//	@Param			availableRoomTypes	formData	string	false	"PG: JSON array of room types"
//	@Param			sharingTypes		formData	string	false	"PG: JSON array of sharing types"
//	@Param			foodType			formData	string	false	"Mess: Veg, Non-Veg or Both"
//	@Param			mealsProvided		formData	string	false	"Mess: JSON object of meals"
//	@Param			weeklyMenu			formData	string	false	"Mess: JSON array of day menus"
//	@Param			images				formData	file	false	"Venue photos"
//	@Success		201					{object}	venues.Venue
//	@Failure		400					{object}	ErrorResponse
//	@Failure		401					{object}	ErrorResponse
//	@Failure		500					{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/venues [post]
func (app *application) createVenueHandler(w http.ResponseWriter, r *http.Request) {
	user := getUserFromContext(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseMultipartForm(maxFormBytes); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	var form CreateVenueForm
	if err := formDecoder.Decode(&form, r.MultipartForm.Value); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(form); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	venue, err := form.toVenue(app.config.campus, app.config.defaultPincode)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	files := r.MultipartForm.File["images"]
	if err := checkImageFiles(files); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	urls, err := app.uploadImages(r.Context(), files)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	venue.Images = urls
	venue.SubmittedBy = &user.ID

	if err := app.store.Venues.Create(r.Context(), venue); err != nil {
		app.destroyImages(urls)
		app.internalServerError(w, r, err)
		return
	}

	app.logger.Infow("venue submitted", "venue_id", venue.ID, "type", venue.Type, "user_id", user.ID, "images", len(urls))

	if err := app.jsonResponse(w, http.StatusCreated, "Venue submitted for verification", venue); err != nil {
		app.internalServerError(w, r, err)
	}
}

func optionalFloat(q url.Values, key string) (*float64, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &f, nil
}

func parseVenueFilter(q url.Values) (venues.Filter, error) {
	var (
		f   venues.Filter
		err error
	)

	if raw := strings.TrimSpace(q.Get("type")); raw != "" {
		t := venues.Type(raw)
		if !t.Valid() {
			return f, fmt.Errorf("type must be PG or Mess")
		}
		f.Type = &t
	}
	if f.MaxDistance, err = optionalFloat(q, "distance"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = optionalFloat(q, "price"); err != nil {
		return f, err
	}
	if f.MinRating, err = optionalFloat(q, "rating"); err != nil {
		return f, err
	}
	return f, nil
}

// VenueListItem is a published venue with its review aggregate.
type VenueListItem struct {
	venues.Venue
	venuereviews.Summary
}

// listVenuesHandler godoc
//
//	@Summary		List published venues
//	@Description	Published venues, highest rated first, each with computedRating, totalReviews and generalSentiment.
//	@Tags			venues
//	@Produce		json
//	@Param			type		query		string	false	"PG or Mess"
//	@Param			distance	query		number	false	"Max distance from campus in km"
//	@Param			price		query		number	false	"Max starting price"
//	@Param			rating		query		number	false	"Min stored rating"
//	@Success		200			{array}		VenueListItem
//	@Failure		400			{object}	ErrorResponse
//	@Failure		500			{object}	ErrorResponse
//	@Router			/venues [get]
func (app *application) listVenuesHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseVenueFilter(r.URL.Query())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	list, err := app.store.Venues.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	items := make([]VenueListItem, 0, len(list))
	if len(list) == 0 {
		if err := app.listResponse(w, http.StatusOK, items, 0); err != nil {
			app.internalServerError(w, r, err)
		}
		return
	}

	ids := make([]int64, len(list))
	for i, v := range list {
		ids[i] = v.ID
	}

	stats, err := app.store.Reviews.StatsForVenues(r.Context(), ids)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	summaries := venuereviews.GroupByVenue(stats)

	for _, v := range list {
		s, ok := summaries[v.ID]
		if !ok {
			s = venuereviews.Summarize(nil)
		}
		items = append(items, VenueListItem{Venue: v, Summary: s})
	}

	if err := app.listResponse(w, http.StatusOK, items, len(items)); err != nil {
		app.internalServerError(w, r, err)
	}
}

func venueIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "venueID"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errResourceNotFound
	}
	return id, nil
}

// VenueDetail is a venue with its reviews, newest first.
type VenueDetail struct {
	venues.Venue
	GeneralSentiment sentiment.Label       `json:"generalSentiment"`
	Reviews          []venuereviews.Review `json:"reviews"`
}

// getVenueHandler godoc
//
//	@Summary		Venue details
//	@Description	Venue with its reviews (author names included) and the majority sentiment.
//	@Tags			venues
//	@Produce		json
//	@Param			venueID	path		int	true	"Venue ID"
//	@Success		200		{object}	VenueDetail
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/venues/{venueID} [get]
func (app *application) getVenueHandler(w http.ResponseWriter, r *http.Request) {
	id, err := venueIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	venue, err := app.store.Venues.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, venues.ErrVenueNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	reviews, err := app.store.Reviews.ListByVenue(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	detail := VenueDetail{
		Venue:            *venue,
		GeneralSentiment: venuereviews.DetailSentiment(reviews),
		Reviews:          reviews,
	}

	if err := app.jsonResponse(w, http.StatusOK, "", detail); err != nil {
		app.internalServerError(w, r, err)
	}
}

const comparisonLimit = 3

// VenueComparison pairs a venue with the nearest published alternatives of its type.
type VenueComparison struct {
	Primary     *venues.Venue  `json:"primary"`
	Comparisons []venues.Venue `json:"comparisons"`
}

// compareVenuesHandler godoc
//
//	@Summary		Compare a venue
//	@Description	Returns the venue and up to 3 published venues of the same type closest to it in distance from campus.
//	@Tags			venues
//	@Produce		json
//	@Param			venueID	path		int	true	"Venue ID"
//	@Success		200		{object}	VenueComparison
//	@Failure		404		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/venues/compare/{venueID} [get]
func (app *application) compareVenuesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := venueIDParam(r)
	if err != nil {
		app.notFoundResponse(w, r, err)
		return
	}

	venue, err := app.store.Venues.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, venues.ErrVenueNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	others, err := app.store.Venues.ListComparable(r.Context(), venue, comparisonLimit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, "", VenueComparison{Primary: venue, Comparisons: others}); err != nil {
		app.internalServerError(w, r, err)
	}
}
