package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"habitat/internal/domain/venues"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var venueColumnNames = []string{
	"id", "name", "owner_name", "contact_no", "type", "description",
	"street", "pincode", "latitude", "longitude", "distance_from_campus",
	"image_urls", "cost_min", "cost_max", "cost_per",
	"status", "rating", "ai_summary", "submitted_by",
	"room_types", "sharing_types", "food_type", "meals_provided", "weekly_menu",
	"created_at", "updated_at",
}

func pgVenueRow(id int64, name, status string, distance, rating float64, submittedBy *int64) []any {
	now := time.Now()
	return []any{
		id, name, "Ravi", "9876543210", "PG", "Near gate 2",
		"MSR Nagar", "560054", 13.03, 77.56, distance,
		[]string{"https://img/1.jpg"}, 6000.0, 9000.0, "Month",
		status, rating, venues.DefaultSummary, submittedBy,
		[]string{"1BHK"}, []string{"Double"}, "", []byte(nil), []byte(nil),
		now, now,
	}
}

func multipartVenue(t *testing.T, fields map[string]string, files ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range files {
		fw, err := w.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("not really an image"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/venues", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func pgFields() map[string]string {
	return map[string]string{
		"name":               "Sunrise PG",
		"type":               "PG",
		"ownerName":          "Ravi",
		"contactNo":          "9876543210",
		"minPrice":           "6000",
		"maxPrice":           "9000",
		"street":             "MSR Nagar",
		"latitude":           "13.0306",
		"longitude":          "77.5649",
		"availableRoomTypes": `["1BHK"]`,
		"sharingTypes":       `["Double"]`,
	}
}

// pgInsertArgs lists the insert arguments for the venue built from pgFields.
func pgInsertArgs(images any) []any {
	submitter := int64(3)
	return []any{
		"Sunrise PG", "Ravi", "9876543210", "PG", "",
		"MSR Nagar", "560054", 13.0306, 77.5649, 0.0,
		images, 6000.0, 9000.0, "Month",
		"pending", venues.DefaultSummary, &submitter,
		[]string{"1BHK"}, []string{"Double"}, "", []byte(nil), []byte(nil),
	}
}

func TestCreateVenue(t *testing.T) {
	t.Run("pg with image", func(t *testing.T) {
		app, mock, uploader := newTestApplication(t)
		now := time.Now()
		expectAuthUser(mock, 3, "student")
		image := "https://res.cloudinary.com/demo/image/upload/v1/habitat_venues/venue_1.jpg"
		mock.ExpectQuery(`INSERT INTO venues`).
			WithArgs(pgInsertArgs([]string{image})...).
			WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(10), now, now))

		req := multipartVenue(t, pgFields(), "room.jpg")
		req.Header.Set("Authorization", bearer(t, app, 3, "student"))
		rr, env := serve(app, req)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var v venues.Venue
		require.NoError(t, json.Unmarshal(env.Data, &v))
		assert.Equal(t, int64(10), v.ID)
		assert.Equal(t, venues.StatusPending, v.Status)
		assert.Equal(t, "560054", v.Address.Pincode)
		assert.Equal(t, 0.0, v.DistanceFromCampus)
		assert.Len(t, v.Images, 1)
		require.NotNil(t, v.PGDetails)
		assert.Equal(t, []string{"1BHK"}, v.AvailableRoomTypes)
		assert.Nil(t, v.MessDetails)
		require.NotNil(t, v.SubmittedBy)
		assert.Equal(t, int64(3), *v.SubmittedBy)
		assert.Empty(t, uploader.destroyed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure removes uploaded images", func(t *testing.T) {
		app, mock, uploader := newTestApplication(t)
		expectAuthUser(mock, 3, "student")
		mock.ExpectQuery(`INSERT INTO venues`).
			WithArgs(pgInsertArgs(pgxmock.AnyArg())...).
			WillReturnError(errors.New("connection reset"))

		req := multipartVenue(t, pgFields(), "a.png", "b.webp")
		req.Header.Set("Authorization", bearer(t, app, 3, "student"))
		rr, _ := serve(app, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.ElementsMatch(t, uploader.uploaded, uploader.destroyed)
		assert.Len(t, uploader.destroyed, 2)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unsupported image", func(t *testing.T) {
		app, mock, uploader := newTestApplication(t)
		expectAuthUser(mock, 3, "student")

		req := multipartVenue(t, pgFields(), "doc.pdf")
		req.Header.Set("Authorization", bearer(t, app, 3, "student"))
		rr, _ := serve(app, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Empty(t, uploader.uploaded)
	})

	t.Run("too many images", func(t *testing.T) {
		app, mock, uploader := newTestApplication(t)
		expectAuthUser(mock, 3, "student")

		req := multipartVenue(t, pgFields(), "1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg", "6.jpg", "7.jpg", "8.jpg")
		req.Header.Set("Authorization", bearer(t, app, 3, "student"))
		rr, env := serve(app, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "maximum 7 images allowed", env.Message)
		assert.Empty(t, uploader.uploaded)
	})

	tests := []struct {
		name   string
		mutate func(map[string]string)
	}{
		{"unknown type", func(f map[string]string) { f["type"] = "Hostel" }},
		{"bad contact", func(f map[string]string) { f["contactNo"] = "12345" }},
		{"bad room types json", func(f map[string]string) { f["availableRoomTypes"] = `[1BHK` }},
		{"unknown room type", func(f map[string]string) { f["availableRoomTypes"] = `["Penthouse"]` }},
		{"max below min", func(f map[string]string) { f["maxPrice"] = "100" }},
		{"mess with duplicate day", func(f map[string]string) {
			f["type"] = "Mess"
			f["weeklyMenu"] = `[{"day":"Monday"},{"day":"Monday"}]`
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, mock, _ := newTestApplication(t)
			expectAuthUser(mock, 3, "student")

			fields := pgFields()
			tt.mutate(fields)
			req := multipartVenue(t, fields)
			req.Header.Set("Authorization", bearer(t, app, 3, "student"))
			rr, _ := serve(app, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func TestCreateVenueRequiresAuth(t *testing.T) {
	app, _, _ := newTestApplication(t)

	rr, _ := serve(app, multipartVenue(t, pgFields()))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestListVenues(t *testing.T) {
	t.Run("summaries per venue", func(t *testing.T) {
		app, mock, _ := newTestApplication(t)

		mock.ExpectQuery(`FROM venues WHERE status = \$1 AND type = \$2 ORDER BY rating DESC`).
			WithArgs("published", "PG").
			WillReturnRows(pgxmock.NewRows(venueColumnNames).
				AddRow(pgVenueRow(1, "Sunrise PG", "published", 0.4, 4.5, nil)...).
				AddRow(pgVenueRow(2, "Moonlight PG", "published", 1.1, 0, nil)...))
		mock.ExpectQuery(`FROM reviews WHERE venue_id = ANY\(\$1\)`).
			WithArgs([]int64{1, 2}).
			WillReturnRows(pgxmock.NewRows([]string{"venue_id", "rating", "sentiment"}).
				AddRow(int64(1), 5, "Positive").
				AddRow(int64(1), 4, "Negative").
				AddRow(int64(1), 4, "Positive"))

		rr, env := serve(app, httptest.NewRequest(http.MethodGet, "/api/venues?type=PG", nil))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
		require.NotNil(t, env.Count)
		assert.Equal(t, 2, *env.Count)

		var items []struct {
			ID               int64   `json:"id"`
			ComputedRating   float64 `json:"computedRating"`
			TotalReviews     int     `json:"totalReviews"`
			GeneralSentiment string  `json:"generalSentiment"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &items))
		require.Len(t, items, 2)

		assert.Equal(t, int64(1), items[0].ID)
		assert.Equal(t, 4.3, items[0].ComputedRating)
		assert.Equal(t, 3, items[0].TotalReviews)
		assert.Equal(t, "Positive", items[0].GeneralSentiment)

		assert.Equal(t, 0.0, items[1].ComputedRating)
		assert.Equal(t, 0, items[1].TotalReviews)
		assert.Equal(t, "No Reviews", items[1].GeneralSentiment)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty", func(t *testing.T) {
		app, mock, _ := newTestApplication(t)
		mock.ExpectQuery(`FROM venues WHERE status = \$1 ORDER BY`).
			WithArgs("published").
			WillReturnRows(pgxmock.NewRows(venueColumnNames))

		rr, env := serve(app, httptest.NewRequest(http.MethodGet, "/api/venues", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, env.IsSuccess)
		assert.JSONEq(t, `[]`, string(env.Data))
		require.NotNil(t, env.Count)
		assert.Equal(t, 0, *env.Count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bad filter", func(t *testing.T) {
		app, _, _ := newTestApplication(t)
		for _, q := range []string{"type=Hostel", "distance=far", "price=cheap", "rating=x"} {
			rr, _ := serve(app, httptest.NewRequest(http.MethodGet, "/api/venues?"+q, nil))
			assert.Equal(t, http.StatusBadRequest, rr.Code, q)
		}
	})
}

func TestGetVenue(t *testing.T) {
	t.Run("with reviews", func(t *testing.T) {
		app, mock, _ := newTestApplication(t)
		now := time.Now()

		mock.ExpectQuery(`FROM venues WHERE id = \$1`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows(venueColumnNames).AddRow(pgVenueRow(1, "Sunrise PG", "pending", 0.4, 4.0, nil)...))
		mock.ExpectQuery(`FROM reviews rv`).
			WithArgs(int64(1)).
			WillReturnRows(pgxmock.NewRows([]string{"id", "venue_id", "user_id", "description", "rating", "sentiment", "created_at", "name"}).
				AddRow(int64(9), int64(1), int64(3), "Noisy at night", 3, "Negative", now, "Asha"))

		rr, env := serve(app, httptest.NewRequest(http.MethodGet, "/api/venues/1", nil))
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var detail struct {
			Name             string `json:"name"`
			GeneralSentiment string `json:"generalSentiment"`
			Reviews          []struct {
				UserName string `json:"userName"`
			} `json:"reviews"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &detail))
		assert.Equal(t, "Sunrise PG", detail.Name)
		assert.Equal(t, "Negative", detail.GeneralSentiment)
		require.Len(t, detail.Reviews, 1)
		assert.Equal(t, "Asha", detail.Reviews[0].UserName)
	})

	t.Run("not found", func(t *testing.T) {
		app, mock, _ := newTestApplication(t)
		mock.ExpectQuery(`FROM venues WHERE id = \$1`).
			WithArgs(int64(404)).
			WillReturnError(pgx.ErrNoRows)

		rr, env := serve(app, httptest.NewRequest(http.MethodGet, "/api/venues/404", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Venue not found", env.Message)
	})

	t.Run("malformed id", func(t *testing.T) {
		app, _, _ := newTestApplication(t)

		rr, env := serve(app, httptest.NewRequest(http.MethodGet, "/api/venues/abc", nil))
		assert.Equal(t, http.StatusNotFound, rr.Code)
		assert.Equal(t, "Resource Not Found", env.Message)
	})
}

func TestCompareVenues(t *testing.T) {
	app, mock, _ := newTestApplication(t)

	mock.ExpectQuery(`FROM venues WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows(venueColumnNames).AddRow(pgVenueRow(1, "Sunrise PG", "published", 1.0, 4.0, nil)...))
	mock.ExpectQuery(`ORDER BY ABS\(distance_from_campus - \$4\)`).
		WithArgs("published", "PG", int64(1), 1.0, comparisonLimit).
		WillReturnRows(pgxmock.NewRows(venueColumnNames).
			AddRow(pgVenueRow(2, "Moonlight PG", "published", 1.2, 3.0, nil)...).
			AddRow(pgVenueRow(3, "Starlight PG", "published", 0.7, 4.2, nil)...))

	rr, env := serve(app, httptest.NewRequest(http.MethodGet, "/api/venues/compare/1", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var cmp struct {
		Primary     venues.Venue   `json:"primary"`
		Comparisons []venues.Venue `json:"comparisons"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &cmp))
	assert.Equal(t, int64(1), cmp.Primary.ID)
	require.Len(t, cmp.Comparisons, 2)
	assert.Equal(t, "Moonlight PG", cmp.Comparisons[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
