package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"habitat/internal/auth"
	"habitat/internal/domain/storage"
	"habitat/internal/geo"
	"habitat/internal/sentiment"
	"habitat/internal/summary"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUploader struct {
	mu        sync.Mutex
	uploaded  []string
	destroyed []string
	fail      error
}

func (f *fakeUploader) Upload(_ context.Context, _ io.Reader, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return "", f.fail
	}
	url := fmt.Sprintf("https://res.cloudinary.com/demo/image/upload/v1/habitat_venues/venue_%d.jpg", len(f.uploaded)+1)
	f.uploaded = append(f.uploaded, url)
	return url, nil
}

func (f *fakeUploader) Destroy(_ context.Context, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.destroyed = append(f.destroyed, url)
	return nil
}

func newTestApplication(t *testing.T) (*application, pgxmock.PgxPoolIface, *fakeUploader) {
	t.Helper()

	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	analyzer, err := sentiment.New(sentiment.DefaultToxicityThreshold)
	require.NoError(t, err)

	logger := zap.NewNop().Sugar()
	store := storage.NewContainer(mock)
	uploader := &fakeUploader{}

	app := &application{
		config: config{
			env:            "test",
			campus:         geo.Point{Lat: 13.0306, Lng: 77.5649},
			defaultPincode: "560054",
			toxicity:       sentiment.DefaultToxicityThreshold,
			adminEmails:    map[string]struct{}{"warden@msrit.edu": {}},
			auth: authConfig{
				basic: basicConfig{user: "ops", pass: "ops-pass"},
			},
		},
		store:         store,
		logger:        logger,
		images:        uploader,
		authenticator: auth.NewJWTAuthenticator("test-secret", "test-refresh-secret", "Habitat", "Habitat"),
		analyzer:      analyzer,
		summaries:     summary.NewService(nil, store.Reviews, store.Venues, logger, time.Second),
	}
	return app, mock, uploader
}

var userColumns = []string{"id", "name", "email", "password", "institution", "occupation", "role", "created_at", "updated_at"}

// expectAuthUser registers the user lookup done by AuthTokenMiddleware.
func expectAuthUser(mock pgxmock.PgxPoolIface, id int64, role string) {
	now := time.Now()
	mock.ExpectQuery(`FROM users\s+WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(id, "Asha", "asha@example.com", []byte("hash"), "MSRIT", "Student", role, now, now))
}

func bearer(t *testing.T, app *application, id int64, role string) string {
	t.Helper()
	access, _, err := app.authenticator.GenerateTokens(id, role)
	require.NoError(t, err)
	return "Bearer " + access
}

type testEnvelope struct {
	IsSuccess bool            `json:"isSuccess"`
	Message   string          `json:"message"`
	Count     *int            `json:"count"`
	Data      json.RawMessage `json:"data"`
	Stack     string          `json:"stack"`
}

func serve(app *application, req *http.Request) (*httptest.ResponseRecorder, testEnvelope) {
	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)

	var env testEnvelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func jsonRequest(method, target string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestUnknownRouteReturnsPageNotFound(t *testing.T) {
	app, _, _ := newTestApplication(t)

	rr, env := serve(app, httptest.NewRequest(http.MethodGet, "/api/nope", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, env.IsSuccess)
	assert.Equal(t, "Page not found", env.Message)
}

func TestHealthCheck(t *testing.T) {
	app, _, _ := newTestApplication(t)

	rr, env := serve(app, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.IsSuccess)
	assert.JSONEq(t, `{"status":"ok","env":"test","version":"`+version+`"}`, string(env.Data))
}

func TestAuthTokenMiddleware(t *testing.T) {
	app, _, _ := newTestApplication(t)

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"wrong scheme", "Basic abc"},
		{"garbage token", "Bearer not-a-jwt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := jsonRequest(http.MethodPost, "/api/auth/logout", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr, env := serve(app, req)
			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, "unauthorized", env.Message)
		})
	}
}

func TestDebugVarsRequiresBasicAuth(t *testing.T) {
	app, _, _ := newTestApplication(t)

	rr, _ := serve(app, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	req := httptest.NewRequest(http.MethodGet, "/debug/vars", nil)
	req.SetBasicAuth("ops", "ops-pass")
	rr = httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestStackOnlyInDevelopment(t *testing.T) {
	app, _, _ := newTestApplication(t)
	err := fmt.Errorf("wrapped: %w", io.EOF)

	assert.Empty(t, app.stack(err))

	app.config.env = "development"
	assert.Contains(t, app.stack(err), "wrapped")
}
