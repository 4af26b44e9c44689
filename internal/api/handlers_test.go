package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/ballerhq/sportmate/internal/config"
	"github.com/ballerhq/sportmate/internal/database"
	"github.com/ballerhq/sportmate/internal/moderation"
	"github.com/ballerhq/sportmate/internal/testutil"
)

func newTestApp(t *testing.T, repo *database.MockSportMateRepository) *SportMateApp {
	t.Helper()

	filter, err := moderation.NewFilter(moderation.BannedTerms)
	assert.NoError(t, err, "expected moderation filter to build")

	cfg := &config.Config{
		ServerAddr:     "localhost:8000",
		DatabaseDSN:    "postgres://test",
		SigningKey:     []byte("test-signing-key"),
		AllowedOrigins: []string{"http://localhost:3000"},
		UploadDir:      t.TempDir(),
	}

	return NewSportMateApp(http.NewServeMux(), testutil.TestLogger(t), nil, repo, filter, cfg)
}

func authedRequest(method, target string, body io.Reader, id Identity) *http.Request {
	req := httptest.NewRequest(method, target, body)
	return req.WithContext(WithIdentity(req.Context(), id))
}

// ServeMux panics at registration time when two patterns can match the same
// request, so the whole table has to stay conflict-free.
func Test_routeTable(t *testing.T) {
	mockRepo := &database.MockSportMateRepository{}

	filter, err := moderation.NewFilter(moderation.BannedTerms)
	assert.NoError(t, err, "expected moderation filter to build")

	cfg := &config.Config{
		ServerAddr:     "localhost:8000",
		DatabaseDSN:    "postgres://test",
		SigningKey:     []byte("test-signing-key"),
		AllowedOrigins: []string{"http://localhost:3000"},
		UploadDir:      t.TempDir(),
	}

	mux := http.NewServeMux()
	assert.NotPanics(t, func() {
		NewSportMateApp(mux, testutil.TestLogger(t), nil, mockRepo, filter, cfg)
	}, "expected every route to register without a pattern conflict")

	tcases := []struct {
		method  string
		path    string
		pattern string
	}{
		{http.MethodGet, "/api/users/host-1/events", "GET /api/users/{hostId}/events"},
		{http.MethodGet, "/api/events/7", "GET /api/events/{id}"},
		{http.MethodGet, "/api/events/7/rsvps", "GET /api/events/{id}/rsvps"},
		{http.MethodGet, "/api/events/7/messages", "GET /api/events/{id}/messages"},
	}

	for _, tc := range tcases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		_, pattern := mux.Handler(req)
		assert.Equal(t, tc.pattern, pattern, "expected %s %s to resolve to a single pattern", tc.method, tc.path)
	}
}

func Test_healthz(t *testing.T) {
	tcases := []struct {
		name         string
		mockErr      error
		expectedCode int
	}{
		{
			name:         "healthy",
			mockErr:      nil,
			expectedCode: http.StatusOK,
		},
		{
			name:         "database unreachable",
			mockErr:      errors.New("connection refused"),
			expectedCode: http.StatusServiceUnavailable,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockSportMateRepository{}
			defer mockRepo.AssertExpectations(t)
			mockRepo.On("Ping").Return(tc.mockErr).Once()

			app := newTestApp(t, mockRepo)
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			app.healthz(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code, "expected status code %d", tc.expectedCode)
		})
	}
}

func Test_authUser(t *testing.T) {
	identity := Identity{
		Id:              "user-1",
		Email:           "jordan@example.com",
		FirstName:       "Jordan",
		LastName:        "Lee",
		ProfileImageUrl: "https://cdn.example.com/jordan.png",
	}

	mockRepo := &database.MockSportMateRepository{}
	defer mockRepo.AssertExpectations(t)
	mockRepo.On("UpsertUser", database.UpsertUserParams{
		Id:              identity.Id,
		Email:           identity.Email,
		FirstName:       identity.FirstName,
		LastName:        identity.LastName,
		ProfileImageUrl: identity.ProfileImageUrl,
	}).Return(database.User{
		Id:                 identity.Id,
		Email:              identity.Email,
		FirstName:          identity.FirstName,
		LastName:           identity.LastName,
		ProfileImageUrl:    identity.ProfileImageUrl,
		VerificationStatus: "unverified",
		UserTier:           "free",
		CreatedAt:          time.Now().UTC(),
	}, nil).Once()

	app := newTestApp(t, mockRepo)
	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/auth/user", nil, identity)
	app.authUser(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "expected status code to be 200")
	assert.Contains(t, rr.Body.String(), `"id":"user-1"`, "expected user id in response")
	assert.Contains(t, rr.Body.String(), `"userTier":"free"`, "expected tier in response")
}

func Test_authUser_noIdentity(t *testing.T) {
	mockRepo := &database.MockSportMateRepository{}
	defer mockRepo.AssertExpectations(t)

	app := newTestApp(t, mockRepo)
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
	app.authUser(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code, "expected status code to be 401")
	mockRepo.AssertNotCalled(t, "UpsertUser")
}

func Test_updatePreferences(t *testing.T) {
	identity := Identity{Id: "user-1"}

	tcases := []struct {
		name         string
		body         string
		mockErr      error
		expectCall   bool
		expectedCode int
	}{
		{
			name:         "successfully updates preferences",
			body:         `{"genderIdentity":"woman","sportsInterests":["basketball","tennis"],"skillLevel":"intermediate","searchRadius":25}`,
			expectCall:   true,
			expectedCode: http.StatusOK,
		},
		{
			name:         "invalid json body",
			body:         "not json",
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "invalid skill level",
			body:         `{"skillLevel":"olympian"}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "search radius too large",
			body:         `{"searchRadius":500}`,
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "database error",
			body:         `{"skillLevel":"beginner"}`,
			mockErr:      errors.New("db error"),
			expectCall:   true,
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockSportMateRepository{}
			defer mockRepo.AssertExpectations(t)
			if tc.expectCall {
				mockRepo.On("UpdateUserPreferences", mock.AnythingOfType("database.UpdatePreferencesParams")).
					Return(database.User{Id: identity.Id}, tc.mockErr).Once()
			}

			app := newTestApp(t, mockRepo)
			rr := httptest.NewRecorder()
			req := authedRequest(http.MethodPut, "/api/user/preferences", strings.NewReader(tc.body), identity)
			app.updatePreferences(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code, "expected status code %d", tc.expectedCode)
		})
	}
}

func Test_userStats(t *testing.T) {
	identity := Identity{Id: "user-1"}

	mockRepo := &database.MockSportMateRepository{}
	defer mockRepo.AssertExpectations(t)
	mockRepo.On("GetUser", identity.Id).Return(database.User{
		Id:        identity.Id,
		RepPoints: 265,
		UserTier:  "premium",
	}, nil).Once()
	mockRepo.On("GetEventsByHost", identity.Id).Return([]database.Event{{Id: 1}, {Id: 2}}, nil).Once()
	mockRepo.On("GetRsvpsByUser", identity.Id).Return([]database.EventRsvp{{Id: 3}}, nil).Once()

	app := newTestApp(t, mockRepo)
	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/user/stats", nil, identity)
	app.userStats(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "expected status code to be 200")
	assert.JSONEq(t, `{"repPoints":265,"userTier":"premium","eventsHosted":2,"eventsJoined":1}`,
		rr.Body.String(), "expected stats payload")
}

func Test_repPoints(t *testing.T) {
	identity := Identity{Id: "user-1"}

	mockRepo := &database.MockSportMateRepository{}
	defer mockRepo.AssertExpectations(t)
	mockRepo.On("GetRepPoints", identity.Id).Return(120, nil).Once()

	app := newTestApp(t, mockRepo)
	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/user/rep-points", nil, identity)
	app.repPoints(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "expected status code to be 200")
	assert.JSONEq(t, `{"repPoints":120}`, rr.Body.String(), "expected rep points payload")
}

func Test_premiumAccess(t *testing.T) {
	identity := Identity{Id: "user-1"}

	tcases := []struct {
		name      string
		feature   string
		hasAccess bool
	}{
		{
			name:      "feature allowed for tier",
			feature:   "same_day_events",
			hasAccess: true,
		},
		{
			name:      "feature not allowed for tier",
			feature:   "unlimited_events",
			hasAccess: false,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockSportMateRepository{}
			defer mockRepo.AssertExpectations(t)
			mockRepo.On("CheckPremiumAccess", identity.Id, tc.feature).Return(tc.hasAccess, nil).Once()

			app := newTestApp(t, mockRepo)
			rr := httptest.NewRecorder()
			req := authedRequest(http.MethodGet, "/api/user/premium-access/"+tc.feature, nil, identity)
			req.SetPathValue("feature", tc.feature)
			app.premiumAccess(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code, "expected status code to be 200")
			assert.Contains(t, rr.Body.String(), fmt.Sprintf(`"hasAccess":%v`, tc.hasAccess),
				"expected hasAccess=%v", tc.hasAccess)
		})
	}
}

func Test_userRsvps(t *testing.T) {
	identity := Identity{Id: "user-1"}

	mockRepo := &database.MockSportMateRepository{}
	defer mockRepo.AssertExpectations(t)
	mockRepo.On("GetRsvpsByUser", identity.Id).Return([]database.EventRsvp{
		{
			Id:      1,
			EventId: 7,
			UserId:  identity.Id,
			Status:  "joined",
			Event:   database.Event{Id: 7, Title: "Sunday Pickup"},
		},
	}, nil).Once()

	app := newTestApp(t, mockRepo)
	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/user/rsvps", nil, identity)
	app.userRsvps(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "expected status code to be 200")
	assert.Contains(t, rr.Body.String(), `"Sunday Pickup"`, "expected embedded event details")
}

func Test_userSwipes(t *testing.T) {
	identity := Identity{Id: "user-1"}

	mockRepo := &database.MockSportMateRepository{}
	defer mockRepo.AssertExpectations(t)
	mockRepo.On("GetSwipesByUser", identity.Id).Return([]database.UserSwipe{
		{Id: 1, UserId: identity.Id, EventId: 7, Direction: "right"},
	}, nil).Once()

	app := newTestApp(t, mockRepo)
	rr := httptest.NewRecorder()
	req := authedRequest(http.MethodGet, "/api/user/swipes", nil, identity)
	app.userSwipes(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code, "expected status code to be 200")
	assert.Contains(t, rr.Body.String(), `"direction":"right"`, "expected swipe direction in response")
}
