package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"

	"github.com/ballerhq/sportmate/internal/database"
)

func Test_authMiddleware(t *testing.T) {
	key := []byte("test-signing-key")

	tcases := []struct {
		name         string
		setup        func(r *http.Request)
		expectedCode int
		expectedId   string
	}{
		{
			name: "valid cookie token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{
					Name:  tokenCookieKey,
					Value: signTestToken(t, key, jwt.MapClaims{"sub": "user-1"}),
				})
			},
			expectedCode: http.StatusOK,
			expectedId:   "user-1",
		},
		{
			name: "valid bearer token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signTestToken(t, key, jwt.MapClaims{"sub": "user-2"}))
			},
			expectedCode: http.StatusOK,
			expectedId:   "user-2",
		},
		{
			name:         "missing token",
			setup:        func(r *http.Request) {},
			expectedCode: http.StatusUnauthorized,
		},
		{
			name: "token signed with wrong key",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+signTestToken(t, []byte("bad-key"), jwt.MapClaims{"sub": "user-1"}))
			},
			expectedCode: http.StatusUnauthorized,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(t, &database.MockSportMateRepository{})

			var gotId string
			handler := app.authMiddleware(func(w http.ResponseWriter, r *http.Request) {
				gotId, _ = UserId(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/auth/user", nil)
			tc.setup(req)
			handler(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code, "expected status code %d", tc.expectedCode)
			if tc.expectedId != "" {
				assert.Equal(t, tc.expectedId, gotId, "expected identity on request context")
				assert.Equal(t, "no-store, no-cache, must-revalidate, private",
					rr.Header().Get("Cache-Control"), "expected no-store cache headers")
			}
		})
	}
}

func Test_adminMiddleware(t *testing.T) {
	tcases := []struct {
		name         string
		user         database.User
		expectedCode int
		expectNext   bool
	}{
		{
			name:         "admin passes through",
			user:         database.User{Id: "admin-1", IsAdmin: true},
			expectedCode: http.StatusOK,
			expectNext:   true,
		},
		{
			name:         "non-admin is rejected",
			user:         database.User{Id: "user-1", IsAdmin: false},
			expectedCode: http.StatusForbidden,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			mockRepo := &database.MockSportMateRepository{}
			defer mockRepo.AssertExpectations(t)
			mockRepo.On("GetUser", tc.user.Id).Return(tc.user, nil).Once()

			app := newTestApp(t, mockRepo)

			nextCalled := false
			handler := app.adminMiddleware(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			rr := httptest.NewRecorder()
			req := authedRequest(http.MethodGet, "/api/admin/locations", nil, Identity{Id: tc.user.Id})
			handler(rr, req)

			assert.Equal(t, tc.expectedCode, rr.Code, "expected status code %d", tc.expectedCode)
			assert.Equal(t, tc.expectNext, nextCalled, "expected next handler called=%v", tc.expectNext)
		})
	}
}

func Test_errorHandler(t *testing.T) {
	app := newTestApp(t, &database.MockSportMateRepository{})

	handler := app.errorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code, "expected status code to be 500")
	assert.Equal(t, "close", rr.Header().Get("Connection"), "expected connection close header")
}
