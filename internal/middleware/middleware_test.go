package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/iyunix/go-sqlchat/internal/ratelimit"
	"github.com/iyunix/go-sqlchat/internal/services"
)

type staticValidator map[string]uint

func (v staticValidator) ValidateJWTToken(token string) (uint, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return 0, errors.New("bad token")
}

func echoUser() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := UserIDFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte{byte('0' + id)})
	})
}

func TestJWTMiddleware(t *testing.T) {
	mw := NewJWTMiddleware(staticValidator{"good": 7}, &services.NoOpLogger{})(echoUser())

	cases := []struct {
		name   string
		setup  func(r *http.Request)
		status int
	}{
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, http.StatusOK},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: AuthCookieName, Value: "good"}) }, http.StatusOK},
		{"missing", func(r *http.Request) {}, http.StatusUnauthorized},
		{"invalid", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"wrong scheme", func(r *http.Request) { r.Header.Set("Authorization", "Basic good") }, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/chat/all", nil)
			tc.setup(r)
			w := httptest.NewRecorder()
			mw.ServeHTTP(w, r)
			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.Equal(t, "7", w.Body.String())
			} else {
				assert.JSONEq(t, `{"success":false,"message":"Unauthorized"}`, w.Body.String())
			}
		})
	}
}

func TestRecoverPanic(t *testing.T) {
	h := RecoverPanic(&services.NoOpLogger{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestRateLimitMiddlewarePerUser(t *testing.T) {
	limiter := ratelimit.NewMemoryRateLimiter(&ratelimit.Config{WindowSize: time.Minute, MaxAttempts: 1, CleanupPeriod: time.Minute})
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	h := RateLimitMiddleware(limiter, "message", KeyByUser, &services.NoOpLogger{})(ok)

	send := func(userID uint) int {
		r := httptest.NewRequest(http.MethodPost, "/api/chat/message", nil)
		r = r.WithContext(WithUserID(r.Context(), userID))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, send(1))
	assert.Equal(t, http.StatusTooManyRequests, send(1))
	assert.Equal(t, http.StatusOK, send(2))
}

func TestLoggingMiddlewareKeepsStatus(t *testing.T) {
	h := LoggingMiddleware(&services.NoOpLogger{})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
}
