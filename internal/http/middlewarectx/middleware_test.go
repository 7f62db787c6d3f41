package middlewarectx_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/roadside-billing/internal/http/middlewarectx"
	"github.com/magabrotheeeer/roadside-billing/internal/lib/jwt"
)

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestJWTMiddleware(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", time.Hour)
	valid, err := maker.GenerateToken("user-1", "admin@example.com", "admin")
	require.NoError(t, err)
	foreign, err := jwt.NewJWTMaker("other-secret", time.Hour).GenerateToken("user-1", "a@b.c", "admin")
	require.NoError(t, err)

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
		wantCalled bool
	}{
		{
			name:       "no token",
			setup:      func(_ *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "basic auth header",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Basic abc") },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "foreign signature",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+foreign) },
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "bearer token",
			setup:      func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+valid) },
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
		{
			name: "cookie token",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: middlewarectx.TokenCookie, Value: valid})
			},
			wantStatus: http.StatusOK,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				id, ok := middlewarectx.UserIDFromContext(r.Context())
				assert.True(t, ok)
				assert.Equal(t, "user-1", id)
				assert.Equal(t, "admin", middlewarectx.RoleFromContext(r.Context()))
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/analytics/revenue", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()

			middlewarectx.JWTMiddleware(maker, newNoopLogger())(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantCalled, called)
			if !tt.wantCalled {
				assert.JSONEq(t, `{"success":false,"message":"`+messageFor(tt.name)+`"}`, rec.Body.String())
			}
		})
	}
}

func messageFor(name string) string {
	if name == "foreign signature" {
		return "Not authorized, token failed"
	}
	return "Not authorized, no token"
}

func TestRequireRole(t *testing.T) {
	maker := jwt.NewJWTMaker("secret", time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := middlewarectx.JWTMiddleware(maker, newNoopLogger())(
		middlewarectx.RequireRole(newNoopLogger(), "admin")(next))

	for role, want := range map[string]int{
		"admin":    http.StatusOK,
		"user":     http.StatusForbidden,
		"mechanic": http.StatusForbidden,
	} {
		t.Run(role, func(t *testing.T) {
			token, err := maker.GenerateToken("u", "u@example.com", role)
			require.NoError(t, err)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, want, rec.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	limiter := middlewarectx.NewIPRateLimiter(3)
	h := middlewarectx.RateLimitMiddleware(limiter, newNoopLogger())(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) }))

	do := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, do("10.0.0.1:5000"))
	}
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1:5001"))
	assert.Equal(t, http.StatusOK, do("10.0.0.2:5000"), "other clients are not affected")
}
