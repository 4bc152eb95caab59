package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepsakehq/keepsake-api/internal/config"
	"github.com/keepsakehq/keepsake-api/internal/service/auth"
)

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "test-jwt-secret-that-is-32-chars-long",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 1440,
	})
	require.NoError(t, err)
	return svc
}

// captureHandler records whether it ran and what user ID it saw.
type captureHandler struct {
	called bool
	userID uuid.UUID
	hasID  bool
}

func (h *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.called = true
	h.userID, h.hasID = GetUserID(r)
	w.WriteHeader(http.StatusOK)
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t)
	userID := uuid.New()

	t.Run("valid token passes user ID through", func(t *testing.T) {
		t.Parallel()

		token, err := jwtService.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		next := &captureHandler{}
		handler := NewAuthMiddleware(jwtService).Authenticate(next)

		req := httptest.NewRequest(http.MethodGet, "/albums", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.True(t, next.called)
		assert.Equal(t, userID, next.userID)
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		t.Parallel()

		next := &captureHandler{}
		handler := NewAuthMiddleware(jwtService).Authenticate(next)

		req := httptest.NewRequest(http.MethodGet, "/albums", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, next.called)
	})

	t.Run("malformed header is rejected", func(t *testing.T) {
		t.Parallel()

		next := &captureHandler{}
		handler := NewAuthMiddleware(jwtService).Authenticate(next)

		req := httptest.NewRequest(http.MethodGet, "/albums", nil)
		req.Header.Set("Authorization", "Token abc123")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, next.called)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		t.Parallel()

		next := &captureHandler{}
		handler := NewAuthMiddleware(jwtService).Authenticate(next)

		req := httptest.NewRequest(http.MethodGet, "/albums", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, next.called)
	})

	t.Run("refresh token is rejected on access routes", func(t *testing.T) {
		t.Parallel()

		refresh, err := jwtService.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		next := &captureHandler{}
		handler := NewAuthMiddleware(jwtService).Authenticate(next)

		req := httptest.NewRequest(http.MethodGet, "/albums", nil)
		req.Header.Set("Authorization", "Bearer "+refresh)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, next.called)
	})
}

func TestAuthenticateOptional(t *testing.T) {
	t.Parallel()

	jwtService := newTestJWTService(t)
	userID := uuid.New()

	t.Run("valid token resolves the user", func(t *testing.T) {
		t.Parallel()

		token, err := jwtService.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		next := &captureHandler{}
		handler := NewAuthMiddleware(jwtService).AuthenticateOptional(next)

		req := httptest.NewRequest(http.MethodPost, "/challenges/x/validate", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.True(t, next.called)
		assert.True(t, next.hasID)
		assert.Equal(t, userID, next.userID)
	})

	t.Run("missing header degrades to anonymous", func(t *testing.T) {
		t.Parallel()

		next := &captureHandler{}
		handler := NewAuthMiddleware(jwtService).AuthenticateOptional(next)

		req := httptest.NewRequest(http.MethodPost, "/challenges/x/validate", nil)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.True(t, next.called)
		assert.False(t, next.hasID)
	})

	t.Run("invalid token degrades to anonymous", func(t *testing.T) {
		t.Parallel()

		next := &captureHandler{}
		handler := NewAuthMiddleware(jwtService).AuthenticateOptional(next)

		req := httptest.NewRequest(http.MethodPost, "/challenges/x/validate", nil)
		req.Header.Set("Authorization", "Bearer expired-or-garbage")
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		assert.True(t, next.called)
		assert.False(t, next.hasID)
	})
}
