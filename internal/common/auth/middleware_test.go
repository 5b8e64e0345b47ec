package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentitySource struct {
	identities map[string]Identity
}

func (f *fakeIdentitySource) Lookup(_ context.Context, userID string) (Identity, error) {
	identity, ok := f.identities[userID]
	if !ok {
		return Identity{}, errors.New("not found")
	}
	return identity, nil
}

func newGatedServer(t *testing.T, mgr *Manager, src IdentitySource, admin bool) http.Handler {
	t.Helper()

	var final http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if admin {
		final = AdminOnly(final)
	}
	return Authenticated(mgr, src)(final)
}

func TestAuthenticatedGate(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour, 24*time.Hour)
	src := &fakeIdentitySource{identities: map[string]Identity{
		"u1": {UserID: "u1", Role: "user"},
		"u2": {UserID: "u2", Role: "admin", Blocked: true},
	}}
	handler := newGatedServer(t, mgr, src, false)

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token rejected on protected route", func(t *testing.T) {
		refresh, err := mgr.GenerateRefreshToken("u1", "user")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", refresh)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid user passes", func(t *testing.T) {
		access, err := mgr.GenerateAccessToken("u1", "user")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", access)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("blocked identity rejected regardless of role", func(t *testing.T) {
		access, err := mgr.GenerateAccessToken("u2", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", access)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}

func TestAdminGate(t *testing.T) {
	mgr := NewManager("test-secret", time.Hour, 24*time.Hour)
	src := &fakeIdentitySource{identities: map[string]Identity{
		"plain": {UserID: "plain", Role: "user"},
		"boss":  {UserID: "boss", Role: "admin"},
	}}
	handler := newGatedServer(t, mgr, src, true)

	t.Run("non-admin rejected with valid session", func(t *testing.T) {
		access, err := mgr.GenerateAccessToken("plain", "user")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", access)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("admin passes", func(t *testing.T) {
		access, err := mgr.GenerateAccessToken("boss", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", access)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("role comes from profile not token", func(t *testing.T) {
		// Token still claims admin, profile was downgraded.
		access, err := mgr.GenerateAccessToken("plain", "admin")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", access)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
