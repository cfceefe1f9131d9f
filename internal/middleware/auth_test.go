package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evidence-tracker/internal/model"
)

type stubVerifier struct {
	identity *model.Identity
	err      error
}

func (s *stubVerifier) VerifyToken(string) (*model.Identity, error) {
	return s.identity, s.err
}

func okHandler(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_MissingHeader(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(&stubVerifier{})
	handler := mw.RequireAuth(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evidence", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_BlankBearerToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(&stubVerifier{})
	handler := mw.RequireAuth(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evidence", nil)
	req.Header.Set("Authorization", "Bearer   ")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(&stubVerifier{err: model.ErrInvalidToken})
	handler := mw.RequireAuth(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evidence", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(&stubVerifier{err: model.ErrExpiredToken})
	handler := mw.RequireAuth(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evidence", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireAuth_AttachesIdentity(t *testing.T) {
	t.Parallel()

	identity := &model.Identity{UserID: "u1", Username: "jsmith", Role: model.RoleOfficer}
	mw := NewAuthMiddleware(&stubVerifier{identity: identity})

	var seen *model.Identity
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		seen = got
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/evidence", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, identity, seen)
}

func TestRequireRoles(t *testing.T) {
	t.Parallel()

	identity := &model.Identity{UserID: "u1", Username: "jsmith", Role: model.RoleOfficer}
	mw := NewAuthMiddleware(&stubVerifier{identity: identity})

	protected := mw.RequireAuth(mw.RequireRoles(model.RoleSupervisor, model.RoleAdmin)(okHandler(t)))

	req := httptest.NewRequest(http.MethodPut, "/api/v1/evidence/EV001/status", nil)
	req.Header.Set("Authorization", "Bearer valid")
	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	allowed := mw.RequireAuth(mw.RequireRoles(model.RoleOfficer)(okHandler(t)))
	rec = httptest.NewRecorder()
	allowed.ServeHTTP(rec, req.Clone(req.Context()))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoles_WithoutAuthContext(t *testing.T) {
	t.Parallel()

	mw := NewAuthMiddleware(&stubVerifier{})
	handler := mw.RequireRoles(model.RoleAdmin)(okHandler(t))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
