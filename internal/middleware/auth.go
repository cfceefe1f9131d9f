package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"evidence-tracker/internal/model"
)

type tokenVerifier interface {
	VerifyToken(tokenString string) (*model.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "identity"

type AuthMiddleware struct {
	verifier tokenVerifier
}

func NewAuthMiddleware(verifier tokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth rejects requests without a bearer token (401) or with a token
// that fails verification (403), and otherwise attaches the verified
// identity to the request context.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authorization header missing")
			return
		}
		if !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "bearer token missing")
			return
		}

		token := strings.TrimSpace(header[7:])
		if token == "" {
			writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "bearer token missing")
			return
		}

		identity, err := m.verifier.VerifyToken(token)
		if err != nil {
			message := "invalid token"
			if errors.Is(err, model.ErrExpiredToken) {
				message = "token expired"
			}
			writeAuthError(w, http.StatusForbidden, "FORBIDDEN", message)
			return
		}

		ctx := context.WithValue(r.Context(), identityContextKey, identity)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles limits a route to callers whose role is in the allowed set.
// Must run after RequireAuth.
func (m *AuthMiddleware) RequireRoles(allowed ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				writeAuthError(w, http.StatusUnauthorized, "UNAUTHORIZED", "authentication required")
				return
			}

			if !identity.Role.In(allowed...) {
				writeAuthError(w, http.StatusForbidden, "FORBIDDEN", "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func IdentityFromContext(ctx context.Context) (*model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	return identity, ok
}

func writeAuthError(w http.ResponseWriter, status int, code string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(model.APIResponse{
		Success: false,
		Error: &model.APIError{
			Code:    code,
			Message: message,
		},
	})
}
