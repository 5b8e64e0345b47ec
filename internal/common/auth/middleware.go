package auth

import (
	"context"
	"net/http"
)

type contextKey string

const identityContextKey = contextKey("identity")

// Identity is the per-request view of (token claims, profile row) that the
// access gates evaluate. Role and Blocked come from the profile, not the
// token, so admin moderation takes effect on the next request.
type Identity struct {
	UserID  string
	Role    string
	Blocked bool
}

type IdentitySource interface {
	Lookup(ctx context.Context, userID string) (Identity, error)
}

// Authenticated rejects requests without a valid access token and requests
// from blocked profiles. It is the authenticated-and-not-blocked gate.
func Authenticated(mgr *Manager, src IdentitySource) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("Authorization")
			if token == "" {
				http.Error(w, "Authorization header required", http.StatusUnauthorized)
				return
			}

			claims, err := mgr.ParseToken(token)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			if claims.Type != "access" {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			identity, err := src.Lookup(r.Context(), claims.UserID)
			if err != nil {
				http.Error(w, "unknown identity", http.StatusUnauthorized)
				return
			}
			if identity.Blocked {
				http.Error(w, "account blocked", http.StatusForbidden)
				return
			}

			ctx := context.WithValue(r.Context(), identityContextKey, &identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly assumes Authenticated already ran and rejects non-admin roles.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity := FromContext(r)
		if identity == nil {
			http.Error(w, "Authorization header required", http.StatusUnauthorized)
			return
		}
		if identity.Role != "admin" {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func FromContext(r *http.Request) *Identity {
	identity, ok := r.Context().Value(identityContextKey).(*Identity)
	if !ok {
		return nil
	}
	return identity
}
