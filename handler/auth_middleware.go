package handler

import (
	"context"
	"net/http"
	"strings"

	"go-banner-api/model"
	"go-banner-api/service"
)

type contextKey string

// CurrentUserKey holds the authenticated *model.User resolved by the
// Authenticate middleware.
const CurrentUserKey contextKey = "currentUser"

// UserFromContext returns the authenticated user attached by Authenticate,
// or nil if the request never passed through it.
func UserFromContext(ctx context.Context) *model.User {
	user, _ := ctx.Value(CurrentUserKey).(*model.User)
	return user
}

// AuthMiddleware guards protected routes. It delegates all token checks to
// the AuthService so the ordering guarantees (revocation before signature,
// expiry before subject lookup) live in exactly one place.
type AuthMiddleware struct {
	auth *service.AuthService
}

func NewAuthMiddleware(auth *service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// extractBearerToken pulls the token out of the Authorization header. An
// absent or malformed header yields the empty string, which the verifier
// reports as a missing token.
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	headerParts := strings.Split(authHeader, " ")
	if len(headerParts) != 2 || !strings.EqualFold(headerParts[0], "bearer") {
		return ""
	}
	return headerParts[1]
}

// Authenticate verifies the presented token and attaches the resolved user to
// the request context. Runs before any business logic on protected routes.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.auth.VerifyToken(r.Context(), extractBearerToken(r))
		if err != nil {
			appErrorFrom(err, "Could not verify token").Send(w)
			return
		}

		ctx := context.WithValue(r.Context(), CurrentUserKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole enforces role membership for the authenticated user. An empty
// role list admits any authenticated user. Must be chained after Authenticate.
func (m *AuthMiddleware) RequireRole(allowedRoles ...model.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := m.auth.Authorize(UserFromContext(r.Context()), allowedRoles...); err != nil {
				appErrorFrom(err, "Could not authorize request").Send(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
