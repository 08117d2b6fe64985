package jwt

import (
	"context"
	"net/http"
	"strings"

	"pairlink/internal/pkg/errs"
	"pairlink/internal/pkg/logx"
	"pairlink/internal/pkg/resp"
)

// contextKey prevents key collisions with other packages storing values in the request context.
type contextKey string

const (
	// ContextAdminClaimsKey is the key used to store the parsed AdminClaims in the request context.
	ContextAdminClaimsKey contextKey = "admin_claims"
)

// RequireAdminMiddleware extracts and validates an admin session token from the
// Authorization header. Unlike an identity-extractor, a missing or invalid token
// rejects the request outright: there are no anonymous admin operations.
func RequireAdminMiddleware(secretKey string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				resp.RespondError(w, r, errs.NewError(errs.ErrAdminUnauthorized))
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				resp.RespondError(w, r, errs.NewError(errs.ErrAdminUnauthorized))
				return
			}

			claims, err := ParseToken(parts[1], secretKey)
			if err != nil {
				logx.Warn("Rejected admin request with invalid token", "error", err)
				resp.RespondError(w, r, errs.NewError(errs.ErrAdminUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), ContextAdminClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminClaimsFromContext safely extracts the validated AdminClaims from the request context.
// A nil return means the request did not pass RequireAdminMiddleware.
func GetAdminClaimsFromContext(r *http.Request) *AdminClaims {
	claims, ok := r.Context().Value(ContextAdminClaimsKey).(*AdminClaims)

	if !ok {
		return nil
	}

	return claims
}
