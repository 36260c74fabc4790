package middleware

import (
	"context"
	"net/http"

	"dineqr-order-service/internal/auth"
	"dineqr-order-service/pkg/response"
)

const claimsKey contextKey = "authClaims"

// HotelAuth guards staff routes. Every request past it carries verified
// claims bound to a hotel, which is what scopes all downstream queries.
func HotelAuth(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := auth.ParseBearerToken(r.Header.Get("Authorization"))
			if !ok {
				response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
				return
			}

			claims, err := auth.VerifyAccessToken(jwtSecret, token)
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid or expired token")
				return
			}
			if claims.HotelID == nil {
				response.Error(w, http.StatusForbidden, "FORBIDDEN", "token is not bound to a hotel")
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ClaimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// HotelIDFrom returns the hotel the authenticated user belongs to. It is only
// valid behind HotelAuth.
func HotelIDFrom(ctx context.Context) (int64, bool) {
	claims, ok := ClaimsFrom(ctx)
	if !ok || claims.HotelID == nil {
		return 0, false
	}
	return *claims.HotelID, true
}
