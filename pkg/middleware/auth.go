package middleware

import (
	"net/http"

	"github.com/citizenjaivik/jaivik/pkg/auth"
	"github.com/citizenjaivik/jaivik/pkg/response"
)

// AuthMiddleware rejects requests without a valid bearer token. Profile and
// checkout routes sit behind it; cart and catalog routes do not, so guests
// can browse and build a cart before signing in.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Unauthorized(w)
			return
		}

		if _, err := auth.ValidateToken(token); err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}
