// Package middleware provides the HTTP middleware chain for the storefront
// API.
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/citizenjaivik/jaivik/pkg/auth"
)

type subjectKey struct{}
type roleKey struct{}

// DeviceHeader carries the installation ID of a signed-out mobile client.
const DeviceHeader = "X-Device-ID"

// Subject resolves who a request's cart, profile and order documents belong
// to: the phone number from a valid bearer token when signed in, otherwise
// the device ID header, otherwise "guest". Every request gets a subject so
// signed-out shoppers still carry a cart.
func Subject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject := "guest"
		role := ""

		if token := bearerToken(r); token != "" {
			if claims, err := auth.ValidateToken(token); err == nil && claims.Phone != "" {
				subject = claims.Phone
				role = claims.Role
			}
		}
		if subject == "guest" {
			if device := strings.TrimSpace(r.Header.Get(DeviceHeader)); device != "" {
				subject = "device:" + device
			}
		}

		ctx := context.WithValue(r.Context(), subjectKey{}, subject)
		if role != "" {
			ctx = context.WithValue(ctx, roleKey{}, role)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RoleFromCtx returns the signed-in user's role. Guests and device subjects
// have no role.
func RoleFromCtx(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(roleKey{}).(string)
	return role, ok && role != ""
}

// SubjectFromCtx returns the resolved subject, or "guest" when the Subject
// middleware did not run.
func SubjectFromCtx(ctx context.Context) string {
	if s, ok := ctx.Value(subjectKey{}).(string); ok && s != "" {
		return s
	}
	return "guest"
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
