// Package auth issues and validates the session tokens handed out after OTP
// sign-in, and hashes the OTP codes themselves with bcrypt so a Redis dump
// never leaks a usable code.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/citizenjaivik/jaivik/config"
)

// Roles carried in the token. Everyone signs in the same way; phones listed
// in ADMIN_PHONES get the admin role.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// Claims holds the typed JWT payload. Phone doubles as the subject for all
// per-user documents.
type Claims struct {
	Phone string `json:"phone"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

func secret() []byte {
	return []byte(config.JWTSecret())
}

func roleFor(phone string) string {
	for _, p := range config.AdminPhones() {
		if p == phone {
			return RoleAdmin
		}
	}
	return RoleCustomer
}

// GenerateToken creates a signed session token for a verified phone number.
func GenerateToken(phone string) (string, error) {
	claims := Claims{
		Phone: phone,
		Role:  roleFor(phone),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   phone,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(30 * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret())
}

// ValidateToken parses and validates a JWT string.
func ValidateToken(t string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(t, &Claims{}, func(tok *jwt.Token) (interface{}, error) {
		return secret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}

// HashOTP returns a bcrypt hash of the one-time code.
func HashOTP(code string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckOTP compares a bcrypt hash against the candidate code.
func CheckOTP(hash, code string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code)) == nil
}
