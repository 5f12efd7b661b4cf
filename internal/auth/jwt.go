package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"product-catalog/internal/apierr"
	"product-catalog/internal/logger"
)

// Claims represents the JWT claims we expect
type Claims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// ParseToken validates and parses an HMAC-signed JWT token string
func ParseToken(tokenStr string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret not set")
	}

	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		// Verify the signing method
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token failed: %w", err)
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// GetBearerToken extracts the Bearer token from the Authorization header
func GetBearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}

	parts := strings.SplitN(h, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}

	return ""
}

// HasAnyRole checks if the user has any of the specified roles
func HasAnyRole(userRoles []string, allowed ...string) bool {
	set := map[string]struct{}{}
	for _, r := range userRoles {
		set[r] = struct{}{}
	}
	for _, a := range allowed {
		if _, ok := set[a]; ok {
			return true
		}
	}
	return false
}

// JWT admits requests bearing a valid token. When Roles is set the token must
// also carry at least one of them; a valid token without one is Forbidden.
type JWT struct {
	Secret []byte
	Roles  []string
}

// Authorize validates the bearer token.
func (a JWT) Authorize(r *http.Request) error {
	tokenStr := GetBearerToken(r)
	if tokenStr == "" {
		logger.Debugf("JWT.Authorize: no bearer token provided")
		return apierr.Unauthorized("Bearer token is required. Please include an Authorization header.")
	}

	claims, err := ParseToken(tokenStr, a.Secret)
	if err != nil {
		logger.Debugf("JWT.Authorize: %v", err)
		return apierr.Unauthorized("Invalid bearer token.")
	}

	if len(a.Roles) > 0 && !HasAnyRole(claims.Roles, a.Roles...) {
		logger.Debugf("JWT.Authorize: subject %q lacks roles %v", claims.Subject, a.Roles)
		return apierr.Forbidden(fmt.Sprintf("One of the roles %s is required.", strings.Join(a.Roles, ", ")))
	}
	return nil
}
