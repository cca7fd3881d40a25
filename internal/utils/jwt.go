package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StoreClaims identifies a store operator. Tokens are issued by the
// authentication service; this service only verifies them.
type StoreClaims struct {
	UserID  int64 `json:"user_id"`
	StoreID int64 `json:"store_id"`
	IsAdmin bool  `json:"is_admin,omitempty"`
	jwt.RegisteredClaims
}

// ValidateJWT parses and verifies an HS256 token signed with secret.
func ValidateJWT(tokenString, secret string) (*StoreClaims, error) {
	claims := &StoreClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || (claims.StoreID == 0 && !claims.IsAdmin) {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// SignJWT signs claims with secret. It is used by tests and local tooling;
// production tokens come from the authentication service.
func SignJWT(claims StoreClaims, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
