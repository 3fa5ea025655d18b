// api/auth/token.go
package auth

import (
	"fmt"
	"time"

	"github.com/dgrijalva/jwt-go"

	argus_errors "github.com/argus-admin/argus/api/errors"
	"github.com/argus-admin/argus/api/model"
)

// Claims is the token payload. Roles are deliberately not embedded; they
// are resolved fresh from the directory on every principal load so a role
// suspension takes effect without waiting for token expiry.
type Claims struct {
	UserID   int    `json:"uid"`
	Username string `json:"username"`
	jwt.StandardClaims
}

// TokenIssuer mints and verifies the HS256 session tokens.
type TokenIssuer struct {
	signingKey []byte
	ttl        time.Duration
}

func NewTokenIssuer(signingKey string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{signingKey: []byte(signingKey), ttl: ttl}
}

// TTL returns the lifetime minted tokens carry.
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Mint issues a signed token for the user.
func (t *TokenIssuer) Mint(user model.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:   user.ID,
		Username: user.Username,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(t.ttl).Unix(),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.signingKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies the token signature and expiry and returns its claims.
func (t *TokenIssuer) Parse(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.signingKey, nil
	})
	if err != nil {
		if ve, ok := err.(*jwt.ValidationError); ok && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, argus_errors.ErrTokenExpired
		}
		return nil, argus_errors.ErrUnauthorized
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, argus_errors.ErrUnauthorized
	}
	return claims, nil
}
