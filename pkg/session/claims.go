package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken        = errors.New("no session token")
	ErrMalformedToken = errors.New("malformed session token")
	ErrTokenExpired   = errors.New("session token expired")
)

// Claims is the payload the backend embeds in the bearer token.
type Claims struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
	jwt.RegisteredClaims
}

type Identity struct {
	Username string `json:"username"`
	UserID   string `json:"userId"`
}

// DecodeClaims reads the token payload without verifying the signature and
// checks the fields the client relies on. A token without exp never expires.
func DecodeClaims(raw string, now time.Time) (*Claims, error) {
	var claims Claims
	if _, _, err := jwt.NewParser().ParseUnverified(raw, &claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if claims.Username == "" {
		return nil, fmt.Errorf("%w: username claim missing", ErrMalformedToken)
	}
	if claims.ExpiresAt != nil && claims.ExpiresAt.Time.Before(now) {
		return nil, ErrTokenExpired
	}
	return &claims, nil
}
