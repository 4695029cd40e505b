// Package sessiontest mints bearer tokens shaped like the backend's for tests.
package sessiontest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Skotchmaster/mindmates/pkg/session"
)

var signingKey = []byte("sessiontest-key")

// Token signs claims for username/userID expiring at exp. A zero exp omits the claim.
func Token(t testing.TB, username, userID string, exp time.Time) string {
	t.Helper()

	claims := session.Claims{
		Username: username,
		UserID:   userID,
	}
	if !exp.IsZero() {
		claims.ExpiresAt = jwt.NewNumericDate(exp)
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(signingKey)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// Seed stores a fresh token for username/userID in s.
func Seed(t testing.TB, s *session.Session, username, userID string) string {
	t.Helper()

	tok := Token(t, username, userID, time.Now().Add(time.Hour))
	if err := s.Save(t.Context(), tok, "refresh-"+username); err != nil {
		t.Fatalf("seed session: %v", err)
	}
	return tok
}
