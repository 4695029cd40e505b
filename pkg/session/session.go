// Package session keeps the bearer token and refresh token of the signed-in
// user and derives the user's identity from the token claims.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Skotchmaster/mindmates/internal/logging"
)

const (
	TokenKey        = "token"
	RefreshTokenKey = "refreshToken"

	RefreshTokenTTL = 24 * time.Hour
)

type Session struct {
	store Storage
	now   func() time.Time
}

type Option func(*Session)

// WithClock overrides the clock used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

func New(store Storage, opts ...Option) *Session {
	s := &Session{store: store, now: time.Now}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Token returns the stored bearer token. Storage failures read as absent.
func (s *Session) Token(ctx context.Context) (string, bool) {
	tok, ok, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		logging.FromContext(ctx).Error("session read failed", "key", TokenKey, "error", err)
		return "", false
	}
	return tok, ok && tok != ""
}

func (s *Session) RefreshToken(ctx context.Context) (string, bool) {
	tok, ok, err := s.store.Get(ctx, RefreshTokenKey)
	if err != nil {
		logging.FromContext(ctx).Error("session read failed", "key", RefreshTokenKey, "error", err)
		return "", false
	}
	return tok, ok && tok != ""
}

func (s *Session) HasToken(ctx context.Context) bool {
	_, ok := s.Token(ctx)
	return ok
}

func (s *Session) Save(ctx context.Context, token, refreshToken string) error {
	if token == "" {
		return errors.New("save session: empty token")
	}
	if err := s.store.Set(ctx, TokenKey, token, 0); err != nil {
		return fmt.Errorf("save session token: %w", err)
	}
	if refreshToken == "" {
		return nil
	}
	if err := s.store.Set(ctx, RefreshTokenKey, refreshToken, RefreshTokenTTL); err != nil {
		return fmt.Errorf("save refresh token: %w", err)
	}
	return nil
}

// Identity decodes the stored token. Expired or undecodable tokens are
// purged before the error is returned.
func (s *Session) Identity(ctx context.Context) (Identity, error) {
	l := logging.FromContext(ctx).With("svc", "session.identity")

	tok, ok := s.Token(ctx)
	if !ok {
		return Identity{}, ErrNoToken
	}

	claims, err := DecodeClaims(tok, s.now())
	if err != nil {
		l.Warn("purging session token", "reason", err.Error())
		if derr := s.store.Delete(ctx, TokenKey); derr != nil {
			l.Error("purge token failed", "error", derr)
		}
		return Identity{}, err
	}

	return Identity{Username: claims.Username, UserID: claims.UserID}, nil
}

func (s *Session) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, TokenKey, RefreshTokenKey); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
