package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/mindmates/pkg/session"
	"github.com/Skotchmaster/mindmates/pkg/session/sessiontest"
)

func TestIdentity_ValidToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := session.New(session.NewMemoryStorage())
	tok := sessiontest.Token(t, "alice", "u1", time.Now().Add(time.Hour))
	require.NoError(t, s.Save(ctx, tok, "R"))

	id, err := s.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, session.Identity{Username: "alice", UserID: "u1"}, id)

	got, ok := s.Token(ctx)
	require.True(t, ok)
	assert.Equal(t, tok, got)
}

func TestIdentity_ExpiredTokenIsPurged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	for _, age := range []time.Duration{time.Second, time.Hour, 30 * 24 * time.Hour} {
		store := session.NewMemoryStorage()
		s := session.New(store)
		require.NoError(t, s.Save(ctx, sessiontest.Token(t, "alice", "u1", time.Now().Add(-age)), "R"))

		_, err := s.Identity(ctx)
		require.ErrorIs(t, err, session.ErrTokenExpired)

		_, ok, err := store.Get(ctx, session.TokenKey)
		require.NoError(t, err)
		assert.False(t, ok, "expired token must be purged (age %s)", age)
		assert.False(t, s.HasToken(ctx))
	}
}

func TestIdentity_UsesInjectedClock(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	exp := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	s := session.New(session.NewMemoryStorage(), session.WithClock(func() time.Time { return exp.Add(time.Minute) }))
	require.NoError(t, s.Save(ctx, sessiontest.Token(t, "alice", "u1", exp), ""))

	_, err := s.Identity(ctx)
	require.ErrorIs(t, err, session.ErrTokenExpired)
}

func TestIdentity_Malformed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-jwt"},
		{name: "missing username", token: sessiontest.Token(t, "", "u1", time.Now().Add(time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := session.New(session.NewMemoryStorage())
			require.NoError(t, s.Save(ctx, tt.token, ""))

			_, err := s.Identity(ctx)
			require.ErrorIs(t, err, session.ErrMalformedToken)
			assert.False(t, s.HasToken(ctx))
		})
	}
}

func TestIdentity_NoToken(t *testing.T) {
	t.Parallel()

	s := session.New(session.NewMemoryStorage())
	_, err := s.Identity(context.Background())
	require.ErrorIs(t, err, session.ErrNoToken)
}

func TestIdentity_NoExpiryClaim(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := session.New(session.NewMemoryStorage())
	require.NoError(t, s.Save(ctx, sessiontest.Token(t, "bob", "u2", time.Time{}), ""))

	id, err := s.Identity(ctx)
	require.NoError(t, err)
	assert.Equal(t, "bob", id.Username)
}

func TestClear(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := session.New(session.NewMemoryStorage())
	sessiontest.Seed(t, s, "alice", "u1")

	_, ok := s.RefreshToken(ctx)
	require.True(t, ok)

	require.NoError(t, s.Clear(ctx))
	assert.False(t, s.HasToken(ctx))
	_, ok = s.RefreshToken(ctx)
	assert.False(t, ok)
}

func TestSave_RejectsEmptyToken(t *testing.T) {
	t.Parallel()

	s := session.New(session.NewMemoryStorage())
	require.Error(t, s.Save(context.Background(), "", "R"))
}
