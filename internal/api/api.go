// Package api exposes one typed module per backend resource. Calls that act
// on behalf of the signed-in user read the identity from the session at call
// time and fail before any request is sent when there is no usable session.
package api

import (
	"context"
	"fmt"
	"io"

	"github.com/Skotchmaster/mindmates/pkg/apiclient"
	"github.com/Skotchmaster/mindmates/pkg/session"
)

// Doer is satisfied by *apiclient.Client.
type Doer interface {
	Do(ctx context.Context, method, path string, query apiclient.Query, body, out any) error
	Upload(ctx context.Context, path, field, filename string, file io.Reader, out any) error
}

// Session is what the modules need from the session store.
type Session interface {
	Identity(ctx context.Context) (session.Identity, error)
	Save(ctx context.Context, token, refreshToken string) error
	Clear(ctx context.Context) error
}

type API struct {
	Users        *Users
	Rooms        *Rooms
	Tracking     *Tracking
	Achievements *Achievements
}

type Options struct {
	// LoginPath defaults to /auth/login.
	LoginPath string
}

func New(d Doer, s Session, opts Options) *API {
	if opts.LoginPath == "" {
		opts.LoginPath = "/auth/login"
	}
	return &API{
		Users:        &Users{do: d, session: s, loginPath: opts.LoginPath},
		Rooms:        &Rooms{do: d, session: s},
		Tracking:     &Tracking{do: d, session: s},
		Achievements: &Achievements{do: d, session: s},
	}
}

func currentUsername(ctx context.Context, s Session, action string) (string, error) {
	id, err := s.Identity(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot %s: user not found: %w", action, err)
	}
	return id.Username, nil
}

func currentUserID(ctx context.Context, s Session, action string) (string, error) {
	id, err := s.Identity(ctx)
	if err != nil {
		return "", fmt.Errorf("cannot %s: user not found: %w", action, err)
	}
	if id.UserID == "" {
		return "", fmt.Errorf("cannot %s: %w: userId claim missing", action, session.ErrMalformedToken)
	}
	return id.UserID, nil
}
