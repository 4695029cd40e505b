package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Skotchmaster/mindmates/internal/logging"
)

var ErrInvalidUser = errors.New("invalid registration")

type Users struct {
	do        Doer
	session   Session
	loginPath string
}

// Login authenticates and, when the backend returns a user id, stores the
// token pair in the session.
func (u *Users) Login(ctx context.Context, emailOrUsername, password string) (*LoginResponse, error) {
	l := logging.FromContext(ctx).With("svc", "users.login", "endpoint", u.loginPath)

	body := map[string]string{"email": emailOrUsername, "password": password}
	var resp LoginResponse
	if err := u.do.Do(ctx, http.MethodPost, u.loginPath, nil, body, &resp); err != nil {
		l.Warn("login failed", "error", err)
		return nil, fmt.Errorf("login: %w", err)
	}

	if resp.ID == "" {
		l.Warn("login response without user id")
		return &resp, nil
	}
	if err := u.session.Save(ctx, resp.Token, resp.RefreshToken); err != nil {
		l.Error("store session failed", "error", err)
		return nil, fmt.Errorf("login: %w", err)
	}

	l.Info("logged in", "user_id", resp.ID)
	return &resp, nil
}

func (u *Users) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	const endpoint = "/api/users/register"
	l := logging.FromContext(ctx).With("svc", "users.register", "endpoint", endpoint, "username", req.Username)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", ErrInvalidUser)
	}

	var user User
	if err := u.do.Do(ctx, http.MethodPost, endpoint, nil, req, &user); err != nil {
		l.Warn("register failed", "error", err)
		return nil, fmt.Errorf("register: %w", err)
	}
	return &user, nil
}

// Logout drops the local session. The backend keeps no client state to revoke.
func (u *Users) Logout(ctx context.Context) error {
	return u.session.Clear(ctx)
}
