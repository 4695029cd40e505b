package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Skotchmaster/mindmates/internal/logging"
)

type Achievements struct {
	do      Doer
	session Session
}

// Check asks the backend to evaluate badge criteria and returns the user's
// achievements afterwards.
func (a *Achievements) Check(ctx context.Context) ([]UserAchievement, error) {
	username, err := currentUsername(ctx, a.session, "check achievements")
	if err != nil {
		return nil, err
	}
	endpoint := "/api/achievements/check/" + url.PathEscape(username)
	l := logging.FromContext(ctx).With("svc", "achievements.check", "endpoint", endpoint, "username", username)

	var out []UserAchievement
	if err := a.do.Do(ctx, http.MethodPost, endpoint, nil, nil, &out); err != nil {
		l.Error("check achievements failed", "error", err)
		return nil, fmt.Errorf("check achievements for %s: %w", username, err)
	}
	return out, nil
}

func (a *Achievements) List(ctx context.Context) ([]UserAchievement, error) {
	username, err := currentUsername(ctx, a.session, "get achievements")
	if err != nil {
		return nil, err
	}
	endpoint := "/api/achievements/user/" + url.PathEscape(username)
	l := logging.FromContext(ctx).With("svc", "achievements.list", "endpoint", endpoint, "username", username)

	var out []UserAchievement
	if err := a.do.Do(ctx, http.MethodGet, endpoint, nil, nil, &out); err != nil {
		l.Error("fetch achievements failed", "error", err)
		return nil, fmt.Errorf("get achievements for %s: %w", username, err)
	}
	return out, nil
}

func (a *Achievements) Stats(ctx context.Context) (*DashboardStats, error) {
	username, err := currentUsername(ctx, a.session, "get dashboard stats")
	if err != nil {
		return nil, err
	}
	endpoint := "/api/achievements/stats/" + url.PathEscape(username)
	l := logging.FromContext(ctx).With("svc", "achievements.stats", "endpoint", endpoint, "username", username)

	var out DashboardStats
	if err := a.do.Do(ctx, http.MethodGet, endpoint, nil, nil, &out); err != nil {
		l.Error("fetch dashboard stats failed", "error", err)
		return nil, fmt.Errorf("get dashboard stats for %s: %w", username, err)
	}
	return &out, nil
}

// EarnedKeys flattens a user's achievements into their badge keys.
func EarnedKeys(list []UserAchievement) []string {
	keys := make([]string, 0, len(list))
	for _, a := range list {
		keys = append(keys, a.Key)
	}
	return keys
}
