package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Skotchmaster/mindmates/internal/logging"
	"github.com/Skotchmaster/mindmates/pkg/apiclient"
)

const DefaultRange = "7d"

// Ranges are the analytics windows the backend understands.
var Ranges = []string{"7d", "30d", "all"}

var ErrInvalidRange = errors.New("invalid analytics range")

type Tracking struct {
	do      Doer
	session Session
}

func (t *Tracking) Start(ctx context.Context, roomID string) error {
	const endpoint = "/api/tracking/start"

	username, err := currentUsername(ctx, t.session, "start tracking")
	if err != nil {
		return err
	}
	if strings.TrimSpace(roomID) == "" {
		return errors.New("start tracking: room id missing")
	}
	l := logging.FromContext(ctx).With("svc", "tracking.start", "endpoint", endpoint, "username", username, "room_id", roomID)

	if err := t.do.Do(ctx, http.MethodPost, endpoint, nil, trackingRequest{Username: username, RoomID: roomID}, nil); err != nil {
		l.Error("start tracking failed", "error", err)
		return fmt.Errorf("start tracking: %w", err)
	}
	return nil
}

func (t *Tracking) Stop(ctx context.Context, roomID string) (*StopResult, error) {
	const endpoint = "/api/tracking/stop"

	username, err := currentUsername(ctx, t.session, "stop tracking")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(roomID) == "" {
		return nil, errors.New("stop tracking: room id missing")
	}
	l := logging.FromContext(ctx).With("svc", "tracking.stop", "endpoint", endpoint, "username", username, "room_id", roomID)

	var res StopResult
	if err := t.do.Do(ctx, http.MethodPost, endpoint, nil, trackingRequest{Username: username, RoomID: roomID}, &res); err != nil {
		l.Error("stop tracking failed", "error", err)
		return nil, fmt.Errorf("stop tracking: %w", err)
	}
	return &res, nil
}

// Analytics fetches study statistics for rng; an empty rng means the last 7 days.
func (t *Tracking) Analytics(ctx context.Context, rng string) (*Analytics, error) {
	if rng == "" {
		rng = DefaultRange
	}
	if !validRange(rng) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRange, rng)
	}

	username, err := currentUsername(ctx, t.session, "fetch analytics data")
	if err != nil {
		return nil, err
	}
	endpoint := "/api/tracking/user/" + url.PathEscape(username) + "/analytics"
	l := logging.FromContext(ctx).With("svc", "tracking.analytics", "endpoint", endpoint, "range", rng)

	var out Analytics
	if err := t.do.Do(ctx, http.MethodGet, endpoint, apiclient.Query{}.Add("range", rng), nil, &out); err != nil {
		l.Error("fetch analytics failed", "error", err)
		return nil, fmt.Errorf("fetch analytics (range %s): %w", rng, err)
	}
	return &out, nil
}

func validRange(r string) bool {
	for _, v := range Ranges {
		if v == r {
			return true
		}
	}
	return false
}
