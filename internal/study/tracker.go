// Package study runs the start/stop flow of a study session inside a room.
package study

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Skotchmaster/mindmates/internal/api"
	"github.com/Skotchmaster/mindmates/internal/events"
	"github.com/Skotchmaster/mindmates/internal/logging"
	"github.com/Skotchmaster/mindmates/pkg/session"
)

var (
	ErrAlreadyStudying = errors.New("already studying")
	ErrNotStudying     = errors.New("not studying")
	ErrOtherRoom       = errors.New("studying in another room")
)

type Tracking interface {
	Start(ctx context.Context, roomID string) error
	Stop(ctx context.Context, roomID string) (*api.StopResult, error)
}

type Checker interface {
	Check(ctx context.Context) ([]api.UserAchievement, error)
}

type Identifier interface {
	Identity(ctx context.Context) (session.Identity, error)
}

type Tracker struct {
	tracking Tracking
	checker  Checker
	ids      Identifier
	pub      events.Publisher
	now      func() time.Time

	mu       sync.Mutex
	studying bool
	roomID   string
	last     time.Duration
}

func NewTracker(t Tracking, c Checker, ids Identifier, pub events.Publisher) *Tracker {
	if pub == nil {
		pub = events.Nop{}
	}
	return &Tracker{tracking: t, checker: c, ids: ids, pub: pub, now: time.Now}
}

// State reports the room being studied, if any.
func (t *Tracker) State() (roomID string, studying bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.roomID, t.studying
}

// LastDuration is the duration reported by the most recent stop.
func (t *Tracker) LastDuration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

func (t *Tracker) Start(ctx context.Context, roomID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.studying {
		return fmt.Errorf("start studying in %s: %w (room %s)", roomID, ErrAlreadyStudying, t.roomID)
	}
	if err := t.tracking.Start(ctx, roomID); err != nil {
		return err
	}

	t.studying = true
	t.roomID = roomID
	t.publish(ctx, events.StudyStarted, roomID, 0)
	return nil
}

// Stop ends the session in roomID; an empty roomID means the current room.
// Naming a room other than the current one fails with ErrOtherRoom. While
// idle a named room is still forwarded to the backend, which may hold a
// session this tracker never saw; only that path surfaces backend errors.
// Otherwise backend failures are logged and the tracker resets anyway. An
// achievement check follows every stop and its outcome is never surfaced.
func (t *Tracker) Stop(ctx context.Context, roomID string) (time.Duration, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch {
	case t.studying && roomID != "" && roomID != t.roomID:
		return 0, fmt.Errorf("stop studying in %s: %w (room %s)", roomID, ErrOtherRoom, t.roomID)
	case t.studying:
		roomID = t.roomID
	case roomID == "":
		return 0, ErrNotStudying
	}

	l := logging.FromContext(ctx).With("svc", "study.stop", "room_id", roomID)

	var d time.Duration
	res, err := t.tracking.Stop(ctx, roomID)
	switch {
	case err != nil && !t.studying:
		return 0, err
	case err != nil:
		l.Error("stop tracking failed, resetting anyway", "error", err)
	case res != nil:
		d = res.Duration()
	}
	if !t.studying {
		l.Info("closed untracked session")
	}

	t.studying = false
	t.roomID = ""
	t.last = d
	t.publish(ctx, events.StudyStopped, roomID, d)

	if earned, err := t.checker.Check(ctx); err != nil {
		l.Warn("achievement check failed", "error", err)
	} else {
		l.Info("achievements checked", "earned", len(earned))
	}
	return d, nil
}

func (t *Tracker) publish(ctx context.Context, kind events.Kind, roomID string, d time.Duration) {
	l := logging.FromContext(ctx).With("svc", "study.events", "kind", string(kind))

	ev := events.Event{Kind: kind, RoomID: roomID, DurationSeconds: int64(d / time.Second), At: t.now().UTC()}
	if id, err := t.ids.Identity(ctx); err == nil {
		ev.Username = id.Username
	}
	if err := t.pub.Publish(ctx, ev); err != nil {
		l.Warn("publish study event failed", "error", err)
	}
}
