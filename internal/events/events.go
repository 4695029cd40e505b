// Package events publishes study activity to a message broker. Publishing is
// best effort: callers log failures and carry on.
package events

import (
	"context"
	"time"
)

type Kind string

const (
	StudyStarted Kind = "study.started"
	StudyStopped Kind = "study.stopped"
)

type Event struct {
	Kind            Kind      `json:"kind"`
	Username        string    `json:"username"`
	RoomID          string    `json:"roomId"`
	DurationSeconds int64     `json:"durationSeconds,omitempty"`
	At              time.Time `json:"at"`
}

type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// Nop drops every event. Used when no brokers are configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
