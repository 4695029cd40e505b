package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_Publish(t *testing.T) {
	fw := &fakeWriter{}
	p := &KafkaPublisher{w: fw, topic: "study_events"}

	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	require.NoError(t, p.Publish(t.Context(), Event{Kind: StudyStopped, Username: "alice", RoomID: "r1", DurationSeconds: 60, At: at}))

	require.Len(t, fw.msgs, 1)
	m := fw.msgs[0]
	assert.Equal(t, "alice", string(m.Key))
	assert.Equal(t, at, m.Time)
	require.Len(t, m.Headers, 1)
	assert.Equal(t, "study.stopped", string(m.Headers[0].Value))

	var ev Event
	require.NoError(t, json.Unmarshal(m.Value, &ev))
	assert.Equal(t, "r1", ev.RoomID)
	assert.Equal(t, int64(60), ev.DurationSeconds)

	require.NoError(t, p.Close())
	assert.True(t, fw.closed)
}

func TestKafkaPublisher_WriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{w: &fakeWriter{err: boom}, topic: "study_events"}

	err := p.Publish(t.Context(), Event{Kind: StudyStarted, Username: "alice"})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "study_events")
}

func TestOpen(t *testing.T) {
	p, err := Open(nil, "study_events")
	require.NoError(t, err)
	assert.IsType(t, Nop{}, p)
	assert.NoError(t, p.Publish(t.Context(), Event{}))

	p, err = Open([]string{"localhost:9092"}, "study_events")
	require.NoError(t, err)
	assert.IsType(t, &KafkaPublisher{}, p)
	assert.NoError(t, p.Close())

	_, err = NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}
