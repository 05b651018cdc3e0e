package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchsquad/field-session-booking/internal/model"
	"github.com/matchsquad/field-session-booking/internal/queue"
)

// recordingPublisher captures published events so tests can inspect
// the exact payloads handed to the broker.
type recordingPublisher struct {
	full   []queue.SessionFullEvent
	roster []queue.RosterChangedEvent
	err    error
}

func (p *recordingPublisher) PublishSessionFull(_ context.Context, evt queue.SessionFullEvent) error {
	p.full = append(p.full, evt)
	return p.err
}

func (p *recordingPublisher) PublishRosterChanged(_ context.Context, evt queue.RosterChangedEvent) error {
	p.roster = append(p.roster, evt)
	return p.err
}

func TestRosterChangedEventPayload(t *testing.T) {
	pub := &recordingPublisher{}
	at := time.Date(2030, 6, 15, 18, 30, 0, 0, time.UTC)
	svc := &RosterService{Publisher: pub, now: func() time.Time { return at }}

	svc.emitRosterChanged(7, actionParticipantJoined, 42, 12.50, 4)
	require.Len(t, pub.roster, 1)

	evt := pub.roster[0]
	assert.Equal(t, uint64(7), evt.SessionID)
	assert.Equal(t, "participant-joined", evt.Action)
	assert.Equal(t, uint64(42), evt.UserID)
	assert.Equal(t, 12.50, evt.CostPerPerson)
	assert.Equal(t, 4, evt.ParticipantCount)
	assert.Equal(t, "2030-06-15T18:30:00Z", evt.OccurredAt)

	svc.emitRosterChanged(7, actionParticipantLeft, 42, 16.67, 3)
	require.Len(t, pub.roster, 2)
	assert.Equal(t, "participant-left", pub.roster[1].Action)
}

func TestSessionFullEventPayload(t *testing.T) {
	pub := &recordingPublisher{}
	at := time.Date(2030, 6, 15, 18, 30, 0, 0, time.UTC)
	svc := &RosterService{Publisher: pub, now: func() time.Time { return at }}

	sess := &model.Session{
		ID:            7,
		SessionCode:   "a3f9-0kx2-77qd-m1zp",
		Title:         "friday five-a-side",
		Status:        model.SessionFull,
		ScheduledDate: time.Date(2030, 6, 20, 0, 0, 0, 0, time.UTC),
		StartTime:     "19:00:00",
	}
	svc.emitSessionFull(sess, []uint64{1, 2, 3})
	require.Len(t, pub.full, 1)

	evt := pub.full[0]
	assert.Equal(t, uint64(7), evt.SessionID)
	assert.Equal(t, "a3f9-0kx2-77qd-m1zp", evt.SessionCode)
	assert.Equal(t, "friday five-a-side", evt.Title)
	assert.Equal(t, model.SessionFull, evt.Status)
	assert.Equal(t, []uint64{1, 2, 3}, evt.ParticipantUserIDs)
	assert.Equal(t, "2030-06-20", evt.ScheduledDate)
	assert.Equal(t, "19:00:00", evt.StartTime)
	assert.Equal(t, "2030-06-15T18:30:00Z", evt.OccurredAt)
}

func TestEmitToleratesNilPublisherAndBrokerErrors(t *testing.T) {
	svc := &RosterService{}
	svc.emitRosterChanged(1, actionParticipantJoined, 2, 0, 1) // no publisher configured

	pub := &recordingPublisher{err: errors.New("broker down")}
	svc = &RosterService{Publisher: pub}
	svc.emitRosterChanged(1, actionParticipantLeft, 2, 0, 1)
	svc.emitSessionFull(&model.Session{ID: 1, ScheduledDate: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}, nil)
	assert.Len(t, pub.roster, 1)
	assert.Len(t, pub.full, 1)
}
