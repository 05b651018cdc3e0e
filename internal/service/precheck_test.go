package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchsquad/field-session-booking/internal/model"
)

type stubScheduleFetcher struct {
	sessions []model.Session
	err      error
}

func (s *stubScheduleFetcher) ListActiveByUser(ctx context.Context, userID uint64) ([]model.Session, error) {
	return s.sessions, s.err
}

func strPtr(s string) *string { return &s }

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func activeSession(id uint64, date, start string, end *string) model.Session {
	return model.Session{
		ID:            id,
		SessionCode:   "abcd-abcd-abcd-abcd",
		Title:         "evening game",
		ScheduledDate: day(date),
		StartTime:     start,
		EndTime:       end,
		Status:        model.SessionOpen,
	}
}

func TestCheckSlotReportsFirstConflict(t *testing.T) {
	fetcher := &stubScheduleFetcher{sessions: []model.Session{
		activeSession(1, "2026-09-05", "08:00:00", strPtr("09:00:00")),
		activeSession(2, "2026-09-05", "10:00:00", strPtr("12:00:00")),
		activeSession(3, "2026-09-05", "11:00:00", strPtr("13:00:00")),
	}}
	svc := NewPrecheckService(fetcher)

	got, err := svc.CheckSlot(context.Background(), 7, day("2026-09-05"), "11:30", strPtr("12:30"))
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, uint64(2), got.SessionID)
	assert.Equal(t, "10:00:00", got.StartTime)
	assert.Equal(t, "12:00:00", got.EndTime)
}

func TestCheckSlotNoConflict(t *testing.T) {
	fetcher := &stubScheduleFetcher{sessions: []model.Session{
		activeSession(1, "2026-09-05", "08:00:00", strPtr("09:00:00")),
	}}
	svc := NewPrecheckService(fetcher)

	// Back-to-back slots do not clash.
	got, err := svc.CheckSlot(context.Background(), 7, day("2026-09-05"), "09:00", strPtr("10:00"))
	require.NoError(t, err)
	assert.Nil(t, got)

	// Same clocks on a different day do not clash either.
	got, err = svc.CheckSlot(context.Background(), 7, day("2026-09-06"), "08:30", strPtr("09:30"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCheckSlotOpenEndedNeverConflicts(t *testing.T) {
	fetcher := &stubScheduleFetcher{sessions: []model.Session{
		activeSession(1, "2026-09-05", "08:00:00", nil),
	}}
	svc := NewPrecheckService(fetcher)

	// Existing session without an end time cannot conflict.
	got, err := svc.CheckSlot(context.Background(), 7, day("2026-09-05"), "08:00", strPtr("09:00"))
	require.NoError(t, err)
	assert.Nil(t, got)

	// Neither can a candidate without one.
	fetcher.sessions = []model.Session{activeSession(1, "2026-09-05", "08:00:00", strPtr("09:00:00"))}
	got, err = svc.CheckSlot(context.Background(), 7, day("2026-09-05"), "08:00", nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCheckSlotFailsOpenOnFetchError(t *testing.T) {
	fetcher := &stubScheduleFetcher{err: errors.New("db down")}
	svc := NewPrecheckService(fetcher)

	got, err := svc.CheckSlot(context.Background(), 7, day("2026-09-05"), "08:00", strPtr("09:00"))
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCheckSlotRejectsBadClock(t *testing.T) {
	svc := NewPrecheckService(&stubScheduleFetcher{})

	_, err := svc.CheckSlot(context.Background(), 7, day("2026-09-05"), "25:00", nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
