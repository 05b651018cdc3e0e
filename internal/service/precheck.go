package service

import (
	"context"
	"log"
	"time"

	"github.com/matchsquad/field-session-booking/internal/model"
	"github.com/matchsquad/field-session-booking/internal/schedule"
)

// UserScheduleFetcher yields the user's active sessions for the
// pre-check. *repository.SessionRepo satisfies it; tests substitute a
// stub.
type UserScheduleFetcher interface {
	ListActiveByUser(ctx context.Context, userID uint64) ([]model.Session, error)
}

// Conflict describes the first personal-schedule clash found for a
// candidate slot.
type Conflict struct {
	SessionID   uint64 `json:"session_id"`
	SessionCode string `json:"session_code"`
	Title       string `json:"title"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

// PrecheckService answers "would this slot clash with anything I'm
// already in" before the user commits to creating or joining. It is
// advisory only: the transactional checks remain the source of truth,
// and any failure here degrades to "no conflict" rather than blocking
// the caller.
type PrecheckService struct {
	Schedule UserScheduleFetcher
}

// NewPrecheckService wires a PrecheckService.
func NewPrecheckService(schedule UserScheduleFetcher) *PrecheckService {
	if schedule == nil {
		panic("nil fetcher passed to NewPrecheckService")
	}
	return &PrecheckService{Schedule: schedule}
}

// CheckSlot reports the first of the user's active sessions that
// overlaps the candidate slot, in the order the fetcher returns them.
// A candidate or existing session without an end time cannot conflict.
// Fetch or parse failures are logged and swallowed: the result is then
// (nil, nil), never an error.
func (p *PrecheckService) CheckSlot(ctx context.Context, userID uint64, date time.Time, startTime string, endTime *string) (*Conflict, error) {
	candidate, ok := toRange(date, startTime, endTime)
	if !ok {
		return nil, ErrInvalidInput
	}

	sessions, err := p.Schedule.ListActiveByUser(ctx, userID)
	if err != nil {
		log.Printf("precheck: schedule fetch failed for user %d: %v", userID, err)
		return nil, nil
	}
	for i := range sessions {
		sess := &sessions[i]
		existing, ok := toRange(sess.ScheduledDate, sess.StartTime, sess.EndTime)
		if !ok {
			// Stored clocks should always parse; skip rather than fail.
			log.Printf("precheck: unparseable slot on session %d", sess.ID)
			continue
		}
		if schedule.Overlaps(candidate, existing) {
			c := &Conflict{
				SessionID:   sess.ID,
				SessionCode: sess.SessionCode,
				Title:       sess.Title,
				StartTime:   sess.StartTime,
			}
			if sess.EndTime != nil {
				c.EndTime = *sess.EndTime
			}
			return c, nil
		}
	}
	return nil, nil
}

// toRange converts stored date/clock columns to the overlap primitive's
// range form. ok is false when a clock fails to parse.
func toRange(date time.Time, start string, end *string) (schedule.Range, bool) {
	startMin, err := schedule.ParseClock(start)
	if err != nil {
		return schedule.Range{}, false
	}
	r := schedule.Range{Date: date, StartMin: startMin}
	if end != nil {
		endMin, err := schedule.ParseClock(*end)
		if err != nil {
			return schedule.Range{}, false
		}
		r.EndMin = &endMin
	}
	return r, true
}
