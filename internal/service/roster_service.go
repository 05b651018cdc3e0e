package service

import (
	"context"
	"database/sql"
	"log"
	"math/rand"
	"time"

	"github.com/matchsquad/field-session-booking/internal/model"
	"github.com/matchsquad/field-session-booking/internal/queue"
	"github.com/matchsquad/field-session-booking/internal/repository"
	"github.com/matchsquad/field-session-booking/internal/schedule"
)

// Action tokens carried by RosterChangedEvent. Downstream consumers
// branch on these, so they are part of the event contract.
const (
	actionParticipantJoined = "participant-joined"
	actionParticipantLeft   = "participant-left"
)

// EventPublisher is the slice of the queue publisher the roster flow
// needs. Keeping it an interface lets tests substitute a recorder and
// lets the service run with no broker at all.
type EventPublisher interface {
	PublishSessionFull(ctx context.Context, evt queue.SessionFullEvent) error
	PublishRosterChanged(ctx context.Context, evt queue.RosterChangedEvent) error
}

// RosterService owns membership: joining, leaving, creator handoff and
// the equal cost resplit that follows every roster change. Like the
// session service, each operation is a single transaction; events go
// out only after commit, and a publish failure never undoes a
// committed roster change.
type RosterService struct {
	DB           *sql.DB
	Sessions     *repository.SessionRepo
	Participants *repository.ParticipantRepo
	Publisher    EventPublisher // may be nil

	// now and randInt exist so tests can pin the clock and the
	// creator-handoff pick. Left nil they fall back to time.Now and
	// math/rand.
	now     func() time.Time
	randInt func(n int) int
}

// NewRosterService wires a RosterService. publisher may be nil, in
// which case no events are emitted.
func NewRosterService(db *sql.DB, sessions *repository.SessionRepo, participants *repository.ParticipantRepo, publisher EventPublisher) *RosterService {
	if db == nil || sessions == nil || participants == nil {
		panic("nil dependency passed to NewRosterService")
	}
	return &RosterService{DB: db, Sessions: sessions, Participants: participants, Publisher: publisher}
}

func (r *RosterService) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UTC()
}

func (r *RosterService) pick(n int) int {
	if r.randInt != nil {
		return r.randInt(n)
	}
	return rand.Intn(n)
}

// started reports whether the session's start instant is at or before
// the current wall clock. Comparison is in UTC; a session starting
// exactly now counts as started.
func (r *RosterService) started(sess *model.Session) (bool, error) {
	startMin, err := schedule.ParseClock(sess.StartTime)
	if err != nil {
		return false, err
	}
	start := schedule.StartInstant(sess.ScheduledDate, startMin)
	return !r.clock().Before(start), nil
}

// Join enrols userID into the session. The session must be open:
// cancelled and completed sessions are reported as not found rather
// than leaking their state to non-members. Joining bumps the roster
// and resplits the cost equally; when the roster hits capacity the
// session flips to full and a session-full event is emitted after
// commit.
func (r *RosterService) Join(ctx context.Context, sessionID, userID uint64) (*model.Session, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	sess, err := r.Sessions.GetByIDForUpdateTx(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Active() {
		return nil, ErrSessionNotFound
	}

	joined, err := r.Participants.ExistsTx(ctx, tx, sess.ID, userID)
	if err != nil {
		return nil, err
	}
	if joined {
		return nil, ErrAlreadyJoined
	}
	count, err := r.Participants.CountTx(ctx, tx, sess.ID)
	if err != nil {
		return nil, err
	}
	if count >= int(sess.MaxParticipants) {
		return nil, ErrSessionFull
	}

	share := SplitCost(sess.TotalCost, count+1)
	p := &model.Participant{SessionID: sess.ID, UserID: userID, CostPerPerson: share}
	if err := r.Participants.CreateTx(ctx, tx, p); err != nil {
		return nil, err
	}
	if err := r.Participants.SetCostAllTx(ctx, tx, sess.ID, share); err != nil {
		return nil, err
	}

	becameFull := count+1 >= int(sess.MaxParticipants)
	if becameFull {
		if err := r.Sessions.SetStatusTx(ctx, tx, sess.ID, model.SessionFull); err != nil {
			return nil, err
		}
		sess.Status = model.SessionFull
	}

	var memberIDs []uint64
	if becameFull {
		memberIDs, err = r.Participants.ListUserIDsTx(ctx, tx, sess.ID)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true

	r.emitRosterChanged(sess.ID, actionParticipantJoined, userID, share, count+1)
	if becameFull {
		r.emitSessionFull(sess, memberIDs)
	}
	return sess, nil
}

// Leave removes userID from the session roster. Ordering matters: the
// lone-creator rule is checked before anything else so a creator alone
// on the roster gets ErrCreatorCannotLeaveAlone (cancel is the way
// out), then the start-time gate, then the delete. If the departing
// user is the creator, ownership transfers to a uniformly random
// remaining participant before the row is removed. The resplit and the
// full-to-open flip follow, all in one transaction.
func (r *RosterService) Leave(ctx context.Context, sessionID, userID uint64) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	sess, err := r.Sessions.GetByIDForUpdateTx(ctx, tx, sessionID)
	if err != nil {
		return err
	}
	if !sess.Active() {
		return ErrSessionNotFound
	}

	memberIDs, err := r.Participants.ListUserIDsTx(ctx, tx, sessionID)
	if err != nil {
		return err
	}
	others := make([]uint64, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != userID {
			others = append(others, id)
		}
	}
	if sess.CreatorID == userID && len(others) == 0 {
		return ErrCreatorCannotLeaveAlone
	}
	if begun, err := r.started(sess); err != nil {
		return err
	} else if begun {
		return ErrSessionAlreadyStarted
	}

	if sess.CreatorID == userID {
		heir := others[r.pick(len(others))]
		if err := r.Sessions.SetCreatorTx(ctx, tx, sessionID, heir); err != nil {
			return err
		}
	}

	// Membership is established by the delete itself; a row count of
	// zero means the caller was never on the roster.
	deleted, err := r.Participants.DeleteTx(ctx, tx, sessionID, userID)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotAParticipant
	}

	remaining := len(memberIDs) - 1
	share := SplitCost(sess.TotalCost, remaining)
	if remaining > 0 {
		if err := r.Participants.SetCostAllTx(ctx, tx, sessionID, share); err != nil {
			return err
		}
	}
	if sess.Status == model.SessionFull {
		if err := r.Sessions.SetStatusTx(ctx, tx, sessionID, model.SessionOpen); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	r.emitRosterChanged(sessionID, actionParticipantLeft, userID, share, remaining)
	return nil
}

// emitRosterChanged publishes after commit; a broker failure is logged
// and otherwise ignored.
func (r *RosterService) emitRosterChanged(sessionID uint64, action string, userID uint64, share float64, count int) {
	if r.Publisher == nil {
		return
	}
	evt := queue.RosterChangedEvent{
		SessionID:        sessionID,
		Action:           action,
		UserID:           userID,
		CostPerPerson:    share,
		ParticipantCount: count,
		OccurredAt:       r.clock().Format(time.RFC3339),
	}
	// Background context: the request may already be done; the event
	// still goes out.
	if err := r.Publisher.PublishRosterChanged(context.Background(), evt); err != nil {
		log.Printf("roster: roster-changed event dropped for session %d: %v", sessionID, err)
	}
}

func (r *RosterService) emitSessionFull(sess *model.Session, memberIDs []uint64) {
	if r.Publisher == nil {
		return
	}
	evt := queue.SessionFullEvent{
		SessionID:          sess.ID,
		SessionCode:        sess.SessionCode,
		Title:              sess.Title,
		Status:             sess.Status,
		ParticipantUserIDs: memberIDs,
		ScheduledDate:      sess.ScheduledDate.Format("2006-01-02"),
		StartTime:          sess.StartTime,
		OccurredAt:         r.clock().Format(time.RFC3339),
	}
	if err := r.Publisher.PublishSessionFull(context.Background(), evt); err != nil {
		log.Printf("roster: session-full event dropped for session %d: %v", sess.ID, err)
	}
}
