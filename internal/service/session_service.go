package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/matchsquad/field-session-booking/internal/model"
	"github.com/matchsquad/field-session-booking/internal/repository"
	"github.com/matchsquad/field-session-booking/internal/schedule"
)

// Sentinel errors re-exported so handlers can branch without importing
// the repository package directly.
var (
	ErrForbidden               = repository.ErrForbidden
	ErrNoFieldConfigured       = repository.ErrNoFieldConfigured
	ErrNoFieldAvailable        = repository.ErrNoFieldAvailable
	ErrFieldNotAvailable       = repository.ErrFieldNotAvailable
	ErrSessionNotFound         = repository.ErrSessionNotFound
	ErrAlreadyJoined           = repository.ErrAlreadyJoined
	ErrSessionFull             = repository.ErrSessionFull
	ErrNotAParticipant         = repository.ErrNotAParticipant
	ErrCreatorCannotLeaveAlone = repository.ErrCreatorCannotLeaveAlone
	ErrSessionAlreadyStarted   = repository.ErrSessionAlreadyStarted
)

// ErrInvalidInput covers caller mistakes that are rejected before any
// write: malformed clocks, end not after start, capacity out of range,
// negative cost.
var ErrInvalidInput = errors.New("invalid input")

// DefaultMaxParticipants applies when a creator does not specify a
// roster capacity.
const DefaultMaxParticipants = 14

// Capacity bounds for max_participants.
const (
	MinParticipants = 2
	MaxParticipants = 50
)

// CreateSessionInput carries everything needed to create a session.
// StartTime and EndTime are "HH:MM" or "HH:MM:SS" clock strings.
// SportType, VenueID and EndTime must all be present for a field to be
// allocated; if any is absent the session is created without conflict
// protection (the legacy degraded mode).
type CreateSessionInput struct {
	Title           string
	Description     *string
	LocationAddress string
	Date            time.Time
	StartTime       string
	EndTime         *string
	TotalCost       float64
	MaxParticipants uint32 // 0 means DefaultMaxParticipants
	SportType       *string
	VenueID         *uint64
}

// UpdateSessionInput carries the editable attributes for an update.
// Nil pointers mean "leave unchanged". ClearEndTime removes the end
// time (and with it, conflict protection) explicitly, since a nil
// EndTime alone is indistinguishable from "unchanged".
type UpdateSessionInput struct {
	Title           *string
	Description     *string
	LocationAddress *string
	Date            *time.Time
	StartTime       *string
	EndTime         *string
	ClearEndTime    bool
	TotalCost       *float64
	MaxParticipants *uint32
}

// SessionService owns the session lifecycle: create (with field
// allocation), update (with field re-validation), cancel. Each
// operation is one bounded transaction; there are no partial writes.
type SessionService struct {
	DB           *sql.DB
	Sessions     *repository.SessionRepo
	Participants *repository.ParticipantRepo
	Allocator    *FieldAllocator
}

// NewSessionService wires a SessionService. All dependencies must be non-nil.
func NewSessionService(db *sql.DB, sessions *repository.SessionRepo, participants *repository.ParticipantRepo, allocator *FieldAllocator) *SessionService {
	if db == nil || sessions == nil || participants == nil || allocator == nil {
		panic("nil dependency passed to NewSessionService")
	}
	return &SessionService{DB: db, Sessions: sessions, Participants: participants, Allocator: allocator}
}

// normalizeCapacity applies the default and enforces [MinParticipants,
// MaxParticipants].
func normalizeCapacity(requested uint32) (uint32, error) {
	if requested == 0 {
		return DefaultMaxParticipants, nil
	}
	if requested < MinParticipants || requested > MaxParticipants {
		return 0, ErrInvalidInput
	}
	return requested, nil
}

// normalizeSlot parses and validates a start clock and optional end
// clock, returning canonical "HH:MM:SS" strings plus minute values.
// When an end time is present it must lie strictly after the start:
// the primitive itself tolerates inverted intervals, but accepting one
// from a user would store a slot that can never conflict.
func normalizeSlot(start string, end *string) (string, *string, int, *int, error) {
	startMin, err := schedule.ParseClock(start)
	if err != nil {
		return "", nil, 0, nil, ErrInvalidInput
	}
	canonStart := schedule.FormatClock(startMin)
	if end == nil {
		return canonStart, nil, startMin, nil, nil
	}
	endMin, err := schedule.ParseClock(*end)
	if err != nil {
		return "", nil, 0, nil, ErrInvalidInput
	}
	if endMin <= startMin {
		return "", nil, 0, nil, ErrInvalidInput
	}
	canonEnd := schedule.FormatClock(endMin)
	return canonStart, &canonEnd, startMin, &endMin, nil
}

// Create books a new session for creatorID. When sport, venue and end
// time are all present it allocates a field inside the transaction; a
// NoFieldAvailable/NoFieldConfigured result aborts the whole creation.
// The creator is auto-enrolled as the sole participant carrying the
// full cost. Identifier generation retries on collision inside the
// same transaction.
func (s *SessionService) Create(ctx context.Context, creatorID uint64, in CreateSessionInput) (*model.Session, error) {
	if in.Title == "" || in.LocationAddress == "" || in.TotalCost < 0 {
		return nil, ErrInvalidInput
	}
	capacity, err := normalizeCapacity(in.MaxParticipants)
	if err != nil {
		return nil, err
	}
	startTime, endTime, _, _, err := normalizeSlot(in.StartTime, in.EndTime)
	if err != nil {
		return nil, err
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	sess := &model.Session{
		CreatorID:       creatorID,
		Title:           in.Title,
		Description:     in.Description,
		LocationAddress: in.LocationAddress,
		ScheduledDate:   in.Date,
		StartTime:       startTime,
		EndTime:         endTime,
		TotalCost:       in.TotalCost,
		MaxParticipants: capacity,
		Status:          model.SessionOpen,
		SportType:       in.SportType,
	}

	// Allocation requires the full triple; with any of them missing the
	// session is created unbound and unprotected.
	if in.SportType != nil && in.VenueID != nil && endTime != nil {
		field, err := s.Allocator.FindAvailableFieldTx(ctx, tx, *in.VenueID, *in.SportType, in.Date, startTime, *endTime, 0)
		if err != nil {
			return nil, err
		}
		sess.VenueID = in.VenueID
		sess.FieldID = &field.ID
	}

	sess.SessionCode, err = uniqueSessionCode(ctx, tx, s.Sessions)
	if err != nil {
		return nil, err
	}
	sess.InviteCode, err = uniqueInviteCode(ctx, tx, s.Sessions)
	if err != nil {
		return nil, err
	}

	if err := s.Sessions.CreateTx(ctx, tx, sess); err != nil {
		return nil, err
	}
	creator := &model.Participant{
		SessionID:     sess.ID,
		UserID:        creatorID,
		CostPerPerson: in.TotalCost, // sole member carries everything
	}
	if err := s.Participants.CreateTx(ctx, tx, creator); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return sess, nil
}

// Update edits a session. Only the current creator may call it: the
// "only the creator mutates the schedule" rule is part of
// conflict-safety, not middleware garnish. If the session has a bound
// field and the date or either clock changes, the bound field is
// re-validated at the new slot (excluding the session itself); on
// conflict the update aborts with ErrFieldNotAvailable and the row is
// untouched.
func (s *SessionService) Update(ctx context.Context, sessionID, callerID uint64, in UpdateSessionInput) (*model.Session, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	sess, err := s.Sessions.GetByIDForUpdateTx(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.CreatorID != callerID {
		return nil, ErrForbidden
	}
	if !sess.Active() {
		return nil, ErrSessionNotFound
	}

	if in.Title != nil {
		if *in.Title == "" {
			return nil, ErrInvalidInput
		}
		sess.Title = *in.Title
	}
	if in.Description != nil {
		sess.Description = in.Description
	}
	if in.LocationAddress != nil {
		if *in.LocationAddress == "" {
			return nil, ErrInvalidInput
		}
		sess.LocationAddress = *in.LocationAddress
	}

	count, err := s.Participants.CountTx(ctx, tx, sessionID)
	if err != nil {
		return nil, err
	}
	if in.MaxParticipants != nil {
		capacity, err := normalizeCapacity(*in.MaxParticipants)
		if err != nil {
			return nil, err
		}
		if int(capacity) < count {
			return nil, ErrInvalidInput
		}
		sess.MaxParticipants = capacity
	}

	costChanged := false
	if in.TotalCost != nil {
		if *in.TotalCost < 0 {
			return nil, ErrInvalidInput
		}
		costChanged = *in.TotalCost != sess.TotalCost
		sess.TotalCost = *in.TotalCost
	}

	// Assemble the prospective slot from changed and unchanged parts.
	scheduleChanged := false
	if in.Date != nil && !schedule.SameDay(*in.Date, sess.ScheduledDate) {
		sess.ScheduledDate = *in.Date
		scheduleChanged = true
	}
	newStart := sess.StartTime
	if in.StartTime != nil {
		newStart = *in.StartTime
		scheduleChanged = true
	}
	newEnd := sess.EndTime
	if in.ClearEndTime {
		newEnd = nil
		scheduleChanged = true
	} else if in.EndTime != nil {
		newEnd = in.EndTime
		scheduleChanged = true
	}
	startTime, endTime, _, _, err := normalizeSlot(newStart, newEnd)
	if err != nil {
		return nil, err
	}
	sess.StartTime = startTime
	sess.EndTime = endTime

	if scheduleChanged && sess.FieldID != nil && sess.EndTime != nil {
		free, err := s.Allocator.IsFieldAvailableTx(ctx, tx, *sess.FieldID, sess.ScheduledDate, sess.StartTime, *sess.EndTime, sess.ID)
		if err != nil {
			return nil, err
		}
		if !free {
			return nil, ErrFieldNotAvailable
		}
	}

	if err := s.Sessions.UpdateScheduleTx(ctx, tx, sess); err != nil {
		return nil, err
	}
	if costChanged && count > 0 {
		if err := s.Participants.SetCostAllTx(ctx, tx, sessionID, SplitCost(sess.TotalCost, count)); err != nil {
			return nil, err
		}
	}
	// Capacity change can flip the status either way.
	newStatus := sess.Status
	if count >= int(sess.MaxParticipants) {
		newStatus = model.SessionFull
	} else {
		newStatus = model.SessionOpen
	}
	if newStatus != sess.Status {
		if err := s.Sessions.SetStatusTx(ctx, tx, sessionID, newStatus); err != nil {
			return nil, err
		}
		sess.Status = newStatus
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return sess, nil
}

// Cancel marks a session cancelled. Creator-only. Participant rows are
// kept as a historical record, and cancelled sessions never block a
// field again.
func (s *SessionService) Cancel(ctx context.Context, sessionID, callerID uint64) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	sess, err := s.Sessions.GetByIDForUpdateTx(ctx, tx, sessionID)
	if err != nil {
		return err
	}
	if sess.CreatorID != callerID {
		return ErrForbidden
	}
	if !sess.Active() {
		return ErrSessionNotFound
	}
	if err := s.Sessions.SetStatusTx(ctx, tx, sessionID, model.SessionCancelled); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
