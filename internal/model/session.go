package model

import "time"

// Session status values.  Open and full flip automatically as the
// participant count crosses max_participants.  Cancelled and completed
// are terminal; both are treated as inactive for conflict purposes.
const (
	SessionOpen      = "open"
	SessionFull      = "full"
	SessionCancelled = "cancelled"
	SessionCompleted = "completed"
)

// Session records a scheduled booking of a time slot, optionally bound
// to one field, with a roster of participants splitting its cost.  It
// corresponds to a row in the `sessions` table.  Times are stored as
// TIME columns and surfaced here as "HH:MM:SS" strings; the date is a
// DATE column parsed into a time.Time at midnight UTC.
//
// Fields:
//  ID              – primary key identifier (database assigned).
//  SessionCode     – public 16-char identifier grouped as xxxx-xxxx-xxxx-xxxx; immutable.
//  InviteCode      – 6-char uppercase shareable lookup key; immutable.
//  CreatorID       – user currently responsible for the session; may change
//                    via ownership transfer when the creator leaves.
//  Title           – short display title.
//  Description     – optional longer description.
//  LocationAddress – denormalized display address.
//  ScheduledDate   – calendar day of the session.
//  StartTime       – start of the slot ("HH:MM:SS").
//  EndTime         – end of the slot; nil for legacy sessions, which are
//                    excluded from all conflict checks.
//  TotalCost       – total cost split among active participants.
//  MaxParticipants – roster capacity, between 2 and 50.
//  Status          – one of the Session* constants above.
//  SportType       – sport tag; nil when no field allocation was requested.
//  VenueID         – venue of the allocated field; nil for legacy sessions.
//  FieldID         – allocated field; nil for legacy sessions.  Retained for
//                    the session's whole active lifetime; only the update
//                    path may re-validate it at a new time.
type Session struct {
	ID              uint64    // sessions.id
	SessionCode     string    // sessions.session_code
	InviteCode      string    // sessions.invite_code
	CreatorID       uint64    // sessions.creator_id
	Title           string    // sessions.title
	Description     *string   // sessions.description (nullable)
	LocationAddress string    // sessions.location_address
	ScheduledDate   time.Time // sessions.scheduled_date (DATE)
	StartTime       string    // sessions.scheduled_time (TIME)
	EndTime         *string   // sessions.scheduled_end_time (TIME, nullable)
	TotalCost       float64   // sessions.total_cost
	MaxParticipants uint32    // sessions.max_participants
	Status          string    // sessions.status
	SportType       *string   // sessions.sport_type (nullable)
	VenueID         *uint64   // sessions.venue_id (nullable)
	FieldID         *uint64   // sessions.field_id (nullable)
	CreatedAt       time.Time // sessions.created_at
	UpdatedAt       time.Time // sessions.updated_at
}

// Active reports whether the session still occupies its field for
// conflict purposes.  Cancelled and completed sessions never block.
func (s *Session) Active() bool {
	return s.Status == SessionOpen || s.Status == SessionFull
}
