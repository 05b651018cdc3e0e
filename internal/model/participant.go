package model

import "time"

// Participant is a user's active membership row in a session's roster.
// One row exists per (session, user) pair; leaving deletes the row
// rather than soft-deleting it.  CostPerPerson is rewritten for every
// active member of the session on each join and leave, inside the same
// transaction as the roster change.
//
// Fields:
//  ID            – primary key identifier.
//  SessionID     – session this membership belongs to.
//  UserID        – the member.
//  CostPerPerson – this member's current share of the session cost.
//  Status        – always "active"; enum kept for schema compatibility.
//  CreatedAt     – join timestamp.
type Participant struct {
	ID            uint64    // participants.id
	SessionID     uint64    // participants.session_id
	UserID        uint64    // participants.user_id
	CostPerPerson float64   // participants.cost_per_person
	Status        string    // participants.status
	CreatedAt     time.Time // participants.created_at
}
