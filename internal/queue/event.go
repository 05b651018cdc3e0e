// Package queue defines message payloads exchanged over the message broker,
// plus the publisher and background consumer that move them.
package queue

// SessionFullEvent is published when a join brings a session to its
// participant capacity. It carries enough information for downstream
// notifiers to address every member without querying the primary
// database.
type SessionFullEvent struct {
	SessionID          uint64   `json:"session_id"`
	SessionCode        string   `json:"session_code"`
	Title              string   `json:"title"`
	Status             string   `json:"status"` // always "full"
	ParticipantUserIDs []uint64 `json:"participant_user_ids"`
	ScheduledDate      string   `json:"scheduled_date"`
	StartTime          string   `json:"start_time"`
	OccurredAt         string   `json:"occurred_at"`
}

// RosterChangedEvent is published after every committed join or leave
// so the realtime layer can broadcast to clients watching the session.
// Action is "participant-joined" or "participant-left".
type RosterChangedEvent struct {
	SessionID        uint64  `json:"session_id"`
	Action           string  `json:"action"`
	UserID           uint64  `json:"user_id"`
	CostPerPerson    float64 `json:"cost_per_person"`
	ParticipantCount int     `json:"participant_count"`
	OccurredAt       string  `json:"occurred_at"`
}
