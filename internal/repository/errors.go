// Package repository defines error types that are reused across multiple
// repositories and by the service layer above them. These sentinel values
// let handlers distinguish failure scenarios and translate each into the
// right HTTP response without string matching.
package repository

import "errors"

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own, e.g. a non-creator editing a session's
// schedule. Handlers translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrNoFieldConfigured is returned by the allocator when the requested
// venue has no fields at all for the requested sport. Kept distinct
// from ErrNoFieldAvailable so callers can tell a configuration gap from
// genuine contention.
var ErrNoFieldConfigured = errors.New("no field configured for venue and sport")

// ErrNoFieldAvailable is returned when fields exist for the venue and
// sport but every one of them is booked at the requested time.
var ErrNoFieldAvailable = errors.New("no field available at requested time")

// ErrFieldNotAvailable is returned on the update path when a session's
// already-bound field conflicts with another booking at the new time.
var ErrFieldNotAvailable = errors.New("field not available at new time")

// ErrVenueNotFound is returned when a venue lookup matches no row.
var ErrVenueNotFound = errors.New("venue not found")

// ErrSessionNotFound is returned when a session is missing or, for
// roster operations, already cancelled.
var ErrSessionNotFound = errors.New("session not found")

// ErrAlreadyJoined is returned when a user tries to join a session they
// are already an active participant of.
var ErrAlreadyJoined = errors.New("already joined")

// ErrSessionFull is returned when a join would exceed max_participants.
var ErrSessionFull = errors.New("session full")

// ErrNotAParticipant is returned when a leave finds no active
// membership row for the user.
var ErrNotAParticipant = errors.New("not a participant")

// ErrCreatorCannotLeaveAlone is returned when the creator tries to
// leave a session with no other participants to hand ownership to.
// The caller must cancel instead.
var ErrCreatorCannotLeaveAlone = errors.New("creator cannot leave as sole participant")

// ErrSessionAlreadyStarted is returned when a leave arrives at or after
// the session's scheduled start instant.
var ErrSessionAlreadyStarted = errors.New("session already started")

// ErrCodeCollision is returned when identifier generation keeps hitting
// existing rows past its retry limit. This is an internal fault, not a
// user mistake; handlers map it to a 500.
var ErrCodeCollision = errors.New("identifier generation exhausted retries")
