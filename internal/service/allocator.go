package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/matchsquad/field-session-booking/internal/model"
	"github.com/matchsquad/field-session-booking/internal/repository"
)

// FieldAllocator decides which physical field a session occupies. Both
// of its operations must run inside the same transaction as the write
// that consumes the result; the repository's FOR UPDATE reads are what
// prevent two concurrent requests from both seeing a field as free and
// both booking it. A losing concurrent transaction simply serializes
// after the winner and honestly computes "no field available".
type FieldAllocator struct {
	Fields *repository.FieldRepo
}

// NewFieldAllocator constructs a FieldAllocator over the field repository.
func NewFieldAllocator(fields *repository.FieldRepo) *FieldAllocator {
	return &FieldAllocator{Fields: fields}
}

// FindAvailableFieldTx returns the first field (by name order) of the
// venue+sport combination that has no conflicting session at
// [start, end) on date. excludeSessionID, when non-zero, lets an
// update skip the session's own current booking.
//
// Two distinct failures: repository.ErrNoFieldConfigured when the
// venue has no fields for the sport at all, and
// repository.ErrNoFieldAvailable when fields exist but every one is
// booked. Callers may fold both into one user-facing message, but the
// distinction matters for diagnostics.
func (a *FieldAllocator) FindAvailableFieldTx(ctx context.Context, tx *sql.Tx, venueID uint64, sportType string, date time.Time, start, end string, excludeSessionID uint64) (*model.Field, error) {
	candidates, err := a.Fields.CandidatesTx(ctx, tx, venueID, sportType)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, repository.ErrNoFieldConfigured
	}

	ids := make([]uint64, len(candidates))
	for i, f := range candidates {
		ids[i] = f.ID
	}
	booked, err := a.Fields.BookedFieldIDsTx(ctx, tx, ids, date, start, end, excludeSessionID)
	if err != nil {
		return nil, err
	}

	for i := range candidates {
		if _, taken := booked[candidates[i].ID]; !taken {
			return &candidates[i], nil
		}
	}
	return nil, repository.ErrNoFieldAvailable
}

// IsFieldAvailableTx checks a single already-bound field at a new
// time. The update path uses this instead of a fresh allocation so a
// session keeps its field across edits whenever possible.
func (a *FieldAllocator) IsFieldAvailableTx(ctx context.Context, tx *sql.Tx, fieldID uint64, date time.Time, start, end string, excludeSessionID uint64) (bool, error) {
	return a.Fields.IsFieldFreeTx(ctx, tx, fieldID, date, start, end, excludeSessionID)
}
