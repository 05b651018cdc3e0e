package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/matchsquad/field-session-booking/internal/model"
)

// FieldRepo provides data access to the fields table plus the conflict
// queries the allocator runs against sessions. All scheduling-sensitive
// reads are exposed as ...Tx methods so they execute inside the same
// transaction as the write that consumes their result; a plain
// read-then-write here would be a correctness bug under concurrency,
// not a style choice.
type FieldRepo struct {
	db *sql.DB
}

// NewFieldRepo returns a new FieldRepo bound to the given database.
func NewFieldRepo(db *sql.DB) *FieldRepo { return &FieldRepo{db: db} }

// Create inserts a field under a venue and populates timestamps.
func (r *FieldRepo) Create(ctx context.Context, f *model.Field) error {
	const qInsert = "INSERT INTO fields (venue_id, sport_type, name, status) VALUES (?, ?, ?, ?)"
	if f.Status == "" {
		f.Status = "available"
	}
	res, err := r.db.ExecContext(ctx, qInsert, f.VenueID, f.SportType, f.Name, f.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)

	const qSelect = "SELECT venue_id, sport_type, name, status, created_at, updated_at FROM fields WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, f.ID).
		Scan(&f.VenueID, &f.SportType, &f.Name, &f.Status, &f.CreatedAt, &f.UpdatedAt)
}

// ListByVenue returns all fields of a venue ordered by name.
func (r *FieldRepo) ListByVenue(ctx context.Context, venueID uint64) ([]model.Field, error) {
	const q = `SELECT id, venue_id, sport_type, name, status, created_at, updated_at
               FROM fields WHERE venue_id = ? ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q, venueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	fields := make([]model.Field, 0)
	for rows.Next() {
		var f model.Field
		if err := rows.Scan(&f.ID, &f.VenueID, &f.SportType, &f.Name, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

// SetStatus flips a field between available and unavailable. It
// returns sql.ErrNoRows when the field does not exist.
func (r *FieldRepo) SetStatus(ctx context.Context, fieldID uint64, status string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE fields SET status = ? WHERE id = ?", status, fieldID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// CandidatesTx returns the available fields for a venue and sport,
// ordered by name for a deterministic allocation tie-break, locking the
// rows with FOR UPDATE. The lock is what serializes two concurrent
// allocations for the same venue and sport: the second transaction
// blocks here until the first commits, then observes its booking.
func (r *FieldRepo) CandidatesTx(ctx context.Context, tx *sql.Tx, venueID uint64, sportType string) ([]model.Field, error) {
	const q = `SELECT id, venue_id, sport_type, name, status, created_at, updated_at
               FROM fields
               WHERE venue_id = ? AND sport_type = ? AND status = 'available'
               ORDER BY name
               FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, venueID, sportType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	fields := make([]model.Field, 0)
	for rows.Next() {
		var f model.Field
		if err := rows.Scan(&f.ID, &f.VenueID, &f.SportType, &f.Name, &f.Status, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return fields, nil
}

// BookedFieldIDsTx returns the set of field IDs among fieldIDs that
// hold a non-cancelled, non-completed session on the given date whose
// interval overlaps [start, end) under half-open semantics. Sessions
// with no end time are skipped entirely: they never block a field.
// excludeSessionID, when non-zero, removes one session from
// consideration so an update does not conflict with its own booking.
// Times are "HH:MM:SS" strings matching the TIME columns.
func (r *FieldRepo) BookedFieldIDsTx(ctx context.Context, tx *sql.Tx, fieldIDs []uint64, date time.Time, start, end string, excludeSessionID uint64) (map[uint64]struct{}, error) {
	booked := make(map[uint64]struct{})
	if len(fieldIDs) == 0 {
		return booked, nil
	}
	placeholders := make([]string, len(fieldIDs))
	args := make([]interface{}, 0, len(fieldIDs)+4)
	for i, id := range fieldIDs {
		placeholders[i] = "?"
		args = append(args, id)
	}
	q := `SELECT DISTINCT field_id FROM sessions
          WHERE field_id IN (` + strings.Join(placeholders, ",") + `)
            AND scheduled_date = ?
            AND status IN ('open','full')
            AND scheduled_end_time IS NOT NULL
            AND scheduled_time < ? AND scheduled_end_time > ?`
	args = append(args, date.Format("2006-01-02"), end, start)
	if excludeSessionID != 0 {
		q += " AND id <> ?"
		args = append(args, excludeSessionID)
	}
	rows, err := tx.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		booked[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return booked, nil
}

// IsFieldFreeTx reports whether one specific field is free of
// conflicting sessions at [start, end) on the given date. It is the
// update-path check: a session keeps its bound field across edits, so
// only that field needs re-validation, not a fresh allocation. The
// field row is locked to serialize against concurrent allocations.
func (r *FieldRepo) IsFieldFreeTx(ctx context.Context, tx *sql.Tx, fieldID uint64, date time.Time, start, end string, excludeSessionID uint64) (bool, error) {
	// Lock the field row first; conflict reads then happen under the
	// same serialization point used by CandidatesTx.
	var locked uint64
	if err := tx.QueryRowContext(ctx,
		"SELECT id FROM fields WHERE id = ? FOR UPDATE", fieldID).Scan(&locked); err != nil {
		return false, err
	}
	q := `SELECT COUNT(*) FROM sessions
          WHERE field_id = ?
            AND scheduled_date = ?
            AND status IN ('open','full')
            AND scheduled_end_time IS NOT NULL
            AND scheduled_time < ? AND scheduled_end_time > ?`
	args := []interface{}{fieldID, date.Format("2006-01-02"), end, start}
	if excludeSessionID != 0 {
		q += " AND id <> ?"
		args = append(args, excludeSessionID)
	}
	var n int
	if err := tx.QueryRowContext(ctx, q, args...).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
