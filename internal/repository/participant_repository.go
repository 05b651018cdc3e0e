package repository

import (
	"context"
	"database/sql"

	"github.com/matchsquad/field-session-booking/internal/model"
)

// ParticipantRepo provides data access to the participants table: the
// roster rows carrying each member's current cost share. Every method
// that mutates a roster is transaction-scoped because cost shares for
// the whole session are rewritten in the same unit of work.
type ParticipantRepo struct {
	db *sql.DB
}

// NewParticipantRepo returns a new ParticipantRepo bound to the given database.
func NewParticipantRepo(db *sql.DB) *ParticipantRepo { return &ParticipantRepo{db: db} }

// CreateTx inserts a membership row and populates its generated ID.
func (r *ParticipantRepo) CreateTx(ctx context.Context, tx *sql.Tx, p *model.Participant) error {
	const q = `INSERT INTO participants (session_id, user_id, cost_per_person, status)
               VALUES (?, ?, ?, 'active')`
	res, err := tx.ExecContext(ctx, q, p.SessionID, p.UserID, p.CostPerPerson)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	p.Status = "active"
	const sel = "SELECT created_at FROM participants WHERE id = ?"
	return tx.QueryRowContext(ctx, sel, p.ID).Scan(&p.CreatedAt)
}

// ExistsTx reports whether the user already has an active membership in
// the session.
func (r *ParticipantRepo) ExistsTx(ctx context.Context, tx *sql.Tx, sessionID, userID uint64) (bool, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE session_id = ? AND user_id = ? AND status = 'active'`,
		sessionID, userID).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// CountTx returns the number of active participants in a session.
func (r *ParticipantRepo) CountTx(ctx context.Context, tx *sql.Tx, sessionID uint64) (int, error) {
	var n int
	err := tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM participants WHERE session_id = ? AND status = 'active'`,
		sessionID).Scan(&n)
	return n, err
}

// ListUserIDsTx returns the user IDs of all active participants,
// ordered by join time for deterministic output. Used to pick an
// ownership-transfer candidate and to address notifications.
func (r *ParticipantRepo) ListUserIDsTx(ctx context.Context, tx *sql.Tx, sessionID uint64) ([]uint64, error) {
	rows, err := tx.QueryContext(ctx,
		`SELECT user_id FROM participants WHERE session_id = ? AND status = 'active' ORDER BY created_at, id`,
		sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := make([]uint64, 0)
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// DeleteTx removes the user's membership row. Leaving a session deletes
// the row outright; cancelled sessions keep their rosters untouched as
// a historical record. Returns the number of rows removed.
func (r *ParticipantRepo) DeleteTx(ctx context.Context, tx *sql.Tx, sessionID, userID uint64) (int64, error) {
	res, err := tx.ExecContext(ctx,
		`DELETE FROM participants WHERE session_id = ? AND user_id = ? AND status = 'active'`,
		sessionID, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetCostAllTx overwrites cost_per_person for every active participant
// of the session with the same freshly computed share.
func (r *ParticipantRepo) SetCostAllTx(ctx context.Context, tx *sql.Tx, sessionID uint64, cost float64) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE participants SET cost_per_person = ? WHERE session_id = ? AND status = 'active'`,
		cost, sessionID)
	return err
}

// ListBySession returns the full roster of a session ordered by join
// time. This is a plain read used by display endpoints.
func (r *ParticipantRepo) ListBySession(ctx context.Context, sessionID uint64) ([]model.Participant, error) {
	const q = `SELECT id, session_id, user_id, cost_per_person, status, created_at
               FROM participants WHERE session_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, q, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	members := make([]model.Participant, 0)
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.ID, &p.SessionID, &p.UserID, &p.CostPerPerson, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		members = append(members, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return members, nil
}
