package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchsquad/field-session-booking/internal/model"
)

// SessionRepo provides CRUD operations for sessions. Writes that
// participate in scheduling decisions are exposed only as ...Tx
// variants; the caller owns the surrounding transaction and must
// commit or roll back.
type SessionRepo struct {
	db *sql.DB
}

// NewSessionRepo returns a new SessionRepo bound to the given database.
func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

const sessionColumns = `id, session_code, invite_code, creator_id, title, description,
       location_address, scheduled_date, scheduled_time, scheduled_end_time,
       total_cost, max_participants, status, sport_type, venue_id, field_id,
       created_at, updated_at`

// scanSession reads one row of sessionColumns into a model.Session.
func scanSession(row interface{ Scan(...interface{}) error }) (*model.Session, error) {
	var (
		s       model.Session
		desc    sql.NullString
		endTime sql.NullString
		sport   sql.NullString
		venueID sql.NullInt64
		fieldID sql.NullInt64
	)
	err := row.Scan(
		&s.ID, &s.SessionCode, &s.InviteCode, &s.CreatorID, &s.Title, &desc,
		&s.LocationAddress, &s.ScheduledDate, &s.StartTime, &endTime,
		&s.TotalCost, &s.MaxParticipants, &s.Status, &sport, &venueID, &fieldID,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if desc.Valid {
		v := desc.String
		s.Description = &v
	}
	if endTime.Valid {
		v := endTime.String
		s.EndTime = &v
	}
	if sport.Valid {
		v := sport.String
		s.SportType = &v
	}
	if venueID.Valid {
		v := uint64(venueID.Int64)
		s.VenueID = &v
	}
	if fieldID.Valid {
		v := uint64(fieldID.Int64)
		s.FieldID = &v
	}
	return &s, nil
}

// CreateTx inserts a new session within the scope of an existing
// transaction and populates the generated ID plus stored defaults on
// the provided record. The caller must commit or roll back.
func (r *SessionRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Session) error {
	const q = `INSERT INTO sessions
        (session_code, invite_code, creator_id, title, description, location_address,
         scheduled_date, scheduled_time, scheduled_end_time, total_cost,
         max_participants, status, sport_type, venue_id, field_id)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		s.SessionCode, s.InviteCode, s.CreatorID, s.Title, s.Description, s.LocationAddress,
		s.ScheduledDate.Format("2006-01-02"), s.StartTime, s.EndTime, s.TotalCost,
		s.MaxParticipants, s.Status, s.SportType, s.VenueID, s.FieldID,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)

	const sel = "SELECT created_at, updated_at FROM sessions WHERE id = ?"
	return tx.QueryRowContext(ctx, sel, s.ID).Scan(&s.CreatedAt, &s.UpdatedAt)
}

// GetByID fetches a session by primary key. Returns ErrSessionNotFound
// when no row matches.
func (r *SessionRepo) GetByID(ctx context.Context, id uint64) (*model.Session, error) {
	const q = "SELECT " + sessionColumns + " FROM sessions WHERE id = ?"
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return s, err
}

// GetByInviteCode fetches a session via its 6-character invite code.
func (r *SessionRepo) GetByInviteCode(ctx context.Context, code string) (*model.Session, error) {
	const q = "SELECT " + sessionColumns + " FROM sessions WHERE invite_code = ?"
	s, err := scanSession(r.db.QueryRowContext(ctx, q, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return s, err
}

// GetByIDForUpdateTx loads a session inside a transaction with a row
// lock, serializing roster and schedule mutations for that session.
func (r *SessionRepo) GetByIDForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Session, error) {
	const q = "SELECT " + sessionColumns + " FROM sessions WHERE id = ? FOR UPDATE"
	s, err := scanSession(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return s, err
}

// SessionCodeExistsTx reports whether a public session code is taken.
// Runs in the creation transaction so the collision retry loop and the
// insert see the same snapshot.
func (r *SessionRepo) SessionCodeExistsTx(ctx context.Context, tx *sql.Tx, code string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE session_code = ?", code).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// InviteCodeExistsTx reports whether an invite code is taken.
func (r *SessionRepo) InviteCodeExistsTx(ctx context.Context, tx *sql.Tx, code string) (bool, error) {
	var n int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sessions WHERE invite_code = ?", code).Scan(&n); err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateScheduleTx rewrites a session's editable attributes within the
// caller's transaction. The field binding is written as-is: the
// service decides whether re-validation was needed before calling.
func (r *SessionRepo) UpdateScheduleTx(ctx context.Context, tx *sql.Tx, s *model.Session) error {
	const q = `UPDATE sessions
               SET title = ?, description = ?, location_address = ?,
                   scheduled_date = ?, scheduled_time = ?, scheduled_end_time = ?,
                   total_cost = ?, max_participants = ?
               WHERE id = ?`
	_, err := tx.ExecContext(ctx, q,
		s.Title, s.Description, s.LocationAddress,
		s.ScheduledDate.Format("2006-01-02"), s.StartTime, s.EndTime,
		s.TotalCost, s.MaxParticipants, s.ID)
	return err
}

// SetStatusTx updates just the status column.
func (r *SessionRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	_, err := tx.ExecContext(ctx, "UPDATE sessions SET status = ? WHERE id = ?", status, id)
	return err
}

// SetCreatorTx reassigns session ownership. Used by the leave path
// when the departing user is the current creator.
func (r *SessionRepo) SetCreatorTx(ctx context.Context, tx *sql.Tx, id, newCreatorID uint64) error {
	_, err := tx.ExecContext(ctx, "UPDATE sessions SET creator_id = ? WHERE id = ?", newCreatorID, id)
	return err
}

const sessionColumnsQualified = `s.id, s.session_code, s.invite_code, s.creator_id, s.title, s.description,
       s.location_address, s.scheduled_date, s.scheduled_time, s.scheduled_end_time,
       s.total_cost, s.max_participants, s.status, s.sport_type, s.venue_id, s.field_id,
       s.created_at, s.updated_at`

// ListActiveByUser returns every open or full session the user created
// or joined, ordered by date then start time. Feeds both the
// "my sessions" listing and the advisory self-conflict pre-check.
func (r *SessionRepo) ListActiveByUser(ctx context.Context, userID uint64) ([]model.Session, error) {
	const q = `SELECT DISTINCT ` + sessionColumnsQualified + `
               FROM sessions s
               LEFT JOIN participants p ON p.session_id = s.id AND p.user_id = ?
               WHERE (s.creator_id = ? OR p.id IS NOT NULL)
                 AND s.status IN ('open','full')
               ORDER BY s.scheduled_date, s.scheduled_time`
	rows, err := r.db.QueryContext(ctx, q, userID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	sessions := make([]model.Session, 0)
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}
