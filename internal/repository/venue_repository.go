// Package repository contains data access logic separated from HTTP
// handlers. This file covers venues: the sporting complexes whose
// fields sessions are booked onto. Venues are administered rarely and
// read often; their list endpoints sit behind the response cache.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/matchsquad/field-session-booking/internal/model"
)

// VenueRepo encapsulates all database queries related to venues. It
// depends on a sql.DB connection injected at startup.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the provided DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo { return &VenueRepo{db: db} }

// Create inserts a new venue. On success the venue's ID, CreatedAt and
// UpdatedAt fields are populated from the stored row.
func (r *VenueRepo) Create(ctx context.Context, v *model.Venue) error {
	const qInsert = "INSERT INTO venues (name, address, status) VALUES (?, ?, ?)"
	if v.Status == "" {
		v.Status = "active"
	}
	res, err := r.db.ExecContext(ctx, qInsert, v.Name, v.Address, v.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)

	const qSelect = "SELECT name, address, status, created_at, updated_at FROM venues WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, v.ID).
		Scan(&v.Name, &v.Address, &v.Status, &v.CreatedAt, &v.UpdatedAt)
}

// GetByID fetches a venue by its ID. It returns ErrVenueNotFound when
// no row matches.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	const q = "SELECT id, name, address, status, created_at, updated_at FROM venues WHERE id = ?"
	var v model.Venue
	if err := r.db.QueryRowContext(ctx, q, id).
		Scan(&v.ID, &v.Name, &v.Address, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// ListActive returns all active venues ordered by name. Inactive
// venues are hidden from browse endpoints but stay addressable by ID
// for historical sessions.
func (r *VenueRepo) ListActive(ctx context.Context) ([]model.Venue, error) {
	const q = `SELECT id, name, address, status, created_at, updated_at
               FROM venues WHERE status = 'active' ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	venues := make([]model.Venue, 0)
	for rows.Next() {
		var v model.Venue
		if err := rows.Scan(&v.ID, &v.Name, &v.Address, &v.Status, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return venues, nil
}
