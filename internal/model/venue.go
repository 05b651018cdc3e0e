package model

import "time"

// Venue represents a sporting complex that owns one or more bookable
// fields.  This struct corresponds to a row in the `venues` table.
// Venues are immutable after creation apart from their status flag.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – display name of the venue.
//  Address   – street address shown to players.
//  Status    – "active" or "inactive"; inactive venues accept no bookings.
//  CreatedAt – timestamp when the venue was created.
//  UpdatedAt – timestamp of last update.
type Venue struct {
	ID        uint64    // venues.id
	Name      string    // venues.name
	Address   string    // venues.address
	Status    string    // venues.status
	CreatedAt time.Time // venues.created_at
	UpdatedAt time.Time // venues.updated_at
}

// Field describes a single bookable play area inside a venue.  A field
// belongs to exactly one venue and one sport type; a venue may have
// several fields for the same sport.  Fields are the contended
// resource over which scheduling conflicts are computed.
//
// Fields:
//  ID        – primary key identifier.
//  VenueID   – venue to which this field belongs.
//  SportType – sport played on this field (e.g. "Football").
//  Name      – field name, unique per venue; allocation order key.
//  Status    – "available" or "unavailable".
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Field struct {
	ID        uint64    // fields.id
	VenueID   uint64    // fields.venue_id
	SportType string    // fields.sport_type
	Name      string    // fields.name
	Status    string    // fields.status
	CreatedAt time.Time // fields.created_at
	UpdatedAt time.Time // fields.updated_at
}
