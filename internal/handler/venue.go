package handler

import (
	"database/sql" // sentinel errors from the repository
	"errors"       // errors.Is comparisons
	"net/http"     // HTTP status codes
	"strings"      // input trimming
	"time"         // timestamps in responses

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/matchsquad/field-session-booking/internal/model"      // domain structs
	"github.com/matchsquad/field-session-booking/internal/repository" // repository layer
)

// VenueHandler groups the repositories admins use to manage venues and
// their fields, plus the public browse reads.  Write endpoints assume
// the role middleware has already restricted access to ADMIN users.
type VenueHandler struct {
	Venues *repository.VenueRepo // venue persistence
	Fields *repository.FieldRepo // field persistence
}

// NewVenueHandler constructs a VenueHandler. Both repositories must be non-nil.
func NewVenueHandler(venues *repository.VenueRepo, fields *repository.FieldRepo) *VenueHandler {
	if venues == nil || fields == nil {
		panic("nil repository passed to NewVenueHandler")
	}
	return &VenueHandler{Venues: venues, Fields: fields}
}

type venueResp struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type fieldResp struct {
	ID        uint64 `json:"id"`
	VenueID   uint64 `json:"venue_id"`
	SportType string `json:"sport_type"`
	Name      string `json:"name"`
	Status    string `json:"status"`
}

func toVenueResp(v *model.Venue) venueResp {
	return venueResp{ID: v.ID, Name: v.Name, Address: v.Address, Status: v.Status, CreatedAt: v.CreatedAt}
}

func toFieldResp(f *model.Field) fieldResp {
	return fieldResp{ID: f.ID, VenueID: f.VenueID, SportType: f.SportType, Name: f.Name, Status: f.Status}
}

// CreateVenue handles POST /v1/venues (ADMIN).
func (h *VenueHandler) CreateVenue(c echo.Context) error {
	var body struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.Address = strings.TrimSpace(body.Address)
	if body.Name == "" || body.Address == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and address are required"})
	}
	v := &model.Venue{Name: body.Name, Address: body.Address, Status: "active"}
	if err := h.Venues.Create(c.Request().Context(), v); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create venue failed"})
	}
	return c.JSON(http.StatusCreated, toVenueResp(v))
}

// ListVenues handles GET /v1/venues (public).
func (h *VenueHandler) ListVenues(c echo.Context) error {
	venues, err := h.Venues.ListActive(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]venueResp, 0, len(venues))
	for i := range venues {
		out = append(out, toVenueResp(&venues[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"venues": out})
}

// CreateField handles POST /v1/venues/:id/fields (ADMIN).
func (h *VenueHandler) CreateField(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	var body struct {
		Name      string `json:"name"`
		SportType string `json:"sport_type"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	body.Name = strings.TrimSpace(body.Name)
	body.SportType = strings.TrimSpace(body.SportType)
	if body.Name == "" || body.SportType == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and sport_type are required"})
	}
	ctx := c.Request().Context()
	if _, err := h.Venues.GetByID(ctx, venueID); err != nil {
		if err == repository.ErrVenueNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "venue not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	f := &model.Field{VenueID: venueID, SportType: body.SportType, Name: body.Name}
	if err := h.Fields.Create(ctx, f); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "field name already exists in this venue"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create field failed"})
	}
	return c.JSON(http.StatusCreated, toFieldResp(f))
}

// ListFields handles GET /v1/venues/:id/fields (public).
func (h *VenueHandler) ListFields(c echo.Context) error {
	venueID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid venue id"})
	}
	fields, err := h.Fields.ListByVenue(c.Request().Context(), venueID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]fieldResp, 0, len(fields))
	for i := range fields {
		out = append(out, toFieldResp(&fields[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"fields": out})
}

// SetFieldStatus handles PATCH /v1/fields/:id/status (ADMIN).  Flipping
// a field to unavailable only removes it from future allocations;
// sessions already bound to it are untouched.
func (h *VenueHandler) SetFieldStatus(c echo.Context) error {
	fieldID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid field id"})
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	status := strings.ToLower(strings.TrimSpace(body.Status))
	if status != "available" && status != "unavailable" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be available or unavailable"})
	}
	if err := h.Fields.SetStatus(c.Request().Context(), fieldID, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "field not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
