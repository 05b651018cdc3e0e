package handler

import (
	"errors"   // errors.Is comparisons
	"net/http" // HTTP status codes
	"strings"  // input trimming
	"time"     // date parsing

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/matchsquad/field-session-booking/internal/model"      // domain structs
	"github.com/matchsquad/field-session-booking/internal/repository" // repository reads
	"github.com/matchsquad/field-session-booking/internal/service"    // transactional session logic
)

// SessionHandler exposes the session lifecycle over HTTP.  All write
// endpoints are JWT-protected; reads of a single session are open to
// any authenticated user holding the id or invite code.
type SessionHandler struct {
	Svc      *service.SessionService     // create/update/cancel transactions
	Sessions *repository.SessionRepo     // plain reads
	Roster   *repository.ParticipantRepo // roster reads
}

// NewSessionHandler constructs a SessionHandler. All dependencies must be non-nil.
func NewSessionHandler(svc *service.SessionService, sessions *repository.SessionRepo, roster *repository.ParticipantRepo) *SessionHandler {
	if svc == nil || sessions == nil || roster == nil {
		panic("nil dependency passed to NewSessionHandler")
	}
	return &SessionHandler{Svc: svc, Sessions: sessions, Roster: roster}
}

type sessionResp struct {
	ID              uint64   `json:"id"`
	SessionCode     string   `json:"session_code"`
	InviteCode      string   `json:"invite_code"`
	CreatorID       uint64   `json:"creator_id"`
	Title           string   `json:"title"`
	Description     *string  `json:"description,omitempty"`
	LocationAddress string   `json:"location_address"`
	ScheduledDate   string   `json:"scheduled_date"`
	StartTime       string   `json:"start_time"`
	EndTime         *string  `json:"end_time,omitempty"`
	TotalCost       float64  `json:"total_cost"`
	MaxParticipants uint32   `json:"max_participants"`
	Status          string   `json:"status"`
	SportType       *string  `json:"sport_type,omitempty"`
	VenueID         *uint64  `json:"venue_id,omitempty"`
	FieldID         *uint64  `json:"field_id,omitempty"`
}

func toSessionResp(s *model.Session) sessionResp {
	return sessionResp{
		ID:              s.ID,
		SessionCode:     s.SessionCode,
		InviteCode:      s.InviteCode,
		CreatorID:       s.CreatorID,
		Title:           s.Title,
		Description:     s.Description,
		LocationAddress: s.LocationAddress,
		ScheduledDate:   s.ScheduledDate.Format("2006-01-02"),
		StartTime:       s.StartTime,
		EndTime:         s.EndTime,
		TotalCost:       s.TotalCost,
		MaxParticipants: s.MaxParticipants,
		Status:          s.Status,
		SportType:       s.SportType,
		VenueID:         s.VenueID,
		FieldID:         s.FieldID,
	}
}

// sessionErrStatus maps service sentinel errors to HTTP responses.
// Allocation failures are user-correctable, so they get 4xx rather
// than 500: no-field-available is a genuine conflict with another
// booking (409) while no-field-configured means the venue cannot host
// the sport at all (422).
func sessionErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, "only the creator may modify this session"
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound, "session not found"
	case errors.Is(err, service.ErrNoFieldConfigured):
		return http.StatusUnprocessableEntity, "venue has no field for this sport"
	case errors.Is(err, service.ErrNoFieldAvailable):
		return http.StatusConflict, "no field available at this time"
	case errors.Is(err, service.ErrFieldNotAvailable):
		return http.StatusConflict, "field is not available at the new time"
	case errors.Is(err, service.ErrAlreadyJoined):
		return http.StatusConflict, "already joined"
	case errors.Is(err, service.ErrSessionFull):
		return http.StatusConflict, "session is full"
	case errors.Is(err, service.ErrNotAParticipant):
		return http.StatusBadRequest, "not a participant"
	case errors.Is(err, service.ErrCreatorCannotLeaveAlone):
		return http.StatusConflict, "creator cannot leave as the only participant; cancel instead"
	case errors.Is(err, service.ErrSessionAlreadyStarted):
		return http.StatusConflict, "session has already started"
	}
	return http.StatusInternalServerError, "internal error"
}

type createSessionReq struct {
	Title           string   `json:"title"`
	Description     *string  `json:"description"`
	LocationAddress string   `json:"location_address"`
	Date            string   `json:"date"` // "2006-01-02"
	StartTime       string   `json:"start_time"`
	EndTime         *string  `json:"end_time"`
	TotalCost       float64  `json:"total_cost"`
	MaxParticipants uint32   `json:"max_participants"`
	SportType       *string  `json:"sport_type"`
	VenueID         *uint64  `json:"venue_id"`
}

// Create handles POST /v1/sessions.
func (h *SessionHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(req.Date))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	sess, err := h.Svc.Create(c.Request().Context(), userID, service.CreateSessionInput{
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		LocationAddress: strings.TrimSpace(req.LocationAddress),
		Date:            date,
		StartTime:       strings.TrimSpace(req.StartTime),
		EndTime:         req.EndTime,
		TotalCost:       req.TotalCost,
		MaxParticipants: req.MaxParticipants,
		SportType:       req.SportType,
		VenueID:         req.VenueID,
	})
	if err != nil {
		status, msg := sessionErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusCreated, toSessionResp(sess))
}

type updateSessionReq struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	LocationAddress *string  `json:"location_address"`
	Date            *string  `json:"date"`
	StartTime       *string  `json:"start_time"`
	EndTime         *string  `json:"end_time"`
	ClearEndTime    bool     `json:"clear_end_time"`
	TotalCost       *float64 `json:"total_cost"`
	MaxParticipants *uint32  `json:"max_participants"`
}

// Update handles PATCH /v1/sessions/:id.
func (h *SessionHandler) Update(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	var req updateSessionReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	in := service.UpdateSessionInput{
		Title:           req.Title,
		Description:     req.Description,
		LocationAddress: req.LocationAddress,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		ClearEndTime:    req.ClearEndTime,
		TotalCost:       req.TotalCost,
		MaxParticipants: req.MaxParticipants,
	}
	if req.Date != nil {
		date, err := time.Parse("2006-01-02", strings.TrimSpace(*req.Date))
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
		}
		in.Date = &date
	}
	sess, err := h.Svc.Update(c.Request().Context(), sessionID, userID, in)
	if err != nil {
		status, msg := sessionErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, toSessionResp(sess))
}

// Cancel handles DELETE /v1/sessions/:id.
func (h *SessionHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	if err := h.Svc.Cancel(c.Request().Context(), sessionID, userID); err != nil {
		status, msg := sessionErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.NoContent(http.StatusNoContent)
}

// Get handles GET /v1/sessions/:id.
func (h *SessionHandler) Get(c echo.Context) error {
	sessionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	sess, err := h.Sessions.GetByID(c.Request().Context(), sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toSessionResp(sess))
}

// GetByInviteCode handles GET /v1/sessions/code/:code, the shareable
// invite lookup.
func (h *SessionHandler) GetByInviteCode(c echo.Context) error {
	code := strings.ToUpper(strings.TrimSpace(c.Param("code")))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invite code required"})
	}
	sess, err := h.Sessions.GetByInviteCode(c.Request().Context(), code)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toSessionResp(sess))
}

// ListMine handles GET /v1/my/sessions: the caller's active sessions,
// joined or created.
func (h *SessionHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessions, err := h.Sessions.ListActiveByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]sessionResp, 0, len(sessions))
	for i := range sessions {
		out = append(out, toSessionResp(&sessions[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"sessions": out})
}

// Participants handles GET /v1/sessions/:id/participants.
func (h *SessionHandler) Participants(c echo.Context) error {
	sessionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	if _, err := h.Sessions.GetByID(c.Request().Context(), sessionID); err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	members, err := h.Roster.ListBySession(c.Request().Context(), sessionID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	type memberResp struct {
		UserID        uint64    `json:"user_id"`
		CostPerPerson float64   `json:"cost_per_person"`
		JoinedAt      time.Time `json:"joined_at"`
	}
	out := make([]memberResp, 0, len(members))
	for _, m := range members {
		out = append(out, memberResp{UserID: m.UserID, CostPerPerson: m.CostPerPerson, JoinedAt: m.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"participants": out})
}
