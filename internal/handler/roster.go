package handler

import (
	"net/http" // HTTP status codes

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/matchsquad/field-session-booking/internal/service" // transactional roster logic
)

// RosterHandler exposes join and leave.  The capacity checks, cost
// resplit and ownership transfer live in the service; the handler only
// translates identities and sentinel errors.
type RosterHandler struct {
	Svc *service.RosterService
}

// NewRosterHandler constructs a RosterHandler.
func NewRosterHandler(svc *service.RosterService) *RosterHandler {
	if svc == nil {
		panic("nil service passed to NewRosterHandler")
	}
	return &RosterHandler{Svc: svc}
}

// Join handles POST /v1/sessions/:id/join.
func (h *RosterHandler) Join(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	sess, err := h.Svc.Join(c.Request().Context(), sessionID, userID)
	if err != nil {
		status, msg := sessionErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, toSessionResp(sess))
}

// Leave handles POST /v1/sessions/:id/leave.
func (h *RosterHandler) Leave(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	sessionID, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
	}
	if err := h.Svc.Leave(c.Request().Context(), sessionID, userID); err != nil {
		status, msg := sessionErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.NoContent(http.StatusNoContent)
}
