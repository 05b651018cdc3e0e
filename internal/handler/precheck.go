package handler

import (
	"errors"   // errors.Is comparisons
	"net/http" // HTTP status codes
	"strings"  // query trimming
	"time"     // date parsing

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/matchsquad/field-session-booking/internal/service" // advisory conflict pre-check
)

// PrecheckHandler exposes the advisory self-overlap check clients run
// before creating or joining a session.  It only guards against a user
// double-booking themselves; the field allocator remains the
// authoritative conflict check.
type PrecheckHandler struct {
	Svc *service.PrecheckService
}

// NewPrecheckHandler constructs a PrecheckHandler.
func NewPrecheckHandler(svc *service.PrecheckService) *PrecheckHandler {
	if svc == nil {
		panic("nil service passed to NewPrecheckHandler")
	}
	return &PrecheckHandler{Svc: svc}
}

// Check handles GET /v1/conflicts/precheck?date=&start=&end=.  The
// response always carries a "conflict" key; it is null when the slot is
// clear or when the check could not run (fail open).
func (h *PrecheckHandler) Check(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	date, err := time.Parse("2006-01-02", strings.TrimSpace(c.QueryParam("date")))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	start := strings.TrimSpace(c.QueryParam("start"))
	if start == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "start is required"})
	}
	var end *string
	if e := strings.TrimSpace(c.QueryParam("end")); e != "" {
		end = &e
	}
	conflict, err := h.Svc.CheckSlot(c.Request().Context(), userID, date, start, end)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid clock time"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
	return c.JSON(http.StatusOK, echo.Map{"conflict": conflict})
}
