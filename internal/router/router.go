package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework used for routing

	"github.com/matchsquad/field-session-booking/internal/handler"    // HTTP handlers
	"github.com/matchsquad/field-session-booking/internal/middleware" // JWT and role middleware
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// for load balancers and monitoring.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints.  Unauthenticated
// operations live under /v1/auth; /v1/me requires a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)               // rotates the refresh token
	g.POST("/refresh-access", a.RefreshAccess)  // new access token, refresh kept
	g.POST("/logout", a.Logout)                 // accepts refresh token or bearer

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterBrowse registers the unauthenticated venue and field browse
// endpoints.  cacheMW, when non-nil, serves repeated reads from Redis.
func RegisterBrowse(e *echo.Echo, v *handler.VenueHandler, cacheMW echo.MiddlewareFunc) {
	mws := []echo.MiddlewareFunc{}
	if cacheMW != nil {
		mws = append(mws, cacheMW)
	}
	e.GET("/v1/venues", v.ListVenues, mws...)
	e.GET("/v1/venues/:id/fields", v.ListFields, mws...)
}

// RegisterAdmin registers venue and field management endpoints,
// restricted to ADMIN users.
func RegisterAdmin(e *echo.Echo, v *handler.VenueHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN"))
	g.POST("/venues", v.CreateVenue)
	g.POST("/venues/:id/fields", v.CreateField)
	g.PATCH("/fields/:id/status", v.SetFieldStatus)
}

// RegisterBooking registers the session, roster and pre-check
// endpoints.  Every route here requires a valid access token; any role
// may book.
func RegisterBooking(e *echo.Echo, s *handler.SessionHandler, r *handler.RosterHandler, p *handler.PrecheckHandler, jwtSecret string) {
	g := e.Group("/v1")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(middleware.RequireRole("ADMIN", "PLAYER"))

	g.POST("/sessions", s.Create)
	g.GET("/sessions/:id", s.Get)
	g.GET("/sessions/code/:code", s.GetByInviteCode) // invite code lookup
	g.PATCH("/sessions/:id", s.Update)
	g.DELETE("/sessions/:id", s.Cancel)
	g.GET("/sessions/:id/participants", s.Participants)
	g.GET("/my/sessions", s.ListMine)

	g.POST("/sessions/:id/join", r.Join)
	g.POST("/sessions/:id/leave", r.Leave)

	g.GET("/conflicts/precheck", p.Check)
}
