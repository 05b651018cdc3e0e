package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matchsquad/field-session-booking/internal/config"
	"github.com/matchsquad/field-session-booking/internal/utils"
)

func logoutContext(t *testing.T, authorization string) echo.Context {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/v1/auth/logout", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	return echo.New().NewContext(req, httptest.NewRecorder())
}

func TestBearerSubject(t *testing.T) {
	h := &AuthHandler{Cfg: config.Config{JWTSecret: "test-secret", AccessTTLMin: 15}}

	access, err := utils.NewAccessToken("test-secret", 42, "PLAYER", 15)
	require.NoError(t, err)

	uid, ok := h.bearerSubject(logoutContext(t, "Bearer "+access.Token))
	assert.True(t, ok)
	assert.Equal(t, uint64(42), uid)

	t.Run("wrong secret", func(t *testing.T) {
		forged, err := utils.NewAccessToken("other-secret", 42, "PLAYER", 15)
		require.NoError(t, err)
		_, ok := h.bearerSubject(logoutContext(t, "Bearer "+forged.Token))
		assert.False(t, ok)
	})

	t.Run("no header", func(t *testing.T) {
		_, ok := h.bearerSubject(logoutContext(t, ""))
		assert.False(t, ok)
	})

	t.Run("not a bearer", func(t *testing.T) {
		_, ok := h.bearerSubject(logoutContext(t, "Basic dXNlcjpwdw=="))
		assert.False(t, ok)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, ok := h.bearerSubject(logoutContext(t, "Bearer not.a.jwt"))
		assert.False(t, ok)
	})
}

func TestLogoutRejectsEmptyRequest(t *testing.T) {
	h := &AuthHandler{Cfg: config.Config{JWTSecret: "test-secret"}}

	c := logoutContext(t, "")
	require.NoError(t, h.Logout(c))
	assert.Equal(t, http.StatusBadRequest, c.Response().Status)
}
