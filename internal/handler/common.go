package handler // handler defines http handlers

import (
	"errors"  // sentinel value used in getUserID
	"strconv" // string-to-number conversion

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id placed in the context by the JWT
// middleware and converts it to uint64.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses a positive numeric :param from the route.
func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
