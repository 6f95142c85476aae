package handler

import (
	"errors"
	"strconv"

	"github.com/labstack/echo/v4"
)

// getManagerID extracts the authenticated manager id stored in context
// by the JWT middleware.  JWT numeric claims decode as float64; some
// clients send the subject as a string, so both are accepted.
func getManagerID(c echo.Context) (uint64, error) {
	switch v := c.Get("manager_id").(type) {
	case float64:
		return uint64(v), nil
	case string:
		id, err := strconv.ParseUint(v, 10, 64)
		if err == nil && id > 0 {
			return id, nil
		}
	}
	return 0, errors.New("no manager in context")
}

// actorLabel renders the audit actor for the current request.
func actorLabel(c echo.Context) string {
	id, err := getManagerID(c)
	if err != nil {
		return "unknown"
	}
	return "manager:" + strconv.FormatUint(id, 10)
}
