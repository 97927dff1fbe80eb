package handlers

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nstepanov/bookvault/internal/apperror"
)

// respond writes the uniform success envelope.
func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, echo.Map{"success": true, "data": data})
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, apperror.New(apperror.KindBadRequest, 400, "invalid "+name)
	}
	return uint(id), nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
