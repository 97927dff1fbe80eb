package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nstepanov/bookvault/internal/apperror"
	"github.com/nstepanov/bookvault/internal/logging"
)

// ErrorHandler is the single boundary that turns errors into responses.
// Typed API errors keep their kind and status; anything else is logged
// and collapsed to a generic 500 so internals never leak.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		_ = c.JSON(appErr.Status, echo.Map{
			"success": false,
			"error": echo.Map{
				"kind":    appErr.Kind,
				"message": appErr.Message,
			},
		})
		return
	}

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		_ = c.JSON(httpErr.Code, echo.Map{
			"success": false,
			"error": echo.Map{
				"kind":    apperror.KindBadRequest,
				"message": httpErr.Message,
			},
		})
		return
	}

	logging.FromContext(c.Request().Context()).Error("unhandled error", "error", err)
	_ = c.JSON(http.StatusInternalServerError, echo.Map{
		"success": false,
		"error": echo.Map{
			"kind":    apperror.KindInternal,
			"message": "Internal Server Error",
		},
	})
}
