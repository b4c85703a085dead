package httpserver

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// fail logs the failure under event and returns the matching HTTP error.
// Server errors are logged with the cause and answered with reason only.
func fail(l *slog.Logger, event string, status int, reason string, err error) error {
	if status >= http.StatusInternalServerError {
		l.Error(event, "status", status, "reason", reason, "error", err)
	} else {
		l.Warn(event, "status", status, "reason", reason, "error", err)
	}
	return echo.NewHTTPError(status, reason)
}

func parseID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "id must be a positive integer")
	}
	return uint(id), nil
}

// bindFailed logs a bind or validation error produced by
// validation.BindAndValidate and passes it through unchanged.
func bindFailed(l *slog.Logger, event string, err error) error {
	l.Warn(event, "status", http.StatusBadRequest, "reason", "invalid body", "error", err)
	return err
}
