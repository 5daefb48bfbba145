package handlers

import (
	"fmt"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// getUserIDFromContext returns the id set by the JWT middleware.
func getUserIDFromContext(c echo.Context) string {
	return middleware.UserID(c)
}

// bindAndValidate decodes the request body into req and runs the registered validator.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(req); err != nil {
		return err
	}
	return nil
}

// unexpected wraps a store failure that has no client-facing meaning. The
// error handler turns it into a 500.
func unexpected(op string, err error) error {
	return fmt.Errorf("%s: %w", op, err)
}
