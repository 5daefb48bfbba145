package router

import (
	"errors"
	"fmt"
	"net/http"

	pkglog "github.com/anonto42/nano-social/backend/pkg/log"
	"github.com/labstack/echo/v4"
)

const genericErrorMessage = "An unexpected error occurred"

// NewHTTPErrorHandler renders every error as {"message": ...}. Errors that are
// not *echo.HTTPError become 500s; their text is shown only when exposeErrors is set.
func NewHTTPErrorHandler(exposeErrors bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := genericErrorMessage

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			message = fmt.Sprint(he.Message)
			if he.Internal != nil {
				err = he.Internal
			}
		} else if exposeErrors {
			message = err.Error()
		}

		if code >= http.StatusInternalServerError {
			l := pkglog.Ctx(c.Request().Context())
			l.Error().Err(err).Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, echo.Map{"message": message})
		}
		if writeErr != nil {
			l := pkglog.Ctx(c.Request().Context())
			l.Error().Err(writeErr).Msg("failed to write error response")
		}
	}
}
