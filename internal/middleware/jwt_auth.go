package middleware

import (
	"net/http"
	"strings"

	pkglog "github.com/anonto42/nano-social/backend/pkg/log"
	"github.com/labstack/echo/v4"
)

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// JWTAuthMiddleware requires a bearer token. A missing token is rejected
// with 401, a token that fails verification with 403.
func JWTAuthMiddleware(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenString := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if tokenString == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				l := pkglog.Ctx(c.Request().Context())
				l.Debug().Err(err).Msg("rejected bearer token")
				return echo.NewHTTPError(http.StatusForbidden, "Invalid or expired token")
			}

			// Store the identity for handlers and the request logger
			c.Set(pkglog.FieldUserID, userID)
			req := c.Request()
			logger := pkglog.Ctx(req.Context()).With().Str(pkglog.FieldUserID, userID).Logger()
			c.SetRequest(req.WithContext(pkglog.WithLogger(req.Context(), logger)))

			return next(c)
		}
	}
}

// UserID returns the authenticated user id, or "" on unprotected routes.
func UserID(c echo.Context) string {
	id, _ := c.Get(pkglog.FieldUserID).(string)
	return id
}

// bearerToken takes the second space-separated word of the header, the way
// clients have always sent it ("Bearer <token>").
func bearerToken(header string) string {
	parts := strings.Fields(header)
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
