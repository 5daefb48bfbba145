package config

import (
	pkglog "github.com/anonto42/nano-social/backend/pkg/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

// SetupMiddleware installs the global middleware chain. The request logger runs
// first so that it observes the status written by recovered panics.
func SetupMiddleware(e *echo.Echo, cfg *Config, logger zerolog.Logger) {
	e.Use(pkglog.EchoMiddleware(logger))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
}
