package router

import (
	"github.com/anonto42/nano-social/backend/internal/handlers"
	"github.com/anonto42/nano-social/backend/internal/middleware"
	pkglog "github.com/anonto42/nano-social/backend/pkg/log"
	"github.com/anonto42/nano-social/backend/validators"
	"github.com/labstack/echo/v4"
)

// Tokens issues and verifies bearer tokens.
type Tokens interface {
	handlers.TokenIssuer
	middleware.TokenVerifier
}

// Dependencies are the services the routes are built from.
type Dependencies struct {
	Store      handlers.Store
	Tokens     Tokens
	Firebase   handlers.IDTokenVerifier // optional
	BcryptCost int
	// ExposeErrors includes internal error text in 500 responses.
	ExposeErrors bool
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, deps Dependencies) {
	l := pkglog.L()

	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.ExposeErrors)

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api")
	requireAuth := middleware.JWTAuthMiddleware(deps.Tokens)

	authHandler := handlers.NewAuthHandler(deps.Store, deps.Tokens, deps.Firebase, deps.BcryptCost)
	authHandler.RegisterAuthRoutes(api)
	if deps.Firebase != nil {
		l.Info().Msg("firebase login enabled")
	}

	handlers.NewUserHandler(deps.Store).RegisterUserRoutes(api, requireAuth)
	handlers.NewFollowHandler(deps.Store).RegisterFollowRoutes(api, requireAuth)
	handlers.NewFeedHandler(deps.Store).RegisterFeedRoutes(api, requireAuth)
	handlers.NewPostHandler(deps.Store).RegisterPostRoutes(api, requireAuth)
	handlers.NewLikeHandler(deps.Store).RegisterLikeRoutes(api, requireAuth)
	handlers.NewBookmarkHandler(deps.Store).RegisterBookmarkRoutes(api, requireAuth)
	handlers.NewCommentHandler(deps.Store).RegisterCommentRoutes(api, requireAuth)
	handlers.NewStoryHandler(deps.Store).RegisterStoryRoutes(api, requireAuth)
	handlers.NewNotificationHandler(deps.Store).RegisterNotificationRoutes(api, requireAuth)
	handlers.NewSearchHandler(deps.Store).RegisterSearchRoutes(api, requireAuth)

	l.Debug().Int("routes", len(e.Routes())).Msg("routes configured")
}
