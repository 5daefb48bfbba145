package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/audit"
	"github.com/anonto42/nano-social/backend/internal/feed"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/labstack/echo/v4"
)

// UserHandler handles HTTP requests related to users
type UserHandler struct {
	store Store
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s Store) *UserHandler {
	return &UserHandler{store: s}
}

// RegisterUserRoutes registers user profile routes. Routes that act as the
// caller are wrapped in requireAuth.
func (h *UserHandler) RegisterUserRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/users/me", h.GetMe, requireAuth)
	g.GET("/users/suggestions", h.GetSuggestions, requireAuth)
	g.GET("/users", h.ListUsers)
	g.GET("/users/:id", h.GetUser)
	g.PUT("/users/:id", h.UpdateUser, requireAuth)
}

// GetMe returns the authenticated user's own account
func (h *UserHandler) GetMe(c echo.Context) error {
	user, err := h.store.GetUserByID(getUserIDFromContext(c))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, user.ToPublic())
}

// GetUser returns a profile with counters. The id segment may also be a
// username, matched ignoring case.
func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.store.GetUserByID(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		user, err = h.store.GetUserByUsername(c.Param("id"))
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	}
	return c.JSON(http.StatusOK, feed.Profile(h.store.Snapshot(), user))
}

// ListUsers returns every profile, optionally filtered by ?search=
func (h *UserHandler) ListUsers(c echo.Context) error {
	return c.JSON(http.StatusOK, feed.Profiles(h.store.Snapshot(), c.QueryParam("search")))
}

// GetSuggestions returns accounts the caller does not follow yet
func (h *UserHandler) GetSuggestions(c echo.Context) error {
	return c.JSON(http.StatusOK, feed.Suggestions(h.store.Snapshot(), getUserIDFromContext(c), feed.SuggestionLimit))
}

// UpdateUser updates the caller's own profile
func (h *UserHandler) UpdateUser(c echo.Context) error {
	userID := getUserIDFromContext(c)
	if c.Param("id") != userID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only update your own profile.")
	}

	var req models.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.store.UpdateUser(ctx, userID, req)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "User not found")
		case errors.Is(err, store.ErrUsernameTaken):
			return echo.NewHTTPError(http.StatusBadRequest, "Username is already taken.")
		}
		return unexpected("update user", err)
	}

	audit.Log(ctx, audit.ActionUpdateProfile, userID, "profile updated")
	return c.JSON(http.StatusOK, user.ToAccount())
}
