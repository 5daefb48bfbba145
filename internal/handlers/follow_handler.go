package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/labstack/echo/v4"
)

// FollowHandler handles follow relationships
type FollowHandler struct {
	store Store
}

// NewFollowHandler creates a new FollowHandler
func NewFollowHandler(s Store) *FollowHandler {
	return &FollowHandler{store: s}
}

// RegisterFollowRoutes registers follow routes
func (h *FollowHandler) RegisterFollowRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/users/:id/follow", h.ToggleFollow, requireAuth)
	g.GET("/users/:id/follow-status", h.GetFollowStatus, requireAuth)
}

// ToggleFollow follows the user, or unfollows if already following
func (h *FollowHandler) ToggleFollow(c echo.Context) error {
	status, err := h.store.ToggleFollow(c.Request().Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrSelfFollow) {
			return echo.NewHTTPError(http.StatusBadRequest, "Cannot follow yourself")
		}
		return unexpected("toggle follow", err)
	}
	return c.JSON(http.StatusOK, status)
}

// GetFollowStatus reports whether the caller follows the user
func (h *FollowHandler) GetFollowStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.store.FollowStatus(getUserIDFromContext(c), c.Param("id")))
}
