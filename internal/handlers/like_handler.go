package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/labstack/echo/v4"
)

// LikeHandler handles HTTP requests related to likes
type LikeHandler struct {
	store Store
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(s Store) *LikeHandler {
	return &LikeHandler{store: s}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/posts/:id/like", h.ToggleLike, requireAuth)
}

// ToggleLike likes the post, or removes the caller's like if present
func (h *LikeHandler) ToggleLike(c echo.Context) error {
	status, err := h.store.ToggleLike(c.Request().Context(), c.Param("id"), getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return unexpected("toggle like", err)
	}
	return c.JSON(http.StatusOK, status)
}
