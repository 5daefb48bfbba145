package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/feed"
	"github.com/labstack/echo/v4"
)

// BookmarkHandler handles saved posts
type BookmarkHandler struct {
	store Store
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(s Store) *BookmarkHandler {
	return &BookmarkHandler{store: s}
}

// RegisterBookmarkRoutes registers bookmark routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/posts/bookmarks", h.GetBookmarks, requireAuth)
	g.POST("/posts/:id/bookmark", h.ToggleBookmark, requireAuth)
}

// ToggleBookmark saves the post for the caller, or removes it if already saved
func (h *BookmarkHandler) ToggleBookmark(c echo.Context) error {
	status, err := h.store.ToggleBookmark(c.Request().Context(), getUserIDFromContext(c), c.Param("id"))
	if err != nil {
		return unexpected("toggle bookmark", err)
	}
	return c.JSON(http.StatusOK, status)
}

// GetBookmarks returns the caller's saved posts, most recently saved first
func (h *BookmarkHandler) GetBookmarks(c echo.Context) error {
	return c.JSON(http.StatusOK, feed.BookmarkedPosts(h.store.Snapshot(), getUserIDFromContext(c)))
}
