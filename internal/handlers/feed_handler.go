package handlers

import (
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/feed"
	"github.com/labstack/echo/v4"
)

// FeedHandler serves the post feeds
type FeedHandler struct {
	store Store
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(s Store) *FeedHandler {
	return &FeedHandler{store: s}
}

// RegisterFeedRoutes registers feed routes
func (h *FeedHandler) RegisterFeedRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/posts", h.GetGlobalFeed)
	g.GET("/posts/feed", h.GetPersonalFeed, requireAuth)
}

// GetGlobalFeed returns every post, newest first
func (h *FeedHandler) GetGlobalFeed(c echo.Context) error {
	return c.JSON(http.StatusOK, feed.GlobalFeed(h.store.Snapshot()))
}

// GetPersonalFeed returns posts by the caller and the users they follow
func (h *FeedHandler) GetPersonalFeed(c echo.Context) error {
	return c.JSON(http.StatusOK, feed.PersonalFeed(h.store.Snapshot(), getUserIDFromContext(c)))
}
