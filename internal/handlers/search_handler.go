package handlers

import (
	"net/http"
	"strings"

	"github.com/anonto42/nano-social/backend/internal/feed"
	"github.com/labstack/echo/v4"
)

// SearchHandler serves the search endpoint
type SearchHandler struct {
	store Store
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(s Store) *SearchHandler {
	return &SearchHandler{store: s}
}

// RegisterSearchRoutes registers search routes
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/search", h.Search, requireAuth)
}

// Search matches ?query= against users, posts and hashtags, as selected by ?type=
func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if strings.TrimSpace(query) == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Search query is required")
	}
	return c.JSON(http.StatusOK, feed.Search(h.store.Snapshot(), query, c.QueryParam("type")))
}
