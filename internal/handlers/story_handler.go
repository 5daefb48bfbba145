package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/feed"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/labstack/echo/v4"
)

// StoryHandler handles story-related HTTP requests
type StoryHandler struct {
	store Store
}

// NewStoryHandler creates a new StoryHandler
func NewStoryHandler(s Store) *StoryHandler {
	return &StoryHandler{store: s}
}

// RegisterStoryRoutes registers story-related routes
func (h *StoryHandler) RegisterStoryRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/stories", h.GetStories, requireAuth)
	g.POST("/stories", h.CreateStory, requireAuth)
	g.POST("/stories/:id/view", h.MarkAsViewed, requireAuth)
	g.GET("/users/:id/stories", h.GetUserStories)
}

// CreateStory publishes a story that expires after a day
func (h *StoryHandler) CreateStory(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreateStoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	story, err := h.store.CreateStory(c.Request().Context(), userID, req)
	if err != nil {
		return unexpected("create story", err)
	}

	view := models.StoryView{Story: story}
	if user, err := h.store.GetUserByID(userID); err == nil {
		author := user.ToCompact()
		view.User = &author
	}
	return c.JSON(http.StatusOK, view)
}

// GetStories returns live stories by the caller and the users they follow
func (h *StoryHandler) GetStories(c echo.Context) error {
	return c.JSON(http.StatusOK, feed.StoryFeed(h.store.Snapshot(), getUserIDFromContext(c)))
}

// GetUserStories returns one user's live stories
func (h *StoryHandler) GetUserStories(c echo.Context) error {
	return c.JSON(http.StatusOK, feed.UserStories(h.store.Snapshot(), c.Param("id")))
}

// MarkAsViewed records that the caller opened a story
func (h *StoryHandler) MarkAsViewed(c echo.Context) error {
	story, err := h.store.ViewStory(c.Request().Context(), c.Param("id"), getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Story not found")
		}
		return unexpected("view story", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"views": story.Views})
}
