package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/feed"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/labstack/echo/v4"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	store Store
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(s Store) *CommentHandler {
	return &CommentHandler{store: s}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/posts/:id/comments", h.GetComments)
	g.POST("/posts/:id/comments", h.CreateComment, requireAuth)
}

// GetComments returns a post's comments, oldest first
func (h *CommentHandler) GetComments(c echo.Context) error {
	return c.JSON(http.StatusOK, feed.Comments(h.store.Snapshot(), c.Param("id")))
}

// CreateComment adds a comment to a post
func (h *CommentHandler) CreateComment(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreateCommentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	comment, err := h.store.CreateComment(c.Request().Context(), c.Param("id"), userID, req.Content)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		}
		return unexpected("create comment", err)
	}

	view := models.CommentView{Comment: comment}
	if user, err := h.store.GetUserByID(userID); err == nil {
		author := user.ToCompact()
		view.User = &author
	}
	return c.JSON(http.StatusOK, view)
}
