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

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	store Store
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(s Store) *PostHandler {
	return &PostHandler{store: s}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.POST("/posts", h.CreatePost, requireAuth)
	g.GET("/posts/:id", h.GetPost)
	g.PUT("/posts/:id", h.UpdatePost, requireAuth)
	g.DELETE("/posts/:id", h.DeletePost, requireAuth)
}

// CreatePost creates a new post
func (h *PostHandler) CreatePost(c echo.Context) error {
	userID := getUserIDFromContext(c)

	var req models.CreatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.store.CreatePost(c.Request().Context(), userID, req)
	if err != nil {
		return unexpected("create post", err)
	}

	isLiked := post.HasLike(userID)
	view := models.PostView{Post: post, LikesCount: len(post.Likes), IsLiked: &isLiked}
	if author, err := h.store.GetUserByID(userID); err == nil {
		compact := author.ToCompact()
		view.User = &compact
	}
	return c.JSON(http.StatusOK, view)
}

// GetPost returns a single post with its author and counters
func (h *PostHandler) GetPost(c echo.Context) error {
	view, ok := feed.PostView(h.store.Snapshot(), c.Param("id"), "")
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "Post not found")
	}
	return c.JSON(http.StatusOK, view)
}

// UpdatePost edits the content of the caller's post
func (h *PostHandler) UpdatePost(c echo.Context) error {
	var req models.UpdatePostRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	post, err := h.store.UpdatePostContent(c.Request().Context(), c.Param("id"), getUserIDFromContext(c), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		case errors.Is(err, store.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "You can only edit your own posts")
		}
		return unexpected("update post", err)
	}
	return c.JSON(http.StatusOK, post)
}

// DeletePost removes the caller's post and its comments
func (h *PostHandler) DeletePost(c echo.Context) error {
	ctx := c.Request().Context()
	userID := getUserIDFromContext(c)
	postID := c.Param("id")

	if err := h.store.DeletePost(ctx, postID, userID); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return echo.NewHTTPError(http.StatusNotFound, "Post not found")
		case errors.Is(err, store.ErrForbidden):
			return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own posts")
		}
		return unexpected("delete post", err)
	}

	audit.LogWithDetail(ctx, audit.ActionDeletePost, userID, postID, "post deleted")
	return c.NoContent(http.StatusNoContent)
}
