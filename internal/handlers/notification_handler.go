package handlers

import (
	"errors"
	"net/http"

	"github.com/anonto42/nano-social/backend/internal/feed"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/labstack/echo/v4"
)

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	store Store
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(s Store) *NotificationHandler {
	return &NotificationHandler{store: s}
}

// RegisterNotificationRoutes registers notification routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group, requireAuth echo.MiddlewareFunc) {
	g.GET("/notifications", h.GetNotifications, requireAuth)
	g.GET("/notifications/unread-count", h.GetUnreadCount, requireAuth)
	g.PUT("/notifications/:id/read", h.MarkAsRead, requireAuth)
}

// GetNotifications returns the caller's notifications, newest first
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	return c.JSON(http.StatusOK, feed.Notifications(h.store.Snapshot(), getUserIDFromContext(c)))
}

// GetUnreadCount returns how many notifications the caller has not read
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	count := feed.UnreadCount(h.store.Snapshot(), getUserIDFromContext(c))
	return c.JSON(http.StatusOK, echo.Map{"count": count})
}

// MarkAsRead marks one of the caller's notifications as read
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	n, err := h.store.MarkNotificationRead(c.Request().Context(), c.Param("id"), getUserIDFromContext(c))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return unexpected("mark notification read", err)
	}

	view := models.NotificationView{Notification: n, Actor: n.Actor.Compact()}
	if actor, err := h.store.GetUserByID(n.Actor.ID); err == nil {
		compact := actor.ToCompact()
		view.Actor = &compact
	}
	return c.JSON(http.StatusOK, view)
}
