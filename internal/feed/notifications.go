package feed

import (
	"sort"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// Notifications returns userID's notifications, newest first, each with its
// actor resolved against the current users.
func Notifications(snap store.Snapshot, userID string) []models.NotificationView {
	idx := newIndex(&snap)
	out := make([]models.NotificationView, 0)
	for _, n := range snap.Notifications {
		if n.UserID == userID {
			out = append(out, idx.notificationView(n))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// notificationView prefers the live user record. An actor that is no longer a
// user falls back to the details stored with the notification.
func (idx *index) notificationView(n models.Notification) models.NotificationView {
	actor := idx.author(n.Actor.ID)
	if actor == nil {
		actor = n.Actor.Compact()
	}
	return models.NotificationView{Notification: n, Actor: actor}
}

// UnreadCount returns how many of userID's notifications are unread.
func UnreadCount(snap store.Snapshot, userID string) int {
	n := 0
	for _, note := range snap.Notifications {
		if note.UserID == userID && !note.Read {
			n++
		}
	}
	return n
}
