package store

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// MarkNotificationRead flags a notification owned by userID as read.
// Notifications of other users are reported as missing.
func (s *Store) MarkNotificationRead(ctx context.Context, id, userID string) (models.Notification, error) {
	var marked models.Notification
	err := s.mutate(ctx, func() error {
		for i := range s.data.Notifications {
			n := &s.data.Notifications[i]
			if n.ID != id || n.UserID != userID {
				continue
			}
			n.Read = true
			marked = *n
			return nil
		}
		return ErrNotFound
	})
	if err != nil {
		return models.Notification{}, err
	}
	return marked, nil
}
