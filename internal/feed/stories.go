package feed

import (
	"sort"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// StoryFeed returns live stories by userID and the users it follows, newest first.
func StoryFeed(snap store.Snapshot, userID string) []models.StoryView {
	idx := newIndex(&snap)
	authors := followedBy(&snap, userID)
	authors[userID] = struct{}{}

	stories := liveStories(snap, func(st models.Story) bool {
		_, ok := authors[st.UserID]
		return ok
	})

	out := make([]models.StoryView, 0, len(stories))
	for _, st := range stories {
		out = append(out, models.StoryView{Story: st, User: idx.author(st.UserID)})
	}
	return out
}

// UserStories returns the live stories of one user, newest first.
func UserStories(snap store.Snapshot, userID string) []models.Story {
	return liveStories(snap, func(st models.Story) bool {
		return st.UserID == userID
	})
}

func liveStories(snap store.Snapshot, keep func(models.Story) bool) []models.Story {
	out := make([]models.Story, 0)
	for _, st := range snap.Stories {
		if !st.Expired(snap.At) && keep(st) {
			out = append(out, st)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
