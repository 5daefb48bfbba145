package feed

import (
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// SuggestionLimit caps the number of suggested accounts.
const SuggestionLimit = 5

// Profile returns u with its post, follower and following counts.
func Profile(snap store.Snapshot, u models.User) models.Profile {
	p := models.Profile{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Bio:      u.Bio,
		Avatar:   u.Avatar,
	}
	for _, post := range snap.Posts {
		if post.UserID == u.ID {
			p.PostsCount++
		}
	}
	for _, f := range snap.Follows {
		if f.FollowedID == u.ID {
			p.FollowersCount++
		}
		if f.FollowerID == u.ID {
			p.FollowingCount++
		}
	}
	return p
}

// Profiles lists users whose username or full name contains search, ignoring
// case. An empty search lists everyone.
func Profiles(snap store.Snapshot, search string) []models.Profile {
	out := make([]models.Profile, 0, len(snap.Users))
	for _, u := range snap.Users {
		if search == "" || matchesUser(u, strings.ToLower(search)) {
			out = append(out, Profile(snap, u))
		}
	}
	return out
}

// Suggestions returns up to limit users that userID does not follow, in store order.
func Suggestions(snap store.Snapshot, userID string, limit int) []models.UserPublic {
	following := followedBy(&snap, userID)

	out := make([]models.UserPublic, 0, limit)
	for _, u := range snap.Users {
		if len(out) == limit {
			break
		}
		if u.ID == userID {
			continue
		}
		if _, ok := following[u.ID]; ok {
			continue
		}
		out = append(out, u.ToPublic())
	}
	return out
}

func matchesUser(u models.User, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(u.Username), lowerQuery) ||
		strings.Contains(strings.ToLower(u.FullName), lowerQuery)
}
