package store

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// ToggleFollow makes followerID follow followedID, or stops following if it
// already does. The followed user is not required to exist.
func (s *Store) ToggleFollow(ctx context.Context, followerID, followedID string) (models.FollowStatus, error) {
	if followerID == followedID {
		return models.FollowStatus{}, ErrSelfFollow
	}

	var status models.FollowStatus
	err := s.mutate(ctx, func() error {
		idx := s.followIndexLocked(followerID, followedID)
		if idx >= 0 {
			s.data.Follows = append(s.data.Follows[:idx], s.data.Follows[idx+1:]...)
		} else {
			s.data.Follows = append(s.data.Follows, models.Follow{
				ID:         s.newID(),
				FollowerID: followerID,
				FollowedID: followedID,
				CreatedAt:  s.now(),
			})
		}
		status = models.FollowStatus{
			IsFollowing:    idx < 0,
			FollowersCount: s.followersCountLocked(followedID),
		}
		return nil
	})
	if err != nil {
		return models.FollowStatus{}, err
	}
	return status, nil
}

// FollowStatus reports whether followerID follows followedID.
func (s *Store) FollowStatus(followerID, followedID string) models.FollowStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return models.FollowStatus{
		IsFollowing:    s.followIndexLocked(followerID, followedID) >= 0,
		FollowersCount: s.followersCountLocked(followedID),
	}
}

func (s *Store) followIndexLocked(followerID, followedID string) int {
	for i, f := range s.data.Follows {
		if f.FollowerID == followerID && f.FollowedID == followedID {
			return i
		}
	}
	return -1
}

func (s *Store) followersCountLocked(userID string) int {
	n := 0
	for _, f := range s.data.Follows {
		if f.FollowedID == userID {
			n++
		}
	}
	return n
}

// ToggleBookmark saves postID for userID, or removes the bookmark if present.
// The post is not required to exist.
func (s *Store) ToggleBookmark(ctx context.Context, userID, postID string) (models.BookmarkStatus, error) {
	var status models.BookmarkStatus
	err := s.mutate(ctx, func() error {
		for i, b := range s.data.Bookmarks {
			if b.UserID == userID && b.PostID == postID {
				s.data.Bookmarks = append(s.data.Bookmarks[:i], s.data.Bookmarks[i+1:]...)
				status.IsBookmarked = false
				return nil
			}
		}
		s.data.Bookmarks = append(s.data.Bookmarks, models.Bookmark{
			ID:        s.newID(),
			UserID:    userID,
			PostID:    postID,
			CreatedAt: s.now(),
		})
		status.IsBookmarked = true
		return nil
	})
	if err != nil {
		return models.BookmarkStatus{}, err
	}
	return status, nil
}
