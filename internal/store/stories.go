package store

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// CreateStory stores a story that expires models.StoryTTL after creation.
func (s *Store) CreateStory(ctx context.Context, userID string, req models.CreateStoryRequest) (models.Story, error) {
	var st models.Story
	err := s.mutate(ctx, func() error {
		now := s.now()
		st = models.Story{
			ID:        s.newID(),
			UserID:    userID,
			Content:   req.Content,
			Image:     optional(req.Image),
			VideoURL:  optional(req.VideoURL),
			Views:     []string{},
			CreatedAt: now,
			ExpiresAt: now.Add(models.StoryTTL),
		}
		s.data.Stories = append(s.data.Stories, st)
		return nil
	})
	if err != nil {
		return models.Story{}, err
	}
	return st.Clone(), nil
}

// ViewStory records viewerID in the story's views once. Expired stories are
// treated as missing.
func (s *Store) ViewStory(ctx context.Context, storyID, viewerID string) (models.Story, error) {
	var viewed models.Story
	err := s.mutate(ctx, func() error {
		var st *models.Story
		for i := range s.data.Stories {
			if s.data.Stories[i].ID == storyID {
				st = &s.data.Stories[i]
				break
			}
		}
		if st == nil || st.Expired(s.now()) {
			return ErrNotFound
		}

		seen := false
		for _, id := range st.Views {
			if id == viewerID {
				seen = true
				break
			}
		}
		if !seen {
			st.Views = append(st.Views, viewerID)
		}
		viewed = st.Clone()
		return nil
	})
	if err != nil {
		return models.Story{}, err
	}
	return viewed, nil
}
