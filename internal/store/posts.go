package store

import (
	"context"
	"regexp"

	"github.com/anonto42/nano-social/backend/internal/models"
)

// DefaultContentType is used when a post is created without one.
const DefaultContentType = "post"

var hashtagPattern = regexp.MustCompile(`#[a-zA-Z0-9]+`)

// ExtractHashtags returns every #tag in content, in order, keeping duplicates.
func ExtractHashtags(content string) []string {
	tags := hashtagPattern.FindAllString(content, -1)
	if tags == nil {
		return []string{}
	}
	return tags
}

// CreatePost stores a new post by userID. Hashtags are taken from the content once, here.
func (s *Store) CreatePost(ctx context.Context, userID string, req models.CreatePostRequest) (models.Post, error) {
	p := models.Post{
		UserID:      userID,
		Content:     req.Content,
		Image:       optional(req.Image),
		VideoURL:    optional(req.VideoURL),
		ContentType: req.ContentType,
		Likes:       []string{},
		Shares:      []string{},
		Hashtags:    ExtractHashtags(req.Content),
	}
	if p.ContentType == "" {
		p.ContentType = DefaultContentType
	}

	err := s.mutate(ctx, func() error {
		p.ID = s.newID()
		p.CreatedAt = s.now()
		s.data.Posts = append(s.data.Posts, p)
		return nil
	})
	if err != nil {
		return models.Post{}, err
	}
	return p.Clone(), nil
}

// GetPostByID returns a copy of the post.
func (s *Store) GetPostByID(id string) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p := s.postByIDLocked(id); p != nil {
		return p.Clone(), nil
	}
	return models.Post{}, ErrNotFound
}

// UpdatePostContent replaces the content of a post owned by requesterID.
// Hashtags are left as they were at creation.
func (s *Store) UpdatePostContent(ctx context.Context, id, requesterID, content string) (models.Post, error) {
	var updated models.Post
	err := s.mutate(ctx, func() error {
		p := s.postByIDLocked(id)
		if p == nil {
			return ErrNotFound
		}
		if p.UserID != requesterID {
			return ErrForbidden
		}
		p.Content = content
		updated = p.Clone()
		return nil
	})
	if err != nil {
		return models.Post{}, err
	}
	return updated, nil
}

// DeletePost removes a post owned by requesterID together with its comments.
func (s *Store) DeletePost(ctx context.Context, id, requesterID string) error {
	return s.mutate(ctx, func() error {
		idx := -1
		for i := range s.data.Posts {
			if s.data.Posts[i].ID == id {
				idx = i
				break
			}
		}
		if idx == -1 {
			return ErrNotFound
		}
		if s.data.Posts[idx].UserID != requesterID {
			return ErrForbidden
		}

		kept := make([]models.Comment, 0, len(s.data.Comments))
		for _, c := range s.data.Comments {
			if c.PostID != id {
				kept = append(kept, c)
			}
		}
		s.data.Comments = kept
		s.data.Posts = append(s.data.Posts[:idx], s.data.Posts[idx+1:]...)
		return nil
	})
}

// ToggleLike adds userID to the post's likes, or removes it if present.
func (s *Store) ToggleLike(ctx context.Context, postID, userID string) (models.LikeStatus, error) {
	var status models.LikeStatus
	err := s.mutate(ctx, func() error {
		p := s.postByIDLocked(postID)
		if p == nil {
			return ErrNotFound
		}

		removed := false
		for i, id := range p.Likes {
			if id == userID {
				p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
				removed = true
				break
			}
		}
		if !removed {
			p.Likes = append(p.Likes, userID)
		}

		status = models.LikeStatus{LikesCount: len(p.Likes), IsLiked: !removed}
		return nil
	})
	if err != nil {
		return models.LikeStatus{}, err
	}
	return status, nil
}

// CreateComment adds a comment to an existing post.
func (s *Store) CreateComment(ctx context.Context, postID, userID, content string) (models.Comment, error) {
	var c models.Comment
	err := s.mutate(ctx, func() error {
		if s.postByIDLocked(postID) == nil {
			return ErrNotFound
		}
		c = models.Comment{
			ID:        s.newID(),
			PostID:    postID,
			UserID:    userID,
			Content:   content,
			CreatedAt: s.now(),
		}
		s.data.Comments = append(s.data.Comments, c)
		return nil
	})
	if err != nil {
		return models.Comment{}, err
	}
	return c, nil
}

// GetCommentByID returns the comment with the given id.
func (s *Store) GetCommentByID(id string) (models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, c := range s.data.Comments {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Comment{}, ErrNotFound
}

func (s *Store) postByIDLocked(id string) *models.Post {
	for i := range s.data.Posts {
		if s.data.Posts[i].ID == id {
			return &s.data.Posts[i]
		}
	}
	return nil
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
