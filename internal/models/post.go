package models

import "time"

// Post is a piece of user content. Likes is a set of user ids kept in insertion order.
type Post struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Content     string    `json:"content"`
	Image       *string   `json:"image"`
	VideoURL    *string   `json:"videoUrl"`
	ContentType string    `json:"contentType"`
	Likes       []string  `json:"likes"`
	Shares      []string  `json:"shares"`
	Hashtags    []string  `json:"hashtags"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Clone returns a copy that shares no slices with p.
func (p Post) Clone() Post {
	p.Likes = append([]string{}, p.Likes...)
	p.Shares = append([]string{}, p.Shares...)
	p.Hashtags = append([]string{}, p.Hashtags...)
	return p
}

// HasLike reports whether userID is in the likes set.
func (p *Post) HasLike(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// PostView is a post with its author and derived counters.
type PostView struct {
	Post
	User          *UserCompact `json:"user"`
	LikesCount    int          `json:"likesCount"`
	CommentsCount int          `json:"commentsCount"`
	IsLiked       *bool        `json:"isLiked,omitempty"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Content     string `json:"content" validate:"required"`
	Image       string `json:"image,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
	ContentType string `json:"contentType,omitempty" validate:"omitempty,oneof=post reel story"`
}

// UpdatePostRequest defines the request body for editing a post
type UpdatePostRequest struct {
	Content string `json:"content" validate:"required"`
}
