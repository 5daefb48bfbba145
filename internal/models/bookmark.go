package models

import "time"

// Bookmark represents a post saved by a user
type Bookmark struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PostID    string    `json:"postId"`
	CreatedAt time.Time `json:"createdAt"`
}

// BookmarkStatus is the outcome of a bookmark toggle.
type BookmarkStatus struct {
	IsBookmarked bool `json:"isBookmarked"`
}
