package models

import "time"

// StoryTTL is how long a story stays visible after creation.
const StoryTTL = 24 * time.Hour

// Story is ephemeral content. Views holds the ids of users who opened it.
type Story struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	Image     *string   `json:"image"`
	VideoURL  *string   `json:"videoUrl"`
	Views     []string  `json:"views"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the story is no longer visible at now.
func (s *Story) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Clone returns a copy that shares no slices with s.
func (s Story) Clone() Story {
	s.Views = append([]string{}, s.Views...)
	return s
}

// StoryView is a story with its author embedded.
type StoryView struct {
	Story
	User *UserCompact `json:"user"`
}

// CreateStoryRequest defines the request body for creating a story.
// At least one of the three fields must be present.
type CreateStoryRequest struct {
	Content  string `json:"content,omitempty" validate:"required_without_all=Image VideoURL"`
	Image    string `json:"image,omitempty"`
	VideoURL string `json:"videoUrl,omitempty"`
}
