package handlers

import (
	"context"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// Store is the subset of *store.Store the handlers depend on.
type Store interface {
	Snapshot() store.Snapshot

	CreateUser(ctx context.Context, u models.User) (models.User, error)
	FindOrCreateUserByEmail(ctx context.Context, u models.User) (models.User, bool, error)
	GetUserByID(id string) (models.User, error)
	GetUserByEmail(email string) (models.User, error)
	GetUserByUsername(username string) (models.User, error)
	UserExists(email, username string) bool
	UpdateUser(ctx context.Context, id string, req models.UpdateUserRequest) (models.User, error)

	CreatePost(ctx context.Context, userID string, req models.CreatePostRequest) (models.Post, error)
	UpdatePostContent(ctx context.Context, id, requesterID, content string) (models.Post, error)
	DeletePost(ctx context.Context, id, requesterID string) error
	ToggleLike(ctx context.Context, postID, userID string) (models.LikeStatus, error)
	CreateComment(ctx context.Context, postID, userID, content string) (models.Comment, error)

	ToggleFollow(ctx context.Context, followerID, followedID string) (models.FollowStatus, error)
	FollowStatus(followerID, followedID string) models.FollowStatus
	ToggleBookmark(ctx context.Context, userID, postID string) (models.BookmarkStatus, error)

	CreateStory(ctx context.Context, userID string, req models.CreateStoryRequest) (models.Story, error)
	ViewStory(ctx context.Context, storyID, viewerID string) (models.Story, error)

	MarkNotificationRead(ctx context.Context, id, userID string) (models.Notification, error)
}

var _ Store = (*store.Store)(nil)
