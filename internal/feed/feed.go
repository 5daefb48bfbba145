// Package feed derives the read-side views of the store: feeds, profiles,
// search results and story lists. Every function works on a store.Snapshot
// and recomputes counters on each call.
package feed

import (
	"sort"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// index holds lookups built once per snapshot.
type index struct {
	users    map[string]*models.User
	comments map[string]int
}

func newIndex(snap *store.Snapshot) *index {
	idx := &index{
		users:    make(map[string]*models.User, len(snap.Users)),
		comments: make(map[string]int),
	}
	for i := range snap.Users {
		idx.users[snap.Users[i].ID] = &snap.Users[i]
	}
	for _, c := range snap.Comments {
		idx.comments[c.PostID]++
	}
	return idx
}

// author returns the compact form of userID, or nil when the user is gone.
func (idx *index) author(userID string) *models.UserCompact {
	u, ok := idx.users[userID]
	if !ok {
		return nil
	}
	c := u.ToCompact()
	return &c
}

func (idx *index) postView(p models.Post, viewerID string) models.PostView {
	v := models.PostView{
		Post:          p,
		User:          idx.author(p.UserID),
		LikesCount:    len(p.Likes),
		CommentsCount: idx.comments[p.ID],
	}
	if viewerID != "" {
		liked := p.HasLike(viewerID)
		v.IsLiked = &liked
	}
	return v
}

// newestFirst orders posts by creation time, descending. Equal timestamps keep store order.
func newestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}

// GlobalFeed returns every post, newest first.
func GlobalFeed(snap store.Snapshot) []models.PostView {
	idx := newIndex(&snap)

	posts := append([]models.Post{}, snap.Posts...)
	newestFirst(posts)

	out := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, idx.postView(p, ""))
	}
	return out
}

// PersonalFeed returns posts by userID and by the users userID follows,
// newest first, with isLiked set for userID.
func PersonalFeed(snap store.Snapshot, userID string) []models.PostView {
	idx := newIndex(&snap)
	authors := followedBy(&snap, userID)
	authors[userID] = struct{}{}

	posts := make([]models.Post, 0)
	for _, p := range snap.Posts {
		if _, ok := authors[p.UserID]; ok {
			posts = append(posts, p)
		}
	}
	newestFirst(posts)

	out := make([]models.PostView, 0, len(posts))
	for _, p := range posts {
		out = append(out, idx.postView(p, userID))
	}
	return out
}

// BookmarkedPosts returns the posts userID bookmarked, most recent bookmark
// first. Bookmarks whose post no longer exists are skipped.
func BookmarkedPosts(snap store.Snapshot, userID string) []models.PostView {
	idx := newIndex(&snap)
	posts := make(map[string]models.Post, len(snap.Posts))
	for _, p := range snap.Posts {
		posts[p.ID] = p
	}

	marks := make([]models.Bookmark, 0)
	for _, b := range snap.Bookmarks {
		if b.UserID == userID {
			marks = append(marks, b)
		}
	}
	sort.SliceStable(marks, func(i, j int) bool {
		return marks[i].CreatedAt.After(marks[j].CreatedAt)
	})

	out := make([]models.PostView, 0, len(marks))
	for _, b := range marks {
		if p, ok := posts[b.PostID]; ok {
			out = append(out, idx.postView(p, userID))
		}
	}
	return out
}

// PostView returns a single post. isLiked is set only when viewerID is not empty.
func PostView(snap store.Snapshot, postID, viewerID string) (models.PostView, bool) {
	for _, p := range snap.Posts {
		if p.ID == postID {
			return newIndex(&snap).postView(p, viewerID), true
		}
	}
	return models.PostView{}, false
}

// Comments returns the comments on postID, oldest first, with their authors.
func Comments(snap store.Snapshot, postID string) []models.CommentView {
	idx := newIndex(&snap)

	comments := make([]models.Comment, 0)
	for _, c := range snap.Comments {
		if c.PostID == postID {
			comments = append(comments, c)
		}
	}
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})

	out := make([]models.CommentView, 0, len(comments))
	for _, c := range comments {
		out = append(out, models.CommentView{Comment: c, User: idx.author(c.UserID)})
	}
	return out
}

// followedBy returns the set of user ids that userID follows.
func followedBy(snap *store.Snapshot, userID string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, f := range snap.Follows {
		if f.FollowerID == userID {
			set[f.FollowedID] = struct{}{}
		}
	}
	return set
}
