package feed

import (
	"strings"

	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/store"
)

// Search types.
const (
	SearchAll      = "all"
	SearchUsers    = "users"
	SearchPosts    = "posts"
	SearchHashtags = "hashtags"
)

// HashtagLimit caps the hashtags facet.
const HashtagLimit = 10

// Search matches query case-insensitively against the facets selected by typ.
// Only requested facets appear in the result, so an unknown typ yields an empty object.
func Search(snap store.Snapshot, query, typ string) map[string]any {
	if typ == "" {
		typ = SearchAll
	}
	res := make(map[string]any, 3)
	if typ == SearchAll || typ == SearchUsers {
		res[SearchUsers] = SearchUsersFacet(snap, query)
	}
	if typ == SearchAll || typ == SearchPosts {
		res[SearchPosts] = SearchPostsFacet(snap, query)
	}
	if typ == SearchAll || typ == SearchHashtags {
		res[SearchHashtags] = SearchHashtagsFacet(snap, query)
	}
	return res
}

// SearchUsersFacet matches username or full name.
func SearchUsersFacet(snap store.Snapshot, query string) []models.UserCompact {
	q := strings.ToLower(query)
	out := []models.UserCompact{}
	for _, u := range snap.Users {
		if matchesUser(u, q) {
			out = append(out, u.ToCompact())
		}
	}
	return out
}

// SearchPostsFacet matches post content or any of its hashtags, in store order.
func SearchPostsFacet(snap store.Snapshot, query string) []models.PostView {
	q := strings.ToLower(query)
	idx := newIndex(&snap)

	out := []models.PostView{}
	for _, p := range snap.Posts {
		if strings.Contains(strings.ToLower(p.Content), q) || anyContains(p.Hashtags, q) {
			out = append(out, idx.postView(p, ""))
		}
	}
	return out
}

// SearchHashtagsFacet returns distinct hashtags in order of first appearance
// across posts, filtered by query and cut to HashtagLimit.
func SearchHashtagsFacet(snap store.Snapshot, query string) []string {
	q := strings.ToLower(query)
	seen := make(map[string]struct{})
	out := []string{}
	for _, p := range snap.Posts {
		for _, tag := range p.Hashtags {
			if _, dup := seen[tag]; dup {
				continue
			}
			seen[tag] = struct{}{}
			if !strings.Contains(strings.ToLower(tag), q) {
				continue
			}
			out = append(out, tag)
			if len(out) == HashtagLimit {
				return out
			}
		}
	}
	return out
}

func anyContains(values []string, lowerQuery string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), lowerQuery) {
			return true
		}
	}
	return false
}
