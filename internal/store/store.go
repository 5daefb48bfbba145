package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anonto42/nano-social/backend/internal/auth"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	pkglog "github.com/anonto42/nano-social/backend/pkg/log"
	"github.com/google/uuid"
)

// Collection names, in the order they are written.
const (
	CollectionUsers         = "users"
	CollectionPosts         = "posts"
	CollectionComments      = "comments"
	CollectionFollows       = "follows"
	CollectionStories       = "stories"
	CollectionBookmarks     = "bookmarks"
	CollectionNotifications = "notifications"
)

// Collections lists every persisted collection in save order.
var Collections = []string{
	CollectionUsers,
	CollectionPosts,
	CollectionComments,
	CollectionFollows,
	CollectionStories,
	CollectionBookmarks,
	CollectionNotifications,
}

// Snapshot is a point-in-time copy of every collection. At is the clock
// reading used to decide story expiry for reads derived from it.
type Snapshot struct {
	Users         []models.User
	Posts         []models.Post
	Comments      []models.Comment
	Follows       []models.Follow
	Stories       []models.Story
	Bookmarks     []models.Bookmark
	Notifications []models.Notification
	At            time.Time
}

// Store keeps all collections in memory and writes a full snapshot through
// the repository after every successful mutation.
//
// Each mutation holds the write lock for its check, its change and its flush,
// so concurrent toggles on the same pair never produce duplicates.
type Store struct {
	mu   sync.RWMutex
	repo repositories.SnapshotRepository
	data Snapshot

	now          func() time.Time
	newID        func() string
	hashPassword func(string) (string, error)
	seed         bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPasswordHasher sets the hasher used for demo accounts.
func WithPasswordHasher(hash func(string) (string, error)) Option {
	return func(s *Store) { s.hashPassword = hash }
}

// WithoutSeed disables the demo data written into an empty store.
func WithoutSeed() Option {
	return func(s *Store) { s.seed = false }
}

// New creates an empty Store backed by repo. Call Open to populate it.
func New(repo repositories.SnapshotRepository, opts ...Option) *Store {
	s := &Store{
		repo:  repo,
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
		hashPassword: func(pw string) (string, error) {
			return auth.HashPassword(pw, auth.DefaultCost)
		},
		seed: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.data = emptySnapshot()
	return s
}

// Open loads persisted data, seeds demo content when there are no users and
// writes the result back.
func (s *Store) Open(ctx context.Context) error {
	s.Load(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.data.Users) > 0 || !s.seed {
		return nil
	}
	if err := s.seedLocked(); err != nil {
		return fmt.Errorf("seed demo data: %w", err)
	}
	return s.saveLocked(ctx)
}

// Load replaces the in-memory state with what the repository holds. A
// collection that is missing or unreadable starts empty; the failure is
// logged and never returned. Expired stories are dropped here and only here.
func (s *Store) Load(ctx context.Context) {
	logger := pkglog.Ctx(ctx)

	next := Snapshot{
		Users:         loadCollection[models.User](ctx, s.repo, CollectionUsers),
		Posts:         loadCollection[models.Post](ctx, s.repo, CollectionPosts),
		Comments:      loadCollection[models.Comment](ctx, s.repo, CollectionComments),
		Follows:       loadCollection[models.Follow](ctx, s.repo, CollectionFollows),
		Stories:       loadCollection[models.Story](ctx, s.repo, CollectionStories),
		Bookmarks:     loadCollection[models.Bookmark](ctx, s.repo, CollectionBookmarks),
		Notifications: loadCollection[models.Notification](ctx, s.repo, CollectionNotifications),
	}
	normalize(&next)

	now := s.now()
	live := next.Stories[:0]
	for _, st := range next.Stories {
		if !st.Expired(now) {
			live = append(live, st)
		}
	}
	if purged := len(next.Stories) - len(live); purged > 0 {
		logger.Info().Int("purged", purged).Msg("dropped expired stories")
	}
	next.Stories = live

	s.mu.Lock()
	s.data = next
	s.mu.Unlock()

	logger.Info().
		Int(CollectionUsers, len(next.Users)).
		Int(CollectionPosts, len(next.Posts)).
		Int(CollectionStories, len(next.Stories)).
		Msg("store loaded")
}

func loadCollection[T any](ctx context.Context, repo repositories.SnapshotRepository, name string) []T {
	var items []T
	err := repo.LoadCollection(ctx, name, &items)
	switch {
	case err == nil:
	case errors.Is(err, repositories.ErrCollectionNotFound):
		l := pkglog.Ctx(ctx)
		l.Debug().Str(pkglog.FieldCollection, name).Msg("no stored data, starting empty")
		return []T{}
	default:
		l := pkglog.Ctx(ctx)
		l.Warn().Err(err).Str(pkglog.FieldCollection, name).Msg("failed to load collection, starting empty")
		return []T{}
	}
	if items == nil {
		return []T{}
	}
	return items
}

// Save writes every collection, including the ones no mutation touched.
func (s *Store) Save(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveLocked(ctx)
}

func (s *Store) saveLocked(ctx context.Context) error {
	sources := map[string]any{
		CollectionUsers:         s.data.Users,
		CollectionPosts:         s.data.Posts,
		CollectionComments:      s.data.Comments,
		CollectionFollows:       s.data.Follows,
		CollectionStories:       s.data.Stories,
		CollectionBookmarks:     s.data.Bookmarks,
		CollectionNotifications: s.data.Notifications,
	}
	for _, name := range Collections {
		if err := s.repo.SaveCollection(ctx, name, sources[name]); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
	}
	return nil
}

// mutate runs fn under the write lock and persists the snapshot when fn
// succeeds. A failed flush leaves the in-memory change in place.
func (s *Store) mutate(ctx context.Context, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	if err := s.saveLocked(ctx); err != nil {
		l := pkglog.Ctx(ctx)
		l.Error().Err(err).Msg("failed to persist snapshot")
		return err
	}
	return nil
}

// Snapshot returns a deep copy of every collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Snapshot{
		Users:         append([]models.User{}, s.data.Users...),
		Posts:         make([]models.Post, len(s.data.Posts)),
		Comments:      append([]models.Comment{}, s.data.Comments...),
		Follows:       append([]models.Follow{}, s.data.Follows...),
		Stories:       make([]models.Story, len(s.data.Stories)),
		Bookmarks:     append([]models.Bookmark{}, s.data.Bookmarks...),
		Notifications: append([]models.Notification{}, s.data.Notifications...),
		At:            s.now(),
	}
	for i, p := range s.data.Posts {
		out.Posts[i] = p.Clone()
	}
	for i, st := range s.data.Stories {
		out.Stories[i] = st.Clone()
	}
	return out
}

func emptySnapshot() Snapshot {
	return Snapshot{
		Users:         []models.User{},
		Posts:         []models.Post{},
		Comments:      []models.Comment{},
		Follows:       []models.Follow{},
		Stories:       []models.Story{},
		Bookmarks:     []models.Bookmark{},
		Notifications: []models.Notification{},
	}
}

// normalize replaces nil slices so they encode as [] and fills fields older
// data may lack.
func normalize(d *Snapshot) {
	if d.Users == nil {
		d.Users = []models.User{}
	}
	if d.Posts == nil {
		d.Posts = []models.Post{}
	}
	if d.Comments == nil {
		d.Comments = []models.Comment{}
	}
	if d.Follows == nil {
		d.Follows = []models.Follow{}
	}
	if d.Stories == nil {
		d.Stories = []models.Story{}
	}
	if d.Bookmarks == nil {
		d.Bookmarks = []models.Bookmark{}
	}
	if d.Notifications == nil {
		d.Notifications = []models.Notification{}
	}
	for i := range d.Posts {
		d.Posts[i] = d.Posts[i].Clone()
		if d.Posts[i].ContentType == "" {
			d.Posts[i].ContentType = DefaultContentType
		}
	}
	for i := range d.Stories {
		d.Stories[i] = d.Stories[i].Clone()
	}
}
