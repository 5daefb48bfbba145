package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/anonto42/nano-social/backend/internal/auth"
	"github.com/anonto42/nano-social/backend/internal/models"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/store"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeFirebase struct {
	identities map[string]*firebase.Identity
}

func (f *fakeFirebase) VerifyIDToken(_ context.Context, idToken string) (*firebase.Identity, error) {
	if id, ok := f.identities[idToken]; ok {
		return id, nil
	}
	return nil, errors.New("bad token")
}

type testServer struct {
	t     *testing.T
	e     *echo.Echo
	store *store.Store
	dir   string
}

func newTestServer(t *testing.T, prepare ...func(dir string)) *testServer {
	t.Helper()
	dir := t.TempDir()
	for _, fn := range prepare {
		fn(dir)
	}

	s := store.New(repositories.NewFileSnapshotRepository(dir), store.WithoutSeed())
	require.NoError(t, s.Open(context.Background()))

	e := echo.New()
	config.SetupMiddleware(e, &config.Config{BodyLimit: "1M"}, zerolog.Nop())
	SetupRoutes(e, Dependencies{
		Store:      s,
		Tokens:     auth.NewTokenManager("test-secret", 0),
		BcryptCost: bcrypt.MinCost,
		Firebase: &fakeFirebase{identities: map[string]*firebase.Identity{
			"good": {UID: "fb1", Email: "fiona.gallagher@example.com", Name: "Fiona"},
		}},
	})
	return &testServer{t: t, e: e, store: s, dir: dir}
}

func (ts *testServer) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	ts.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func message(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[map[string]string](t, rec)["message"]
}

func (ts *testServer) signup(username string) models.AuthResponse {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret-" + username,
		"fullName": username + " Test",
	}, "")
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.AuthResponse](ts.t, rec)
}

func (ts *testServer) createPost(token, content string) models.PostView {
	ts.t.Helper()
	rec := ts.do(http.MethodPost, "/api/posts", map[string]string{"content": content}, token)
	require.Equal(ts.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[models.PostView](ts.t, rec)
}

func postIDs(views []models.PostView) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.ID
	}
	return out
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestSignupAndLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/auth/signup", map[string]string{
		"username": "alice", "email": "alice@example.com", "password": "pw", "fullName": "Alice",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")

	resp := decode[models.AuthResponse](t, rec)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.Equal(t, models.DefaultAvatar, resp.User.Avatar)
	assert.Empty(t, resp.User.Bio)

	rec = ts.do(http.MethodPost, "/api/auth/login", map[string]string{"email": "alice@example.com", "password": "pw"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	login := decode[models.AuthResponse](t, rec)
	assert.Equal(t, resp.User.ID, login.User.ID)

	rec = ts.do(http.MethodGet, "/api/users/me", nil, login.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, resp.User, decode[models.UserPublic](t, rec))
}

func TestSignup_DuplicateRejected(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("alice")

	for _, body := range []map[string]string{
		{"username": "alice", "email": "new@example.com", "password": "pw"},
		{"username": "newname", "email": "alice@example.com", "password": "pw"},
	} {
		rec := ts.do(http.MethodPost, "/api/auth/signup", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "User already exists", message(t, rec))
	}
	assert.Equal(t, 1, ts.store.UserCount())
}

func TestSignup_Validation(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/auth/signup", map[string]string{"username": "a", "password": "pw"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "email is required", message(t, rec))

	rec = ts.do(http.MethodPost, "/api/auth/signup", map[string]string{"username": "a", "email": "nope", "password": "pw"}, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Zero(t, ts.store.UserCount())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	ts := newTestServer(t)
	ts.signup("alice")

	for _, body := range []map[string]string{
		{"email": "alice@example.com", "password": "wrong"},
		{"email": "nobody@example.com", "password": "secret-alice"},
	} {
		rec := ts.do(http.MethodPost, "/api/auth/login", body, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "Invalid credentials", message(t, rec))
	}
}

func TestProtectedRoutes_TokenChecks(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodGet, "/api/posts/feed", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodGet, "/api/posts/feed", nil, "garbage")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	forged, err := auth.NewTokenManager("other-secret", 0).Issue("someone")
	require.NoError(t, err)
	rec = ts.do(http.MethodGet, "/api/posts/feed", nil, forged)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Public reads need no token.
	rec = ts.do(http.MethodGet, "/api/posts", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFeedScenario(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signup("alice")
	b := ts.signup("bob")

	p1 := ts.createPost(a.Token, "hello from alice")
	assert.Equal(t, store.DefaultContentType, p1.ContentType)
	require.NotNil(t, p1.IsLiked)
	assert.False(t, *p1.IsLiked)
	assert.Equal(t, "alice", p1.User.Username)

	rec := ts.do(http.MethodPost, "/api/users/"+a.User.ID+"/follow", nil, b.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.FollowStatus{IsFollowing: true, FollowersCount: 1}, decode[models.FollowStatus](t, rec))

	rec = ts.do(http.MethodGet, "/api/posts/feed", nil, b.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{p1.ID}, postIDs(decode[[]models.PostView](t, rec)))

	rec = ts.do(http.MethodGet, "/api/posts/feed", nil, a.Token)
	assert.Equal(t, []string{p1.ID}, postIDs(decode[[]models.PostView](t, rec)))

	rec = ts.do(http.MethodGet, "/api/posts", nil, "")
	global := decode[[]models.PostView](t, rec)
	require.Len(t, global, 1)
	assert.Zero(t, global[0].LikesCount)
	assert.Nil(t, global[0].IsLiked)

	rec = ts.do(http.MethodGet, "/api/users/"+a.User.ID+"/follow-status", nil, b.Token)
	assert.True(t, decode[models.FollowStatus](t, rec).IsFollowing)

	rec = ts.do(http.MethodGet, "/api/users/alice", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	profile := decode[models.Profile](t, rec)
	assert.Equal(t, 1, profile.PostsCount)
	assert.Equal(t, 1, profile.FollowersCount)

	rec = ts.do(http.MethodGet, "/api/users/ALICE", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, a.User.ID, decode[models.Profile](t, rec).ID)

	rec = ts.do(http.MethodGet, "/api/users/nobody", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodGet, "/api/users/suggestions", nil, b.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]models.UserPublic](t, rec))
}

func TestSelfFollowRejected(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signup("alice")

	rec := ts.do(http.MethodPost, "/api/users/"+a.User.ID+"/follow", nil, a.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cannot follow yourself", message(t, rec))
	assert.Empty(t, ts.store.Snapshot().Follows)
}

func TestLikeToggle(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signup("alice")
	p := ts.createPost(a.Token, "like me")

	rec := ts.do(http.MethodPost, "/api/posts/"+p.ID+"/like", nil, a.Token)
	assert.Equal(t, models.LikeStatus{LikesCount: 1, IsLiked: true}, decode[models.LikeStatus](t, rec))

	rec = ts.do(http.MethodPost, "/api/posts/"+p.ID+"/like", nil, a.Token)
	assert.Equal(t, models.LikeStatus{LikesCount: 0, IsLiked: false}, decode[models.LikeStatus](t, rec))

	rec = ts.do(http.MethodPost, "/api/posts/missing/like", nil, a.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostOwnershipAndCascade(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signup("alice")
	b := ts.signup("bob")
	p := ts.createPost(a.Token, "original #tag")

	rec := ts.do(http.MethodPost, "/api/posts/"+p.ID+"/comments", map[string]string{"content": "nice"}, b.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	comment := decode[models.CommentView](t, rec)
	assert.Equal(t, "bob", comment.User.Username)

	rec = ts.do(http.MethodPut, "/api/posts/"+p.ID, map[string]string{"content": "hijacked"}, b.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only edit your own posts", message(t, rec))

	rec = ts.do(http.MethodPut, "/api/posts/"+p.ID, map[string]string{"content": "edited"}, a.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	edited := decode[models.Post](t, rec)
	assert.Equal(t, "edited", edited.Content)
	assert.Equal(t, []string{"#tag"}, edited.Hashtags)

	rec = ts.do(http.MethodDelete, "/api/posts/"+p.ID, nil, b.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(http.MethodDelete, "/api/posts/"+p.ID, nil, a.Token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	_, err := ts.store.GetCommentByID(comment.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	rec = ts.do(http.MethodGet, "/api/posts/"+p.ID+"/comments", nil, "")
	assert.Equal(t, "[]\n", rec.Body.String())

	rec = ts.do(http.MethodDelete, "/api/posts/"+p.ID, nil, a.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCommentOnMissingPost(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signup("alice")

	rec := ts.do(http.MethodPost, "/api/posts/missing/comments", map[string]string{"content": "hi"}, a.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	p := ts.createPost(a.Token, "post")
	rec = ts.do(http.MethodPost, "/api/posts/"+p.ID+"/comments", map[string]string{}, a.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signup("alice")
	b := ts.signup("bob")

	rec := ts.do(http.MethodPut, "/api/users/"+b.User.ID, map[string]string{"bio": "x"}, a.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "You can only update your own profile.", message(t, rec))

	rec = ts.do(http.MethodPut, "/api/users/"+a.User.ID, map[string]string{"username": "bob"}, a.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username is already taken.", message(t, rec))

	rec = ts.do(http.MethodPut, "/api/users/"+a.User.ID, map[string]string{"bio": "hi there"}, a.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	account := decode[models.UserAccount](t, rec)
	assert.Equal(t, "hi there", account.Bio)
	assert.Equal(t, "alice", account.Username)
	assert.False(t, account.CreatedAt.IsZero())
}

func TestBookmarks(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signup("alice")
	p := ts.createPost(a.Token, "save me")

	rec := ts.do(http.MethodPost, "/api/posts/"+p.ID+"/bookmark", nil, a.Token)
	assert.True(t, decode[models.BookmarkStatus](t, rec).IsBookmarked)

	rec = ts.do(http.MethodGet, "/api/posts/bookmarks", nil, a.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{p.ID}, postIDs(decode[[]models.PostView](t, rec)))

	rec = ts.do(http.MethodPost, "/api/posts/"+p.ID+"/bookmark", nil, a.Token)
	assert.False(t, decode[models.BookmarkStatus](t, rec).IsBookmarked)
}

func TestStories(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signup("alice")
	b := ts.signup("bob")

	rec := ts.do(http.MethodPost, "/api/stories", map[string]string{}, a.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodPost, "/api/stories", map[string]string{"image": "https://img.test/s.png"}, a.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	story := decode[models.StoryView](t, rec)
	assert.Equal(t, models.StoryTTL, story.ExpiresAt.Sub(story.CreatedAt))
	assert.Equal(t, "alice", story.User.Username)
	assert.Nil(t, story.VideoURL)

	rec = ts.do(http.MethodGet, "/api/stories", nil, b.Token)
	assert.Empty(t, decode[[]models.StoryView](t, rec))

	ts.do(http.MethodPost, "/api/users/"+a.User.ID+"/follow", nil, b.Token)
	rec = ts.do(http.MethodGet, "/api/stories", nil, b.Token)
	assert.Len(t, decode[[]models.StoryView](t, rec), 1)

	rec = ts.do(http.MethodPost, "/api/stories/"+story.ID+"/view", nil, b.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{b.User.ID}, decode[map[string][]string](t, rec)["views"])

	rec = ts.do(http.MethodGet, "/api/users/"+a.User.ID+"/stories", nil, "")
	assert.Len(t, decode[[]models.Story](t, rec), 1)

	rec = ts.do(http.MethodPost, "/api/stories/missing/view", nil, b.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch(t *testing.T) {
	ts := newTestServer(t)
	a := ts.signup("alice")
	ts.createPost(a.Token, "learning #golang")

	rec := ts.do(http.MethodGet, "/api/search", nil, a.Token)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(http.MethodGet, "/api/search?query=GOLANG", nil, a.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	result := decode[map[string]json.RawMessage](t, rec)
	assert.JSONEq(t, `[]`, string(result["users"]))
	assert.JSONEq(t, `["#golang"]`, string(result["hashtags"]))

	rec = ts.do(http.MethodGet, "/api/search?query=alice&type=other", nil, a.Token)
	assert.JSONEq(t, `{}`, rec.Body.String())
}

func TestNotifications(t *testing.T) {
	now := time.Now().UTC()
	ts := newTestServer(t)
	a := ts.signup("alice")
	b := ts.signup("bob")

	// Notifications have no write path over HTTP, so place them on disk and reload.
	// n1 references a live user by id; n2 embeds an actor that has no account here.
	writeNotifications(t, ts.dir, fmt.Sprintf(`[
		{"id":"n1","userId":%[1]q,"type":"follow","actor":%[2]q,"content":"followed you","createdAt":%[3]q,"read":false},
		{"id":"n2","userId":%[1]q,"type":"like","actor":{"id":"u-gone","username":"jane","avatar":"https://img.test/j.png"},"content":"liked your post","createdAt":%[4]q,"read":false},
		{"id":"n3","userId":"someone-else","type":"like","actor":"x","content":"","createdAt":%[4]q,"read":false}
	]`, a.User.ID, b.User.ID, now.Add(-time.Hour).Format(time.RFC3339Nano), now.Format(time.RFC3339Nano)))
	ts.store.Load(context.Background())

	rec := ts.do(http.MethodGet, "/api/notifications", nil, a.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[[]models.NotificationView](t, rec)
	require.Len(t, list, 2)
	assert.Equal(t, "n2", list[0].ID)
	require.NotNil(t, list[0].Actor)
	assert.Equal(t, "jane", list[0].Actor.Username)
	assert.Equal(t, "https://img.test/j.png", list[0].Actor.Avatar)
	require.NotNil(t, list[1].Actor)
	assert.Equal(t, "bob", list[1].Actor.Username)

	rec = ts.do(http.MethodGet, "/api/notifications/unread-count", nil, a.Token)
	assert.JSONEq(t, `{"count":2}`, rec.Body.String())

	rec = ts.do(http.MethodPut, "/api/notifications/n3/read", nil, a.Token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(http.MethodPut, "/api/notifications/n1/read", nil, a.Token)
	require.Equal(t, http.StatusOK, rec.Code)
	marked := decode[models.NotificationView](t, rec)
	assert.True(t, marked.Read)
	require.NotNil(t, marked.Actor)
	assert.Equal(t, "bob", marked.Actor.Username)

	rec = ts.do(http.MethodGet, "/api/notifications/unread-count", nil, a.Token)
	assert.JSONEq(t, `{"count":1}`, rec.Body.String())

	// The write triggered by mark-read keeps the embedded actor on disk.
	data, err := os.ReadFile(filepath.Join(ts.dir, store.CollectionNotifications+".json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"username": "jane"`)
}

func writeNotifications(t *testing.T, dir, raw string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, store.CollectionNotifications+".json"), []byte(raw), 0644))
}

func TestFirebaseLogin(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(http.MethodPost, "/api/auth/firebase-login", map[string]string{"idToken": "bad"}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/api/auth/firebase-login", map[string]string{"idToken": "good"}, "")
	require.Equal(t, http.StatusOK, rec.Code)
	first := decode[models.AuthResponse](t, rec)
	assert.Equal(t, "fionagallagher", first.User.Username)
	assert.Equal(t, "Fiona", first.User.FullName)

	rec = ts.do(http.MethodPost, "/api/auth/firebase-login", map[string]string{"idToken": "good"}, "")
	second := decode[models.AuthResponse](t, rec)
	assert.Equal(t, first.User.ID, second.User.ID)
	assert.Equal(t, 1, ts.store.UserCount())

	rec = ts.do(http.MethodGet, "/api/users/me", nil, second.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFirebaseLogin_DisabledWithoutVerifier(t *testing.T) {
	e := echo.New()
	SetupRoutes(e, Dependencies{
		Store:  store.New(repositories.NewFileSnapshotRepository(t.TempDir()), store.WithoutSeed()),
		Tokens: auth.NewTokenManager("s", 0),
	})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/firebase-login", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHTTPErrorHandler(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		expose  bool
		code    int
		message string
	}{
		{"http error", echo.NewHTTPError(http.StatusNotFound, "Post not found"), false, http.StatusNotFound, "Post not found"},
		{"hidden", errors.New("disk full"), false, http.StatusInternalServerError, genericErrorMessage},
		{"exposed", errors.New("disk full"), true, http.StatusInternalServerError, "disk full"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			NewHTTPErrorHandler(tc.expose)(tc.err, c)

			assert.Equal(t, tc.code, rec.Code)
			assert.Equal(t, tc.message, message(t, rec))
		})
	}
}
