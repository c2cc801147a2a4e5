package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/MosinFAM/microblog/internal/langdetect"
	"github.com/MosinFAM/microblog/internal/models"
	"github.com/MosinFAM/microblog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPosts(t *testing.T, store storage.Storage, author *models.User, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		require.NoError(t, store.AddPost(context.Background(), &models.Post{
			AuthorID: author.ID,
			Body:     fmt.Sprintf("%s post %d", author.Username, i),
		}))
	}
}

func TestSubmitPost(t *testing.T) {
	publisher := &fakePublisher{}
	tc := newTestServer(t, storage.NewMemoryStorage(), func(s *Server) {
		s.Detector = fakeDetector{code: "es"}
		s.Events = publisher
	})
	susan := tc.login("susan")

	w := tc.post("/index", url.Values{"post": {"hola a todos"}})
	assertRedirect(t, w, "/index")

	page := tc.get("/index")
	assert.Contains(t, page.Body.String(), "Your post is now live!")
	assert.Contains(t, page.Body.String(), "hola a todos")

	posts, err := tc.server.Storage.UserPosts(context.Background(), susan.ID, 1, 10)
	require.NoError(t, err)
	require.Len(t, posts.Items, 1)
	assert.Equal(t, "es", posts.Items[0].Language)

	require.Len(t, publisher.posts, 1)
	assert.Equal(t, posts.Items[0].ID, publisher.posts[0].ID)
}

func TestSubmitPost_UndetectedLanguage(t *testing.T) {
	for _, code := range []string{langdetect.Unknown, "toolong"} {
		t.Run(code, func(t *testing.T) {
			tc := newTestServer(t, storage.NewMemoryStorage(), func(s *Server) {
				s.Detector = fakeDetector{code: code}
			})
			susan := tc.login("susan")

			assertRedirect(t, tc.post("/", url.Values{"post": {"???"}}), "/index")

			posts, err := tc.server.Storage.UserPosts(context.Background(), susan.ID, 1, 10)
			require.NoError(t, err)
			require.Len(t, posts.Items, 1)
			assert.Empty(t, posts.Items[0].Language)
		})
	}
}

func TestSubmitPost_Invalid(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	tc.login("susan")

	w := tc.post("/index", url.Values{"post": {""}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")

	w = tc.post("/index", url.Values{"post": {strings.Repeat("x", 141)}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Field cannot be longer than 140 characters.")

	explore, err := tc.server.Storage.ExplorePosts(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Zero(t, explore.Total)
}

func TestSubmitPost_PublishFailureIsIgnored(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage(), func(s *Server) {
		s.Events = &fakePublisher{err: errors.New("nats: connection closed")}
	})
	tc.login("susan")

	assertRedirect(t, tc.post("/index", url.Values{"post": {"hello"}}), "/index")
}

func TestIndex_ShowsFollowedAndOwnPosts(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")
	bob := register(t, tc.server.Storage, "bob")
	carol := register(t, tc.server.Storage, "carol")
	seedPosts(t, tc.server.Storage, susan, 1)
	seedPosts(t, tc.server.Storage, bob, 1)
	seedPosts(t, tc.server.Storage, carol, 1)
	require.NoError(t, tc.server.Storage.Follow(context.Background(), susan.ID, bob.ID))

	body := tc.get("/index").Body.String()

	assert.Contains(t, body, "susan post 1")
	assert.Contains(t, body, "bob post 1")
	assert.NotContains(t, body, "carol post 1")
}

func TestExplore_Pagination(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")
	seedPosts(t, tc.server.Storage, susan, 7)

	first := tc.get("/explore").Body.String()
	assert.Contains(t, first, "susan post 7")
	assert.Contains(t, first, "susan post 5")
	assert.NotContains(t, first, "susan post 4")
	assert.Contains(t, first, `href="/explore?page=2"`)
	assert.NotContains(t, first, "Newer posts")

	last := tc.get("/explore?page=3").Body.String()
	assert.Contains(t, last, "susan post 1")
	assert.NotContains(t, last, "susan post 2")
	assert.Contains(t, last, `href="/explore?page=2"`)
	assert.NotContains(t, last, "Older posts")

	beyond := tc.get("/explore?page=4")
	assert.Equal(t, http.StatusOK, beyond.Code)
	assert.Contains(t, beyond.Body.String(), "No posts yet.")

	junk := tc.get("/explore?page=abc").Body.String()
	assert.Contains(t, junk, "susan post 7")
}

func TestFeeds_HugePageIsEmpty(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")
	seedPosts(t, tc.server.Storage, susan, 7)

	for _, path := range []string{"/explore", "/index", "/user/susan", "/search?q=susan"} {
		sep := "?"
		if strings.Contains(path, "?") {
			sep = "&"
		}
		w := tc.get(path + sep + "page=3074457345618258604")
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotContains(t, w.Body.String(), "susan post", path)
		assert.NotContains(t, w.Body.String(), "Older posts", path)
	}
}

func TestExplore_TranslateLink(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")
	require.NoError(t, tc.server.Storage.AddPost(context.Background(), &models.Post{
		AuthorID: susan.ID, Body: "hola", Language: "es",
	}))

	english := tc.do(http.MethodGet, "/explore", nil, "Accept-Language", "en")
	assert.Contains(t, english.Body.String(), "Translate")

	spanish := tc.do(http.MethodGet, "/explore", nil, "Accept-Language", "es")
	assert.NotContains(t, spanish.Body.String(), ">Translate<")
}

func TestUserPage(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")
	bob := register(t, tc.server.Storage, "bob")
	seedPosts(t, tc.server.Storage, bob, 2)
	require.NoError(t, tc.server.Storage.Follow(context.Background(), susan.ID, bob.ID))

	w := tc.get("/user/bob")

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "User: bob")
	assert.Contains(t, body, "1 followers, 0 following.")
	assert.Contains(t, body, `href="/unfollow/bob"`)
	assert.Contains(t, body, "bob post 2")
}

func TestUserPage_Own(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	tc.login("susan")

	body := tc.get("/user/susan").Body.String()

	assert.Contains(t, body, `href="/edit_profile"`)
	assert.NotContains(t, body, `href="/follow/susan"`)
}

func TestUserPage_NotFound(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	tc.login("susan")

	assert.Equal(t, http.StatusNotFound, tc.get("/user/ghost").Code)
}

func TestSearch(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")
	for _, body := range []string{"go one", "go two", "go three", "go four", "rust"} {
		require.NoError(t, tc.server.Storage.AddPost(context.Background(), &models.Post{AuthorID: susan.ID, Body: body}))
	}

	w := tc.get("/search?q=go")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "go four")
	assert.NotContains(t, body, "rust")
	assert.Contains(t, body, "page=2")
	assert.Contains(t, body, "q=go")

	second := tc.get("/search?q=go&page=2").Body.String()
	assert.Contains(t, second, "go one")
	assert.NotContains(t, second, "Older posts")
	assert.Contains(t, second, "Newer posts")
}

func TestSearch_EmptyQuery(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	tc.login("susan")

	assertRedirect(t, tc.get("/search"), "/explore")
	assertRedirect(t, tc.get("/search?q="), "/explore")
}
