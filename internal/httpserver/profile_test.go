package httpserver

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/MosinFAM/microblog/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditProfile(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")

	w := tc.get("/edit_profile")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="susan"`)

	w = tc.post("/edit_profile", url.Values{"username": {"susan2"}, "about_me": {"I like cats"}})
	assertRedirect(t, w, "/edit_profile")

	page := tc.get("/edit_profile").Body.String()
	assert.Contains(t, page, "Your changes have been saved.")
	assert.Contains(t, page, `value="susan2"`)
	assert.Contains(t, page, "I like cats")

	got, err := tc.server.Storage.GetUserByID(context.Background(), susan.ID)
	require.NoError(t, err)
	assert.Equal(t, "susan2", got.Username)
	assert.Equal(t, "I like cats", got.AboutMe)
}

func TestEditProfile_UsernameTaken(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")
	register(t, tc.server.Storage, "bob")

	w := tc.post("/edit_profile", url.Values{"username": {"bob"}, "about_me": {""}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Please use a different username.")
	got, err := tc.server.Storage.GetUserByID(context.Background(), susan.ID)
	require.NoError(t, err)
	assert.Equal(t, "susan", got.Username)
}

func TestEditProfile_KeepUsername(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	tc.login("susan")

	w := tc.post("/edit_profile", url.Values{"username": {"susan"}, "about_me": {"hi"}})
	assertRedirect(t, w, "/edit_profile")
}

func TestEditProfile_Invalid(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	tc.login("susan")

	w := tc.post("/edit_profile", url.Values{"username": {""}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")
}

func TestEditProfile_TrimsUsername(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")

	w := tc.post("/edit_profile", url.Values{"username": {"   "}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "This field is required.")

	assertRedirect(t, tc.post("/edit_profile", url.Values{"username": {"  susan2 "}}), "/edit_profile")
	got, err := tc.server.Storage.GetUserByID(context.Background(), susan.ID)
	require.NoError(t, err)
	assert.Equal(t, "susan2", got.Username)
}

func TestFollowThenUnfollow(t *testing.T) {
	ctx := context.Background()
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")
	bob := register(t, tc.server.Storage, "bob")

	assertRedirect(t, tc.get("/follow/bob"), "/user/bob")
	assert.Contains(t, tc.get("/user/bob").Body.String(), "You are following bob!")

	assertRedirect(t, tc.get("/follow/bob"), "/user/bob")
	followers, _, err := tc.server.Storage.FollowCounts(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, followers)

	assertRedirect(t, tc.get("/unfollow/bob"), "/user/bob")
	assert.Contains(t, tc.get("/user/bob").Body.String(), "You are not following bob.")

	following, err := tc.server.Storage.IsFollowing(ctx, susan.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, following)

	assertRedirect(t, tc.get("/unfollow/bob"), "/user/bob")
}

func TestFollow_Self(t *testing.T) {
	ctx := context.Background()
	tc := newTestServer(t, storage.NewMemoryStorage())
	susan := tc.login("susan")

	assertRedirect(t, tc.get("/follow/susan"), "/user/susan")
	assert.Contains(t, tc.get("/user/susan").Body.String(), "You cannot follow yourself!")

	assertRedirect(t, tc.get("/unfollow/susan"), "/user/susan")
	assert.Contains(t, tc.get("/user/susan").Body.String(), "You cannot unfollow yourself!")

	followers, following, err := tc.server.Storage.FollowCounts(ctx, susan.ID)
	require.NoError(t, err)
	assert.Zero(t, followers)
	assert.Zero(t, following)
}

func TestFollow_UnknownUser(t *testing.T) {
	tc := newTestServer(t, storage.NewMemoryStorage())
	tc.login("susan")

	assertRedirect(t, tc.get("/follow/ghost"), "/index")
	assert.Contains(t, tc.get("/index").Body.String(), "User ghost not found.")

	assertRedirect(t, tc.get("/unfollow/ghost"), "/index")
}
