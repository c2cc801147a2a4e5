package httpserver

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/MosinFAM/microblog/internal/forms"
	"github.com/MosinFAM/microblog/internal/langdetect"
	"github.com/MosinFAM/microblog/internal/models"
	"github.com/MosinFAM/microblog/internal/storage"

	"github.com/gin-gonic/gin"
)

// index shows the home timeline and accepts new posts.
func (s *Server) index(c *gin.Context) {
	user := currentUser(c)
	var form forms.PostForm
	errs := forms.Errors{}

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(&form); err != nil {
			errs = forms.FromError(err)
		} else {
			s.submitPost(c, user, form)
			return
		}
	}

	page, err := s.Storage.FollowedPosts(c.Request.Context(), user.ID, pageParam(c), s.perPage())
	if err != nil {
		s.fail(c, err)
		return
	}
	pg := newPager("/index", page, nil)
	s.render(c, http.StatusOK, "index.html", gin.H{
		"Title":        "Home",
		"ShowPostForm": true,
		"Form":         form,
		"Errors":       errs,
		"Posts":        postViews(page.Items, currentLocale(c)),
		"Pager":        pg.timeline(),
	})
}

func (s *Server) submitPost(c *gin.Context, user *models.User, form forms.PostForm) {
	ctx := c.Request.Context()
	post := &models.Post{
		AuthorID: user.ID,
		Body:     form.Post,
		Language: langdetect.Tag(s.Detector.Detect(form.Post)),
	}
	if err := s.Storage.AddPost(ctx, post); err != nil {
		s.fail(c, err)
		return
	}
	if err := s.Events.PublishPostCreated(ctx, post); err != nil {
		slog.Error("publish post.created", "err", err, "post_id", post.ID)
	}

	addFlash(c, "Your post is now live!")
	s.redirect(c, "/index")
}

func (s *Server) explore(c *gin.Context) {
	page, err := s.Storage.ExplorePosts(c.Request.Context(), pageParam(c), s.perPage())
	if err != nil {
		s.fail(c, err)
		return
	}
	pg := newPager("/explore", page, nil)
	s.render(c, http.StatusOK, "index.html", gin.H{
		"Title": "Explore",
		"Posts": postViews(page.Items, currentLocale(c)),
		"Pager": pg.timeline(),
	})
}

func (s *Server) user(c *gin.Context) {
	ctx := c.Request.Context()
	username := c.Param("username")

	profile, err := s.Storage.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		s.notFound(c)
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	page, err := s.Storage.UserPosts(ctx, profile.ID, pageParam(c), s.perPage())
	if err != nil {
		s.fail(c, err)
		return
	}
	followers, following, err := s.Storage.FollowCounts(ctx, profile.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	isFollowing, err := s.Storage.IsFollowing(ctx, currentUser(c).ID, profile.ID)
	if err != nil {
		s.fail(c, err)
		return
	}

	pg := newPager("/user/"+profile.Username, page, nil)
	s.render(c, http.StatusOK, "user.html", gin.H{
		"Title":       profile.Username,
		"Profile":     profile,
		"Followers":   followers,
		"Following":   following,
		"IsFollowing": isFollowing,
		"Posts":       postViews(page.Items, currentLocale(c)),
		"Pager":       pg.timeline(),
	})
}
