package httpserver

import (
	"net/http"
	"net/url"

	"github.com/MosinFAM/microblog/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func (s *Server) search(c *gin.Context) {
	form := currentSearch(c)
	if err := binding.Validator.ValidateStruct(&form); err != nil {
		s.redirect(c, "/explore")
		return
	}

	pageNum := pageParam(c)
	posts, total, err := s.Storage.SearchPosts(c.Request.Context(), form.Q, pageNum, s.perPage())
	if err != nil {
		s.fail(c, err)
		return
	}

	page := models.Page[models.Post]{Items: posts, Page: pageNum, PerPage: s.perPage(), Total: total}
	pg := newPager("/search", page, url.Values{"q": {form.Q}})
	s.render(c, http.StatusOK, "search.html", gin.H{
		"Title": "Search",
		"Posts": postViews(posts, currentLocale(c)),
		"Pager": pg.timeline(),
	})
}
