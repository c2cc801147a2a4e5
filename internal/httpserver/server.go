// Package httpserver wires the HTTP routes of the microblog onto gin.
package httpserver

import (
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/MosinFAM/microblog/config"
	"github.com/MosinFAM/microblog/internal/events"
	"github.com/MosinFAM/microblog/internal/forms"
	"github.com/MosinFAM/microblog/internal/langdetect"
	"github.com/MosinFAM/microblog/internal/models"
	"github.com/MosinFAM/microblog/internal/session"
	"github.com/MosinFAM/microblog/internal/storage"
	"github.com/MosinFAM/microblog/internal/translate"
	"github.com/MosinFAM/microblog/web"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"golang.org/x/text/language"
)

type Server struct {
	Config     config.Config
	Storage    storage.Storage
	Sessions   session.Store
	Translator translate.Translator
	Detector   langdetect.Detector
	Events     events.Publisher

	now       func() time.Time
	languages []string
	matcher   language.Matcher
}

// Router builds the gin engine with every route of the application.
func (s *Server) Router() (*gin.Engine, error) {
	tmpl, err := web.Templates()
	if err != nil {
		return nil, err
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.Events == nil {
		s.Events = events.NopPublisher{}
	}
	s.initLocales()

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(gin.Recovery(), requestLogger(), s.gatekeeper)
	r.NoRoute(s.notFound)

	get := []string{http.MethodGet}
	getPost := []string{http.MethodGet, http.MethodPost}

	handle(r, getPost, "/", s.requireLogin, s.index)
	handle(r, getPost, "/index", s.requireLogin, s.index)
	handle(r, get, "/explore", s.requireLogin, s.explore)
	handle(r, get, "/user/:username", s.requireLogin, s.user)
	handle(r, getPost, "/edit_profile", s.requireLogin, s.editProfile)
	handle(r, get, "/follow/:username", s.requireLogin, s.follow)
	handle(r, get, "/unfollow/:username", s.requireLogin, s.unfollow)
	handle(r, get, "/search", s.requireLogin, s.search)

	translateHandlers := []gin.HandlerFunc{s.requireLogin, s.translate}
	if len(s.Config.CORSOrigins) > 0 {
		mw := corsMiddleware(cors.New(cors.Options{
			AllowedOrigins:   s.Config.CORSOrigins,
			AllowedMethods:   []string{http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}))
		r.OPTIONS("/translate", mw)
		translateHandlers = append([]gin.HandlerFunc{mw}, translateHandlers...)
	}
	r.POST("/translate", translateHandlers...)

	handle(r, get, "/company", s.companyList)
	handle(r, getPost, "/company/add", s.companyAdd)
	handle(r, getPost, "/companys/edit/:id", s.companyEdit)
	handle(r, getPost, "/company/delete/:id", s.requireLogin, s.companyDelete)

	authGroup := r.Group("/auth")
	handle(authGroup, getPost, "/register", s.register)
	handle(authGroup, getPost, "/login", s.login)
	handle(authGroup, get, "/logout", s.logout)

	return r, nil
}

func handle(r gin.IRoutes, methods []string, path string, handlers ...gin.HandlerFunc) {
	for _, m := range methods {
		r.Handle(m, path, handlers...)
	}
}

func (s *Server) perPage() int {
	if s.Config.PostsPerPage <= 0 {
		return 25
	}
	return s.Config.PostsPerPage
}

// render fills in the data every page needs and writes the template.
func (s *Server) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["Errors"]; !ok {
		data["Errors"] = forms.Errors{}
	}
	data["CurrentUser"] = currentUser(c)
	data["Locale"] = currentLocale(c)
	data["Search"] = currentSearch(c)
	data["Flashes"] = popFlashes(c)
	c.HTML(status, name, data)
}

func (s *Server) notFound(c *gin.Context) {
	s.render(c, http.StatusNotFound, "404.html", gin.H{"Title": "Not Found"})
	c.Abort()
}

func (s *Server) fail(c *gin.Context, err error) {
	slog.Error("request failed", "err", err, "method", c.Request.Method, "path", c.Request.URL.Path)
	s.render(c, http.StatusInternalServerError, "500.html", gin.H{"Title": "Error"})
	c.Abort()
}

func (s *Server) redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

// pageParam reads ?page=, falling back to the first page.
func pageParam(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return models.NormalizePage(n)
}

// pager holds the previous/next links of a paginated page, empty when absent.
type pager struct {
	NextURL, PrevURL     string
	NextLabel, PrevLabel string
}

func newPager[T any](path string, p models.Page[T], query url.Values) pager {
	link := func(page int) string {
		q := url.Values{}
		for k, v := range query {
			q[k] = v
		}
		q.Set("page", strconv.Itoa(page))
		return path + "?" + q.Encode()
	}
	pg := pager{NextLabel: "Next", PrevLabel: "Previous"}
	if p.HasNext() {
		pg.NextURL = link(p.NextNum())
	}
	if p.HasPrev() {
		pg.PrevURL = link(p.PrevNum())
	}
	return pg
}

// timeline relabels the links for newest-first post lists.
func (pg pager) timeline() pager {
	pg.NextLabel = "Older posts"
	pg.PrevLabel = "Newer posts"
	return pg
}

type postView struct {
	models.Post
	Locale       string
	Translatable bool
}

func postViews(posts []models.Post, locale string) []postView {
	views := make([]postView, 0, len(posts))
	for _, p := range posts {
		views = append(views, postView{
			Post:         p,
			Locale:       locale,
			Translatable: p.Language != "" && p.Language != locale,
		})
	}
	return views
}
