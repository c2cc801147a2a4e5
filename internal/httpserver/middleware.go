package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/MosinFAM/microblog/internal/forms"
	"github.com/MosinFAM/microblog/internal/models"
	"github.com/MosinFAM/microblog/internal/session"
	"github.com/MosinFAM/microblog/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"golang.org/x/text/language"
)

const (
	userKey   = "current_user"
	searchKey = "search_form"
	localeKey = "locale"

	requestIDHeader = "X-Request-ID"
)

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Header(requestIDHeader, rid)

		c.Next()

		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
			"request_id", rid,
		)
	}
}

// gatekeeper resolves the locale and, for a signed in user, records the
// visit and exposes the user and the search form to the handlers.
func (s *Server) gatekeeper(c *gin.Context) {
	c.Set(localeKey, s.negotiateLocale(c.GetHeader("Accept-Language")))

	sid, err := c.Cookie(sessionCookie)
	if err != nil || sid == "" {
		c.Next()
		return
	}

	ctx := c.Request.Context()
	userID, err := s.Sessions.Lookup(ctx, sid)
	if errors.Is(err, session.ErrNoSession) {
		s.clearSessionCookie(c)
		c.Next()
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	user, err := s.Storage.GetUserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		s.clearSessionCookie(c)
		c.Next()
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	now := s.now().UTC()
	if err := s.Storage.TouchLastSeen(ctx, user.ID, now); err != nil {
		s.fail(c, err)
		return
	}
	user.LastSeen = now

	c.Set(userKey, user)
	c.Set(searchKey, forms.SearchForm{Q: c.Query("q")})
	c.Next()
}

func (s *Server) requireLogin(c *gin.Context) {
	if currentUser(c) != nil {
		c.Next()
		return
	}
	addFlash(c, "Please log in to access this page.")
	s.redirect(c, "/auth/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
}

// corsMiddleware answers preflight requests itself and decorates the rest.
func corsMiddleware(cc *cors.Cors) gin.HandlerFunc {
	return func(c *gin.Context) {
		cc.HandlerFunc(c.Writer, c.Request)
		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) initLocales() {
	s.languages = s.Config.Languages
	if len(s.languages) == 0 {
		s.languages = []string{"en"}
	}
	tags := make([]language.Tag, 0, len(s.languages))
	for _, l := range s.languages {
		tags = append(tags, language.Make(l))
	}
	s.matcher = language.NewMatcher(tags)
}

// negotiateLocale picks the best configured language for an
// Accept-Language header and returns its base code.
func (s *Server) negotiateLocale(acceptLanguage string) string {
	_, index := language.MatchStrings(s.matcher, acceptLanguage)
	base, _ := language.Make(s.languages[index]).Base()
	return base.String()
}

func currentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(userKey); ok {
		user, _ := v.(*models.User)
		return user
	}
	return nil
}

func currentLocale(c *gin.Context) string {
	return c.GetString(localeKey)
}

func currentSearch(c *gin.Context) forms.SearchForm {
	v, _ := c.Get(searchKey)
	form, _ := v.(forms.SearchForm)
	return form
}
