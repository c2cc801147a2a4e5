package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/MosinFAM/microblog/internal/auth"
	"github.com/MosinFAM/microblog/internal/forms"
	"github.com/MosinFAM/microblog/internal/storage"

	"github.com/gin-gonic/gin"
)

const sessionCookie = "session"

func (s *Server) register(c *gin.Context) {
	if currentUser(c) != nil {
		s.redirect(c, "/index")
		return
	}

	var form forms.RegistrationForm
	errs := forms.Errors{}

	if c.Request.Method == http.MethodPost {
		if err := c.ShouldBind(&form); err != nil {
			errs = forms.FromError(err)
		} else {
			_, err := auth.Register(c.Request.Context(), s.Storage, form.Username, form.Email, form.Password)
			switch {
			case errors.Is(err, storage.ErrUsernameTaken):
				errs["Username"] = usernameTakenMsg
			case errors.Is(err, storage.ErrEmailTaken):
				errs["Email"] = "Please use a different email address."
			case errors.Is(err, auth.ErrPasswordTooLong):
				errs["Password"] = "Password is too long."
			case err != nil:
				s.fail(c, err)
				return
			default:
				addFlash(c, "Congratulations, you are now a registered user!")
				s.redirect(c, "/auth/login")
				return
			}
		}
	}

	s.render(c, http.StatusOK, "register.html", gin.H{
		"Title":  "Register",
		"Form":   forms.RegistrationForm{Username: form.Username, Email: form.Email},
		"Errors": errs,
	})
}

func (s *Server) login(c *gin.Context) {
	if currentUser(c) != nil {
		s.redirect(c, "/index")
		return
	}

	next := c.Query("next")
	var form forms.LoginForm
	errs := forms.Errors{}

	if c.Request.Method == http.MethodPost {
		next = c.PostForm("next")
		if err := c.ShouldBind(&form); err != nil {
			errs = forms.FromError(err)
		} else {
			s.signIn(c, form, next)
			return
		}
	}

	s.render(c, http.StatusOK, "login.html", gin.H{
		"Title":  "Sign In",
		"Form":   forms.LoginForm{Username: form.Username},
		"Errors": errs,
		"Next":   next,
	})
}

func (s *Server) signIn(c *gin.Context, form forms.LoginForm, next string) {
	ctx := c.Request.Context()
	user, err := auth.Authenticate(ctx, s.Storage, form.Username, form.Password)
	if errors.Is(err, auth.ErrInvalidLogin) {
		addFlash(c, "Invalid username or password")
		s.redirect(c, "/auth/login")
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	sid, err := s.Sessions.Create(ctx, user.ID)
	if err != nil {
		s.fail(c, err)
		return
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		MaxAge:   int(s.Config.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   s.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	slog.Info("user signed in", "user_id", user.ID)

	if !isLocalPath(next) {
		next = "/index"
	}
	s.redirect(c, next)
}

func (s *Server) logout(c *gin.Context) {
	if sid, err := c.Cookie(sessionCookie); err == nil && sid != "" {
		if err := s.Sessions.Delete(c.Request.Context(), sid); err != nil {
			slog.Error("delete session", "err", err)
		}
	}
	s.clearSessionCookie(c)
	s.redirect(c, "/index")
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.Config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// isLocalPath accepts only redirects that stay on this site.
func isLocalPath(next string) bool {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return false
	}
	u, err := url.Parse(next)
	return err == nil && u.Host == "" && u.Scheme == ""
}
