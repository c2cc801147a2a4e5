package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/MosinFAM/microblog/internal/forms"
	"github.com/MosinFAM/microblog/internal/storage"

	"github.com/gin-gonic/gin"
)

const usernameTakenMsg = "Please use a different username."

func (s *Server) editProfile(c *gin.Context) {
	ctx := c.Request.Context()
	user := currentUser(c)
	form := forms.EditProfileForm{Username: user.Username, AboutMe: user.AboutMe}
	errs := forms.Errors{}

	if c.Request.Method == http.MethodPost {
		form = forms.EditProfileForm{}
		err := c.ShouldBind(&form)
		form.Username = strings.TrimSpace(form.Username)
		if err != nil {
			errs = forms.FromError(err)
		} else if form.Username != user.Username {
			_, err := s.Storage.GetUserByUsername(ctx, form.Username)
			switch {
			case err == nil:
				errs["Username"] = usernameTakenMsg
			case !errors.Is(err, storage.ErrNotFound):
				s.fail(c, err)
				return
			}
		}

		if len(errs) == 0 {
			err := s.Storage.UpdateProfile(ctx, user.ID, form.Username, form.AboutMe)
			switch {
			case errors.Is(err, storage.ErrUsernameTaken):
				errs["Username"] = usernameTakenMsg
			case err != nil:
				s.fail(c, err)
				return
			default:
				addFlash(c, "Your changes have been saved.")
				s.redirect(c, "/edit_profile")
				return
			}
		}
	}

	s.render(c, http.StatusOK, "edit_profile.html", gin.H{
		"Title":  "Edit Profile",
		"Form":   form,
		"Errors": errs,
	})
}

func (s *Server) follow(c *gin.Context)   { s.changeFollow(c, true) }
func (s *Server) unfollow(c *gin.Context) { s.changeFollow(c, false) }

func (s *Server) changeFollow(c *gin.Context, follow bool) {
	ctx := c.Request.Context()
	user := currentUser(c)
	username := c.Param("username")

	target, err := s.Storage.GetUserByUsername(ctx, username)
	if errors.Is(err, storage.ErrNotFound) {
		addFlash(c, fmt.Sprintf("User %s not found.", username))
		s.redirect(c, "/index")
		return
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	profileURL := "/user/" + target.Username
	if target.ID == user.ID {
		if follow {
			addFlash(c, "You cannot follow yourself!")
		} else {
			addFlash(c, "You cannot unfollow yourself!")
		}
		s.redirect(c, profileURL)
		return
	}

	if follow {
		err = s.Storage.Follow(ctx, user.ID, target.ID)
	} else {
		err = s.Storage.Unfollow(ctx, user.ID, target.ID)
	}
	if err != nil {
		s.fail(c, err)
		return
	}

	if follow {
		addFlash(c, fmt.Sprintf("You are following %s!", target.Username))
	} else {
		addFlash(c, fmt.Sprintf("You are not following %s.", target.Username))
	}
	s.redirect(c, profileURL)
}
