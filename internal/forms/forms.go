// Package forms holds the request forms bound by gin and turns validator
// failures into per-field messages for the templates.
package forms

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("notblank", notBlank)
	}
}

// notBlank rejects strings made only of whitespace.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

type PostForm struct {
	Post string `form:"post" binding:"required,max=140"`
}

type SearchForm struct {
	Q string `form:"q" binding:"required"`
}

type EditProfileForm struct {
	Username string `form:"username" binding:"required,notblank,max=64"`
	AboutMe  string `form:"about_me" binding:"max=140"`
}

type TranslateForm struct {
	Text           string `form:"text" binding:"required"`
	SourceLanguage string `form:"source_language" binding:"required"`
	DestLanguage   string `form:"dest_language" binding:"required"`
}

type CompanyForm struct {
	NamesOne   string `form:"names_one" binding:"required,max=128"`
	NamesTwo   string `form:"names_two" binding:"required,max=128"`
	NamesThree string `form:"names_three" binding:"required,max=128"`
	Branches   string `form:"branches" binding:"required,max=128"`
}

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type RegistrationForm struct {
	Username  string `form:"username" binding:"required,notblank,max=64"`
	Email     string `form:"email" binding:"required,email,max=120"`
	Password  string `form:"password" binding:"required,max=72"`
	Password2 string `form:"password2" binding:"required,eqfield=Password"`
}

// Errors maps a form field name (the Go field name) to its message.
type Errors map[string]string

// FormKey holds errors that do not belong to a single field.
const FormKey = "_form"

// FromError converts a binding error into field messages.
func FromError(err error) Errors {
	if err == nil {
		return nil
	}
	out := Errors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out[FormKey] = "Invalid form submission."
		return out
	}
	for _, fe := range verrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "max":
		return fmt.Sprintf("Field cannot be longer than %s characters.", fe.Param())
	case "min":
		return fmt.Sprintf("Field must be at least %s characters long.", fe.Param())
	case "email":
		return "Invalid email address."
	case "eqfield":
		return fmt.Sprintf("Field must be equal to %s.", fe.Param())
	}
	return "Invalid value."
}
