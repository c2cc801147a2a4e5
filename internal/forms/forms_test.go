package forms

import (
	"errors"
	"strings"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
)

func TestFromError_Validation(t *testing.T) {
	err := binding.Validator.ValidateStruct(&RegistrationForm{
		Username:  strings.Repeat("a", 65),
		Email:     "not-an-email",
		Password:  "secret",
		Password2: "other",
	})

	errs := FromError(err)

	assert.Equal(t, "Field cannot be longer than 64 characters.", errs["Username"])
	assert.Equal(t, "Invalid email address.", errs["Email"])
	assert.Equal(t, "Field must be equal to Password.", errs["Password2"])
	assert.NotContains(t, errs, "Password")
}

func TestFromError_Required(t *testing.T) {
	errs := FromError(binding.Validator.ValidateStruct(&SearchForm{}))
	assert.Equal(t, Errors{"Q": "This field is required."}, errs)
}

func TestFromError_NotValidation(t *testing.T) {
	errs := FromError(errors.New("malformed body"))
	assert.Equal(t, "Invalid form submission.", errs[FormKey])
}

func TestFromError_Nil(t *testing.T) {
	assert.Nil(t, FromError(nil))
	assert.Nil(t, FromError(binding.Validator.ValidateStruct(&PostForm{Post: "hi"})))
}

func TestFromError_BlankUsername(t *testing.T) {
	errs := FromError(binding.Validator.ValidateStruct(&EditProfileForm{Username: "   "}))
	assert.Equal(t, Errors{"Username": "This field is required."}, errs)

	errs = FromError(binding.Validator.ValidateStruct(&RegistrationForm{
		Username:  "\t ",
		Email:     "susan@example.com",
		Password:  "cat",
		Password2: "cat",
	}))
	assert.Equal(t, Errors{"Username": "This field is required."}, errs)
}
