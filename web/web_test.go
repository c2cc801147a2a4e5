package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTemplates(t *testing.T) {
	tmpl, err := Templates()
	require.NoError(t, err)

	for _, name := range []string{
		"index.html", "user.html", "edit_profile.html", "search.html",
		"login.html", "register.html", "company_list.html", "company_form.html",
		"404.html", "500.html",
	} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
	for _, partial := range []string{"header", "footer", "post", "pager", "field_error"} {
		assert.NotNil(t, tmpl.Lookup(partial), partial)
	}
}
