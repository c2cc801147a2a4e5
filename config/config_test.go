package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("POSTS_PER_PAGE", "")
	t.Setenv("LANGUAGES", "")
	t.Setenv("STORAGE_TYPE", "")

	cfg := Load()

	assert.Equal(t, 25, cfg.PostsPerPage)
	assert.Equal(t, []string{"en", "es"}, cfg.Languages)
	assert.Equal(t, "in-memory", cfg.StorageType)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("POSTS_PER_PAGE", "3")
	t.Setenv("LANGUAGES", " en , fr,, de ")
	t.Setenv("CORS_ORIGINS", "https://example.com")
	t.Setenv("COOKIE_SECURE", "true")

	cfg := Load()

	assert.Equal(t, 3, cfg.PostsPerPage)
	assert.Equal(t, []string{"en", "fr", "de"}, cfg.Languages)
	assert.Equal(t, []string{"https://example.com"}, cfg.CORSOrigins)
	assert.True(t, cfg.CookieSecure)
}

func TestLoad_InvalidPageSizeFallsBack(t *testing.T) {
	t.Setenv("POSTS_PER_PAGE", "zero")
	assert.Equal(t, 25, Load().PostsPerPage)

	t.Setenv("POSTS_PER_PAGE", "-4")
	assert.Equal(t, 25, Load().PostsPerPage)
}
