package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BASE_URL", "https://artist.us/")
	t.Setenv("ALLOWED_EMAILS", " A@example.com, ,b@example.com")
	t.Setenv("APP_ENV", "production")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "https://artist.us", cfg.BaseURL)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AllowedEmails)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "media", cfg.MediaDir)
}

func TestSplitListEmpty(t *testing.T) {
	assert.Nil(t, splitList(""))
}
