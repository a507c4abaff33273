package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// clearEnv blanks every variable Load reads so a test sees only the
// built-in fallbacks regardless of the host environment.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL", "PORT", "APP_ENV", "ALLOWED_ORIGINS",
		"STORAGE_ENDPOINT", "STORAGE_ACCESS_KEY", "STORAGE_SECRET_KEY",
		"STORAGE_REGION", "STORAGE_BUCKET", "STORAGE_USE_SSL",
		"UPLOAD_GRANT_TTL_SECONDS", "UPLOAD_MAX_SIZE_BYTES",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "uploads", cfg.StorageBucket)
	assert.Equal(t, 600*time.Second, cfg.GrantTTL)
	assert.Equal(t, int64(50)<<30, cfg.MaxUploadBytes)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8081")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://app.example.com, https://admin.example.com")
	t.Setenv("UPLOAD_GRANT_TTL_SECONDS", "120")
	t.Setenv("UPLOAD_MAX_SIZE_BYTES", "1048576")

	cfg := Load()

	assert.Equal(t, "8081", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, []string{"https://app.example.com", "https://admin.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, 120*time.Second, cfg.GrantTTL)
	assert.Equal(t, int64(1048576), cfg.MaxUploadBytes)
}

func TestLoadRejectsInvalidNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("UPLOAD_GRANT_TTL_SECONDS", "soon")
	t.Setenv("UPLOAD_MAX_SIZE_BYTES", "-1")

	cfg := Load()

	assert.Equal(t, 600*time.Second, cfg.GrantTTL)
	assert.Equal(t, int64(50)<<30, cfg.MaxUploadBytes)
}
