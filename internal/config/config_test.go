package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "APP_PORT", "DB_DSN_PRIMARY", "SESSION_SECRET", "SESSION_TTL", "UPLOAD_DIR",
		"ADMIN_USERNAME", "ADMIN_EMAIL", "ADMIN_PASSWORD", "SEED_SAMPLE_PRODUCTS",
		"GEMINI_API_KEY", "GEMINI_MODEL",
	} {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)

	cfg := FromEnv()
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, devDSN, cfg.DSN)
	assert.Equal(t, devSecret, cfg.SessionSecret)
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "./uploads", cfg.UploadDir)
	assert.True(t, cfg.SeedSampleProducts)
	assert.False(t, cfg.AdminConfigured())
	assert.Equal(t, "gemini-1.5-flash", cfg.GeminiModel)
	require.NoError(t, cfg.Validate())
}

func TestFromEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_PORT", "9090")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("SEED_SAMPLE_PRODUCTS", "false")
	t.Setenv("ADMIN_USERNAME", " admin ")
	t.Setenv("ADMIN_PASSWORD", "s3cret-pass")

	cfg := FromEnv()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.False(t, cfg.SeedSampleProducts)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.True(t, cfg.AdminConfigured())
}

func TestInvalidValuesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_TTL", "forever")
	t.Setenv("SEED_SAMPLE_PRODUCTS", "maybe")

	cfg := FromEnv()
	assert.Equal(t, 72*time.Hour, cfg.SessionTTL)
	assert.True(t, cfg.SeedSampleProducts)
}

func TestValidateProd(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "prod")

	cfg := FromEnv()
	assert.True(t, cfg.IsProd())
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN_PRIMARY")
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestValidateAdminWithoutUsername(t *testing.T) {
	clearEnv(t)
	t.Setenv("ADMIN_PASSWORD", "pw")

	err := FromEnv().Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_USERNAME")
}
