package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"APP_ENV":       "development",
		"APP_URL":       "http://localhost:8090",
		"JWT_SECRET":    "secret",
		"S3_REGION":     "us-east-1",
		"S3_BUCKET":     "ifu",
		"S3_ACCESS_KEY": "key",
		"S3_SECRET_KEY": "secret",
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: baseEnv()})
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.JWTExpiry)
	assert.Equal(t, 10*time.Minute, cfg.OTPExpiry)
	assert.Equal(t, "@hourly", cfg.CleanupSchedule)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.GoogleEnabled())
}

func TestParseTimezone(t *testing.T) {
	vars := baseEnv()
	vars["APP_TIMEZONE"] = "America/Chicago"

	cfg, err := Parse(env.Options{Environment: vars})
	require.NoError(t, err)
	assert.Equal(t, "America/Chicago", cfg.Location.String())

	vars["APP_TIMEZONE"] = "Mars/Olympus"
	_, err = Parse(env.Options{Environment: vars})
	assert.ErrorContains(t, err, "APP_TIMEZONE")
}

func TestParseRequired(t *testing.T) {
	vars := baseEnv()
	delete(vars, "JWT_SECRET")

	_, err := Parse(env.Options{Environment: vars})
	assert.Error(t, err)
}

func TestProductionRequiresResend(t *testing.T) {
	vars := baseEnv()
	vars["APP_ENV"] = "production"

	_, err := Parse(env.Options{Environment: vars})
	assert.ErrorContains(t, err, "RESEND_API_KEY")

	vars["RESEND_API_KEY"] = "re_123"
	cfg, err := Parse(env.Options{Environment: vars})
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestSanitizedDropsSecrets(t *testing.T) {
	cfg, err := Parse(env.Options{Environment: baseEnv()})
	require.NoError(t, err)

	safe := cfg.Sanitized()
	assert.Empty(t, safe.JWTSecret)
	assert.Empty(t, safe.S3SecretKey)
	assert.Equal(t, cfg.AppURL, safe.AppURL)
}
