package config_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/gh-agent-gateway/internal/config"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := config.NewWithOverrides(map[string]any{
		"ENV":                  "DEV",
		"PORT":                 "8080",
		"SESSION_MAX_AGE":      86400,
		"SESSION_COOKIE_NAME":  "gh_agent_session",
		"SESSION_SAME_SITE":    "Lax",
		"CORS_ALLOWED_ORIGINS": "http://localhost:3000,http://localhost:3001/",
	})

	require.Equal(t, ":8080", cfg.GetPort())
	require.Equal(t, "gh_agent_session", cfg.GetSessionCookieName())
	require.Equal(t, 24*time.Hour, cfg.GetSessionMaxAge())
	require.Equal(t, http.SameSiteLaxMode, cfg.GetSessionSameSite())
	require.False(t, cfg.IsProduction())
	require.True(t, cfg.GetAllowedOrigins().IsAllowedOrigin("http://localhost:3001"))
	require.False(t, cfg.GetAllowedOrigins().IsAllowedOrigin("http://evil.example"))
}

func TestSecureCookieFollowsEnvironment(t *testing.T) {
	prod := config.NewWithOverrides(map[string]any{"ENV": "production"})
	require.True(t, prod.IsProduction())
	require.True(t, prod.GetSessionSecure())

	override := config.NewWithOverrides(map[string]any{"ENV": "production", "SESSION_SECURE": false})
	require.False(t, override.GetSessionSecure())
}

func TestAPIURLHasTrailingSlash(t *testing.T) {
	cfg := config.NewWithOverrides(map[string]any{"GITHUB_API_URL": "http://127.0.0.1:9999/api"})
	require.Equal(t, "http://127.0.0.1:9999/api/", cfg.GetGitHubAPIURL())
}

func TestSameSiteParsing(t *testing.T) {
	require.Equal(t, http.SameSiteStrictMode, config.NewWithOverrides(map[string]any{"SESSION_SAME_SITE": "Strict"}).GetSessionSameSite())
	require.Equal(t, http.SameSiteNoneMode, config.NewWithOverrides(map[string]any{"SESSION_SAME_SITE": "none"}).GetSessionSameSite())
}
