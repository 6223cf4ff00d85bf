package config

import (
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/oauth2/github"
)

type Config interface {
	EnvConfig
	CorsConfig
	SessionConfig
	GitHubConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsProduction() bool
	GetLogLevel() string
	GetRedisURL() string
	GetPostLoginRedirect() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() []string
	GetAllowedHeaders() []string
}

type SessionConfig interface {
	GetSessionCookieName() string
	GetSessionMaxAge() time.Duration
	GetSessionSecure() bool
	GetSessionSameSite() http.SameSite
	GetSessionKeyPrefix() string
}

type GitHubConfig interface {
	GetGitHubClientID() string
	GetGitHubClientSecret() string
	GetGitHubRedirectURI() string
	GetGitHubScope() string
	GetGitHubAuthorizerURL() string
	GetGitHubTokenURL() string
	GetGitHubAPIURL() string
}

type mainConfig struct {
	EnvVars
	Cors
	Session
	GitHub
}

// New reads configuration from the environment.
func New() Config {
	return NewWithOverrides(nil)
}

// NewWithOverrides reads configuration from the environment, with overrides
// taking precedence. Keys are the environment variable names.
func NewWithOverrides(overrides map[string]any) Config {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	for k, val := range overrides {
		v.Set(strings.ToLower(k), val)
	}

	return mainConfig{
		EnvVars: EnvVars{v: v},
		Cors:    Cors{v: v},
		Session: Session{v: v},
		GitHub:  GitHub{v: v},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(portKey, "8080")
	v.SetDefault(appNameKey, "GitHub Agent Gateway")
	v.SetDefault(envKey, "DEV")
	v.SetDefault(logLevelKey, "info")
	v.SetDefault(redisURLKey, "")
	v.SetDefault(postLoginRedirectKey, "/dashboard")

	v.SetDefault(corsAllowedOriginsKey, "http://localhost:3000,http://localhost:3001")

	v.SetDefault(sessionCookieNameKey, "gh_agent_session")
	v.SetDefault(sessionMaxAgeKey, 86400)
	v.SetDefault(sessionSameSiteKey, "Lax")
	v.SetDefault(sessionKeyPrefixKey, "session:")

	v.SetDefault(githubScopeKey, "repo user:email read:user")
	v.SetDefault(githubAuthorizerURLKey, github.Endpoint.AuthURL)
	v.SetDefault(githubTokenURLKey, github.Endpoint.TokenURL)
	v.SetDefault(githubAPIURLKey, "https://api.github.com/")
	v.SetDefault(githubRedirectURIKey, "http://localhost:8080/auth/github/callback")
}
