package config

import (
	"strings"

	"github.com/spf13/viper"
)

const (
	githubClientIDKey      = "github_client_id"
	githubClientSecretKey  = "github_client_secret"
	githubRedirectURIKey   = "github_redirect_uri"
	githubScopeKey         = "github_scope"
	githubAuthorizerURLKey = "github_authorizer_url"
	githubTokenURLKey      = "github_token_url"
	githubAPIURLKey        = "github_api_url"
)

type GitHub struct {
	v *viper.Viper
}

var _ GitHubConfig = GitHub{}

func (g GitHub) GetGitHubClientID() string {
	return g.v.GetString(githubClientIDKey)
}

func (g GitHub) GetGitHubClientSecret() string {
	return g.v.GetString(githubClientSecretKey)
}

func (g GitHub) GetGitHubRedirectURI() string {
	return g.v.GetString(githubRedirectURIKey)
}

func (g GitHub) GetGitHubScope() string {
	return g.v.GetString(githubScopeKey)
}

func (g GitHub) GetGitHubAuthorizerURL() string {
	return g.v.GetString(githubAuthorizerURLKey)
}

func (g GitHub) GetGitHubTokenURL() string {
	return g.v.GetString(githubTokenURLKey)
}

// GetGitHubAPIURL always ends with a slash, as the REST client requires.
func (g GitHub) GetGitHubAPIURL() string {
	u := g.v.GetString(githubAPIURLKey)
	if !strings.HasSuffix(u, "/") {
		u += "/"
	}
	return u
}
