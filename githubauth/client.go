package githubauth

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"
	"golang.org/x/oauth2"
)

// Config describes the OAuth app registered with GitHub.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	// Scope is space separated, e.g. "repo user:email read:user".
	Scope    string
	AuthURL  string
	TokenURL string
	// APIURL is the REST base URL and must end with a slash.
	APIURL string

	HTTPClient *http.Client
}

// Client talks to GitHub on behalf of the gateway: the OAuth handshake, the
// identity lookup and per-user REST clients.
type Client struct {
	cfg        Config
	oauth      *oauth2.Config
	apiURL     *url.URL
	httpClient *http.Client
}

func New(cfg Config) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, fmt.Errorf("github client id is required")
	}

	apiURL, err := url.Parse(cfg.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid github api url: %w", err)
	}
	if !strings.HasSuffix(apiURL.Path, "/") {
		apiURL.Path += "/"
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	return &Client{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Scopes:       strings.Fields(cfg.Scope),
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.AuthURL,
				TokenURL:  cfg.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		apiURL:     apiURL,
		httpClient: httpClient,
	}, nil
}

func (c *Client) ClientID() string {
	return c.cfg.ClientID
}

// API returns a REST client authenticated with accessToken.
func (c *Client) API(accessToken string) *github.Client {
	client := github.NewClient(c.httpClient).WithAuthToken(accessToken)
	c.rebase(client)
	return client
}

func (c *Client) rebase(client *github.Client) {
	base := *c.apiURL
	client.BaseURL = &base
}
