package githubauth

import (
	"context"

	"github.com/google/go-github/v74/github"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
)

// Revoke deletes the grant behind accessToken, authenticating as the OAuth app.
func (c *Client) Revoke(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return apperrors.ErrMissingToken
	}

	transport := &github.BasicAuthTransport{
		Username:  c.cfg.ClientID,
		Password:  c.cfg.ClientSecret,
		Transport: c.httpClient.Transport,
	}
	httpClient := transport.Client()
	httpClient.Timeout = c.httpClient.Timeout
	api := github.NewClient(httpClient)
	c.rebase(api)

	if _, err := api.Authorizations.Revoke(ctx, c.cfg.ClientID, accessToken); err != nil {
		return apperrors.Wrap(apperrors.KindTransport, err, "token revocation failed")
	}
	return nil
}
