package githubauth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/go-github/v74/github"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/jrsteele09/gh-agent-gateway/internal/utils"
	"github.com/jrsteele09/gh-agent-gateway/sessions"
	"github.com/rs/zerolog/log"
)

// FetchIdentity loads the profile behind tok. The primary verified email wins
// over the public profile email; a failed email lookup is not fatal.
func (c *Client) FetchIdentity(ctx context.Context, tok *Token) (sessions.Identity, error) {
	api := c.API(tok.AccessToken)

	user, _, err := api.Users.Get(ctx, "")
	if err != nil {
		return sessions.Identity{}, apperrors.Wrap(apperrors.KindTransport, err, "user info fetch failed")
	}

	email := user.GetEmail()
	if primary, err := c.primaryEmail(ctx, api); err != nil {
		log.Warn().Err(err).Str("username", user.GetLogin()).Msg("email lookup failed, using profile email")
	} else if primary != "" {
		email = primary
	}

	return sessions.Identity{
		UserID:   user.GetID(),
		Username: user.GetLogin(),
		Email:    email,
		Credential: sessions.Credential{
			AccessToken: tok.AccessToken,
			TokenType:   tok.TokenType,
			Scope:       tok.Scope,
		},
		Profile:   profileOf(user, email),
		LoginTime: time.Now().UTC(),
	}, nil
}

func (c *Client) primaryEmail(ctx context.Context, api *github.Client) (string, error) {
	emails, _, err := api.Users.ListEmails(ctx, &github.ListOptions{PerPage: 100})
	if err != nil {
		return "", err
	}
	for _, e := range emails {
		if e.GetPrimary() {
			return e.GetEmail(), nil
		}
	}
	return "", nil
}

func profileOf(u *github.User, email string) sessions.Profile {
	return sessions.Profile{
		ID:              u.GetID(),
		Login:           u.GetLogin(),
		Name:            u.GetName(),
		Email:           email,
		AvatarURL:       u.GetAvatarURL(),
		Bio:             u.GetBio(),
		Company:         u.GetCompany(),
		Location:        u.GetLocation(),
		Blog:            u.GetBlog(),
		TwitterUsername: u.GetTwitterUsername(),
		PublicRepos:     u.GetPublicRepos(),
		PublicGists:     u.GetPublicGists(),
		Followers:       u.GetFollowers(),
		Following:       u.GetFollowing(),
		CreatedAt:       utils.Value(u.CreatedAt).Time,
		UpdatedAt:       utils.Value(u.UpdatedAt).Time,
	}
}

// CheckToken makes a lightweight authenticated call. It returns nil when the
// token is accepted and ErrTokenInvalid when GitHub answers 401.
func (c *Client) CheckToken(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return apperrors.ErrMissingToken
	}

	_, resp, err := c.API(accessToken).Users.Get(ctx, "")
	if err == nil {
		return nil
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil && ghErr.Response.StatusCode == http.StatusUnauthorized {
		return apperrors.Wrap(apperrors.KindAuthentication, apperrors.ErrTokenInvalid, "token rejected")
	}
	if resp != nil && resp.StatusCode == http.StatusUnauthorized {
		return apperrors.Wrap(apperrors.KindAuthentication, apperrors.ErrTokenInvalid, "token rejected")
	}
	return apperrors.Wrap(apperrors.KindTransport, err, "token validation failed")
}
