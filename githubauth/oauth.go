package githubauth

import (
	"context"
	"errors"

	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"golang.org/x/oauth2"
)

// Token is the result of a successful code exchange.
type Token struct {
	AccessToken string
	TokenType   string
	Scope       string
}

// AuthorizationURL is where the browser is sent to approve the login.
func (c *Client) AuthorizationURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades an authorization code for an access token. An error
// reported by the provider in a successful response wraps
// ErrProviderRejected; everything else is a transport failure.
func (c *Client) Exchange(ctx context.Context, code string) (*Token, error) {
	if code == "" {
		return nil, apperrors.ErrMissingCode
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) && rErr.ErrorCode != "" && rErr.Response != nil &&
			rErr.Response.StatusCode >= 200 && rErr.Response.StatusCode < 300 {
			detail := rErr.ErrorDescription
			if detail == "" {
				detail = rErr.ErrorCode
			}
			return nil, apperrors.Wrap(apperrors.KindAuthentication, apperrors.ErrProviderRejected, "%s", detail)
		}
		return nil, apperrors.Wrap(apperrors.KindTransport, err, "token exchange failed")
	}

	t := &Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
	}
	if t.TokenType == "" {
		t.TokenType = "Bearer"
	}
	if scope, ok := tok.Extra("scope").(string); ok {
		t.Scope = scope
	}
	return t, nil
}
