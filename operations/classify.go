package operations

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v74/github"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
)

const (
	hintRateLimited    = "Retry after 60 seconds"
	hintAuthentication = "Re-authenticate with GitHub"
	hintPermission     = "Check repository permissions or OAuth scopes"
)

// Classify maps a failure to its Kind, a message safe to show the caller and
// a hint. Full error detail is left to the caller's logs.
func Classify(err error) (apperrors.Kind, string, string) {
	if err == nil {
		return "", "", ""
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return apperrors.KindRateLimited, "API rate limit exceeded", retryHint(time.Until(rateErr.Rate.Reset.Time))
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return apperrors.KindRateLimited, "secondary rate limit exceeded", retryHint(abuseErr.GetRetryAfter())
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status := ghErr.Response.StatusCode
		msg := fmt.Sprintf("%d %s", status, ghErr.Message)
		if ghErr.Message == "" {
			msg = fmt.Sprintf("%d %s", status, http.StatusText(status))
		}
		switch status {
		case http.StatusUnauthorized:
			return apperrors.KindAuthentication, msg, hintAuthentication
		case http.StatusForbidden:
			if strings.Contains(strings.ToLower(ghErr.Message), "rate limit") {
				return apperrors.KindRateLimited, msg, hintRateLimited
			}
			return apperrors.KindPermission, msg, hintPermission
		case http.StatusTooManyRequests:
			return apperrors.KindRateLimited, msg, hintRateLimited
		}
		return apperrors.KindTransport, msg, ""
	}

	var appErr *apperrors.Error
	if errors.As(err, &appErr) && appErr.Kind != "" {
		return appErr.Kind, appErr.Message, hintFor(appErr.Kind)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.KindTransport, "request to GitHub timed out", ""
	}
	if errors.Is(err, context.Canceled) {
		return apperrors.KindTransport, "request was cancelled", ""
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return apperrors.KindTransport, "unable to reach GitHub", ""
	}

	msg := err.Error()
	switch {
	case strings.Contains(strings.ToLower(msg), "rate limit"):
		return apperrors.KindRateLimited, "API rate limit exceeded", hintRateLimited
	case strings.Contains(msg, "401"):
		return apperrors.KindAuthentication, "authentication failed", hintAuthentication
	case strings.Contains(msg, "403"):
		return apperrors.KindPermission, "permission denied", hintPermission
	}
	return apperrors.KindTransport, "an error occurred while communicating with GitHub", ""
}

func hintFor(kind apperrors.Kind) string {
	switch kind {
	case apperrors.KindRateLimited:
		return hintRateLimited
	case apperrors.KindAuthentication:
		return hintAuthentication
	case apperrors.KindPermission:
		return hintPermission
	}
	return ""
}

func retryHint(wait time.Duration) string {
	if wait <= 0 {
		return hintRateLimited
	}
	return fmt.Sprintf("Retry after %d seconds", int(wait.Round(time.Second).Seconds()))
}
