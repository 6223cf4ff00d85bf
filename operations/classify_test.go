package operations_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/go-github/v74/github"
	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/jrsteele09/gh-agent-gateway/operations"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	resp := func(status int) *http.Response {
		return &http.Response{StatusCode: status, Request: &http.Request{Method: http.MethodGet}}
	}
	retry := 30 * time.Second

	tests := []struct {
		name string
		err  error
		kind apperrors.Kind
		hint string
	}{
		{"rate limit", &github.RateLimitError{Response: resp(403), Message: "API rate limit exceeded"}, apperrors.KindRateLimited, "Retry after 60 seconds"},
		{"abuse", &github.AbuseRateLimitError{Response: resp(403), RetryAfter: &retry}, apperrors.KindRateLimited, "Retry after 30 seconds"},
		{"401", &github.ErrorResponse{Response: resp(401), Message: "Bad credentials"}, apperrors.KindAuthentication, "Re-authenticate with GitHub"},
		{"403", &github.ErrorResponse{Response: resp(403), Message: "Forbidden"}, apperrors.KindPermission, "Check repository permissions or OAuth scopes"},
		{"422", &github.ErrorResponse{Response: resp(422), Message: "sha wasn't supplied"}, apperrors.KindTransport, ""},
		{"validation", apperrors.Validation("sha", apperrors.ErrMissingField, "sha is required"), apperrors.KindValidation, ""},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), apperrors.KindTransport, ""},
		{"string 403", errors.New("HTTP 403 returned"), apperrors.KindPermission, "Check repository permissions or OAuth scopes"},
		{"string rate", errors.New("secondary rate limit hit"), apperrors.KindRateLimited, "Retry after 60 seconds"},
		{"unknown", errors.New("boom"), apperrors.KindTransport, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, msg, hint := operations.Classify(tt.err)
			require.Equal(t, tt.kind, kind)
			require.NotEmpty(t, msg)
			require.Equal(t, tt.hint, hint)
		})
	}
}

func TestClassifyKeepsProviderMessage(t *testing.T) {
	_, msg, _ := operations.Classify(&github.ErrorResponse{
		Response: &http.Response{StatusCode: 404, Request: &http.Request{Method: http.MethodGet}},
		Message:  "Not Found",
	})
	require.Equal(t, "404 Not Found", msg)
}
