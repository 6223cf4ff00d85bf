package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
)

const contentTypeJSON = "application/json; charset=utf-8"

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForKind maps an error kind to the HTTP status surfaced to callers.
func statusForKind(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindCSRF, apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindAuthentication:
		return http.StatusUnauthorized
	case apperrors.KindPermission:
		return http.StatusForbidden
	case apperrors.KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// safeRedirect reports whether target may be used as a post-login
// destination: a path on this host, or an absolute URL on an allowed origin.
func (s *Server) safeRedirect(target string) bool {
	if target == "" {
		return false
	}
	if strings.HasPrefix(target, "/") {
		return !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\")
	}
	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	return s.config.GetAllowedOrigins().IsAllowedOrigin(u.Scheme + "://" + u.Host)
}
