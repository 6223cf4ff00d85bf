package server

import (
	"net/http"
	"time"

	apperrors "github.com/jrsteele09/gh-agent-gateway/internal/errors"
	"github.com/jrsteele09/gh-agent-gateway/sessions"
	"github.com/rs/zerolog"
)

// GitHubLoginHandler starts the authorization-code flow. The session is saved
// before the redirect so the state is in the store when the callback arrives.
func (s *Server) GitHubLoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		sess := sessionFrom(r)

		state, err := sessions.GenerateState()
		if err != nil {
			logger.Error().Err(err).Msg("state generation failed")
			writeJSONError(w, http.StatusInternalServerError, "Failed to start GitHub login")
			return
		}
		sess.BeginLogin(state)

		if redirect := r.URL.Query().Get("redirect"); redirect != "" {
			if s.safeRedirect(redirect) {
				sess.SetRedirectAfterLogin(redirect)
			} else {
				logger.Warn().Str("redirect", redirect).Msg("ignoring post-login redirect outside allowed origins")
			}
		}

		s.sessions.Save(r.Context(), sess)
		http.Redirect(w, r, s.github.AuthorizationURL(state), http.StatusFound)
	}
}

func (s *Server) GitHubCallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		sess := sessionFrom(r)
		query := r.URL.Query()

		// The attempt is over but the stored state is left in place.
		if providerErr := query.Get("error"); providerErr != "" {
			logger.Warn().Str("error", providerErr).Msg("GitHub reported an authorization error")
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":       "OAuth authorization failed",
				"details":     providerErr,
				"description": query.Get("error_description"),
			})
			return
		}

		expected := sess.State()
		received := query.Get("state")
		if !sess.ConsumeState(received) {
			logger.Warn().
				Err(apperrors.ErrStateMismatch).
				Str("expected_state", expected).
				Str("received_state", received).
				Msg("OAuth state mismatch")
			writeJSONError(w, http.StatusBadRequest, "Invalid state parameter - possible CSRF attack")
			return
		}

		code := query.Get("code")
		if code == "" {
			writeJSONError(w, http.StatusBadRequest, "Authorization code not provided")
			return
		}

		token, err := s.github.Exchange(r.Context(), code)
		if err != nil {
			if apperrors.Is(err, apperrors.ErrProviderRejected) {
				logger.Warn().Err(err).Msg("GitHub rejected the code exchange")
				writeJSON(w, http.StatusBadRequest, map[string]any{
					"error":   "Token exchange failed",
					"details": messageOf(err),
				})
				return
			}
			s.authenticationFailed(w, logger, err)
			return
		}

		identity, err := s.github.FetchIdentity(r.Context(), token)
		if err != nil {
			s.authenticationFailed(w, logger, err)
			return
		}

		sess.Authenticate(identity)
		redirect := sess.TakeRedirect()
		if redirect == "" {
			redirect = s.config.GetPostLoginRedirect()
		}
		s.sessions.Save(r.Context(), sess)

		logger.Info().Str("username", identity.Username).Msg("GitHub login complete")
		http.Redirect(w, r, redirect, http.StatusFound)
	}
}

func (s *Server) authenticationFailed(w http.ResponseWriter, logger *zerolog.Logger, err error) {
	logger.Error().Err(err).Msg("GitHub authentication failed")
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error":   "Authentication failed",
		"message": "Unable to complete GitHub authentication",
	})
}

// GitHubLogoutHandler always succeeds. Revocation is best effort.
func (s *Server) GitHubLogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := sessionFrom(r)

		if token := sess.AccessToken(); token != "" {
			if err := s.github.Revoke(r.Context(), token); err != nil {
				zerolog.Ctx(r.Context()).Warn().Err(err).Msg("token revocation failed")
			}
		}
		s.sessions.Destroy(r.Context(), sess)

		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"message": "Logged out successfully",
		})
	}
}

func (s *Server) AuthStatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := sessionFrom(r).Identity()
		if identity == nil {
			writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"authenticated": true,
			"user":          identity.Profile,
			"loginTime":     identity.LoginTime.Format(time.RFC3339),
		})
	}
}

// GitHubRefreshHandler probes the stored credential. A credential GitHub no
// longer accepts ends the session.
func (s *Server) GitHubRefreshHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := zerolog.Ctx(r.Context())
		sess := sessionFrom(r)

		token := sess.AccessToken()
		if token == "" {
			writeJSONError(w, http.StatusUnauthorized, "No access token found")
			return
		}

		err := s.github.CheckToken(r.Context(), token)
		switch {
		case err == nil:
			writeJSON(w, http.StatusOK, map[string]any{
				"valid":   true,
				"message": "Token is still valid",
			})
		case apperrors.Is(err, apperrors.ErrTokenInvalid):
			logger.Info().Msg("stored token rejected, destroying session")
			s.sessions.Destroy(r.Context(), sess)
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"valid":   false,
				"message": "Token is invalid, please re-authenticate",
			})
		default:
			logger.Error().Err(err).Msg("token validation failed")
			writeJSONError(w, http.StatusInternalServerError, "Failed to validate token")
		}
	}
}

func (s *Server) GitHubProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity := sessionFrom(r).Identity()
		if identity == nil {
			writeJSONError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"user": identity.Profile,
			"session": map[string]any{
				"loginTime":       identity.LoginTime.Format(time.RFC3339),
				"scope":           identity.Credential.Scope,
				"isAuthenticated": true,
			},
		})
	}
}

// messageOf returns the outermost tagged message, without the cause chain.
func messageOf(err error) string {
	var tagged *apperrors.Error
	if apperrors.As(err, &tagged) {
		return tagged.Message
	}
	return err.Error()
}
