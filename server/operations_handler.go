package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/gh-agent-gateway/operations"
	"github.com/rs/zerolog"
)

// ExecuteOperationHandler runs one catalogue operation directly. Once a
// credential is bound the answer is always 200 and the envelope carries the
// outcome.
func (s *Server) ExecuteOperationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := sessionFrom(r).AccessToken()
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]any{
				"error":   "GitHub authentication required",
				"message": "Please authenticate with GitHub first",
			})
			return
		}

		var req operations.Request
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("operation request rejected")
			writeJSON(w, http.StatusOK, s.dispatcher.Reject(req.Operation, err))
			return
		}

		writeJSON(w, http.StatusOK, s.dispatcher.Execute(r.Context(), token, req))
	}
}

func (s *Server) ListOperationsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"operations": s.dispatcher.Catalogue(),
		})
	}
}
