package server

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HealthHandler reports liveness. A session store outage is reported but does
// not fail the check, since requests degrade to anonymous sessions.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		store := "ok"
		if err := s.sessions.Ping(r.Context()); err != nil {
			zerolog.Ctx(r.Context()).Warn().Err(err).Msg("session store unreachable")
			store = "unavailable"
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"status":    "ok",
			"store":     store,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
