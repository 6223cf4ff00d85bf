package server

import (
	"net/http"

	"github.com/jrsteele09/gh-agent-gateway/sessions"
	"github.com/rs/zerolog"
)

// SessionMiddleware binds a session to the request. A missing or malformed
// cookie gets a fresh id and a Set-Cookie before the handler runs, so the
// cookie is issued even if the request fails. The session is saved after the
// handler returns, panics included, and only when it was modified.
func (s *Server) SessionMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(s.config.GetSessionCookieName()); err == nil && sessions.IsValidID(c.Value) {
			id = c.Value
		}
		if id == "" {
			newID, err := sessions.GenerateID()
			if err != nil {
				zerolog.Ctx(r.Context()).Error().Err(err).Msg("session id generation failed")
				writeJSONError(w, http.StatusInternalServerError, "Internal server error")
				return
			}
			id = newID
			s.setSessionCookie(w, id)
		}

		sess := s.sessions.Load(r.Context(), id)
		defer s.sessions.Save(r.Context(), sess)

		next(w, r.WithContext(sessions.NewContext(r.Context(), sess)))
	}
}

func (s *Server) setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     s.config.GetSessionCookieName(),
		Value:    id,
		Path:     "/",
		MaxAge:   int(s.config.GetSessionMaxAge().Seconds()),
		Secure:   s.config.GetSessionSecure(),
		HttpOnly: true,
		SameSite: s.config.GetSessionSameSite(),
	})
}

// sessionFrom returns the request's session. Routes outside the session
// middleware get a detached empty one.
func sessionFrom(r *http.Request) *sessions.Session {
	if sess, ok := sessions.FromContext(r.Context()); ok {
		return sess
	}
	return sessions.New("")
}
