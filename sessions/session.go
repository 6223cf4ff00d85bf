package sessions

import (
	"crypto/subtle"
	"encoding/json"
	"time"
)

// Wire keys of the persisted session mapping.
const (
	keyIsAuthenticated    = "isAuthenticated"
	keyUserID             = "userId"
	keyUsername           = "username"
	keyEmail              = "email"
	keyAccessToken        = "github_access_token"
	keyTokenType          = "github_token_type"
	keyScope              = "github_scope"
	keyUserData           = "github_user_data"
	keyLoginTime          = "loginTime"
	keyOAuthState         = "oauth_state"
	keyRedirectAfterLogin = "redirect_after_login"
)

// Credential is the provider-issued access token. It never leaves the server.
type Credential struct {
	AccessToken string
	TokenType   string
	Scope       string
}

// Profile is the snapshot of the provider user taken at login.
type Profile struct {
	ID              int64     `json:"id"`
	Login           string    `json:"login"`
	Name            string    `json:"name,omitempty"`
	Email           string    `json:"email,omitempty"`
	AvatarURL       string    `json:"avatar_url,omitempty"`
	Bio             string    `json:"bio,omitempty"`
	Company         string    `json:"company,omitempty"`
	Location        string    `json:"location,omitempty"`
	Blog            string    `json:"blog,omitempty"`
	TwitterUsername string    `json:"twitter_username,omitempty"`
	PublicRepos     int       `json:"public_repos"`
	PublicGists     int       `json:"public_gists"`
	Followers       int       `json:"followers"`
	Following       int       `json:"following"`
	CreatedAt       time.Time `json:"created_at,omitzero"`
	UpdatedAt       time.Time `json:"updated_at,omitzero"`
}

// Identity holds the fields of an authenticated session.
type Identity struct {
	UserID     int64
	Username   string
	Email      string
	Credential Credential
	Profile    Profile
	LoginTime  time.Time
}

// Pending holds the fields of a login in progress.
type Pending struct {
	State              string
	RedirectAfterLogin string
}

// Session is the in-memory projection of one store entry. A nil identity
// means the session is anonymous.
type Session struct {
	id        string
	pending   Pending
	identity  *Identity
	extra     map[string]json.RawMessage
	dirty     bool
	destroyed bool
}

// New returns an empty session bound to id.
func New(id string) *Session {
	return &Session{id: id}
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) IsAuthenticated() bool {
	return s.identity != nil
}

// Identity returns a copy of the identity, or nil when anonymous.
func (s *Session) Identity() *Identity {
	if s.identity == nil {
		return nil
	}
	id := *s.identity
	return &id
}

// AccessToken returns the bound credential's token or "".
func (s *Session) AccessToken() string {
	if s.identity == nil {
		return ""
	}
	return s.identity.Credential.AccessToken
}

func (s *Session) State() string {
	return s.pending.State
}

func (s *Session) RedirectAfterLogin() string {
	return s.pending.RedirectAfterLogin
}

func (s *Session) IsDirty() bool {
	return s.dirty
}

func (s *Session) IsDestroyed() bool {
	return s.destroyed
}

// BeginLogin records the CSRF state of a new login attempt.
func (s *Session) BeginLogin(state string) {
	s.pending.State = state
	s.dirty = true
}

func (s *Session) SetRedirectAfterLogin(redirect string) {
	s.pending.RedirectAfterLogin = redirect
	s.dirty = true
}

// ConsumeState reports whether received equals the stored state. The stored
// state is deleted whatever the result, so a state authorizes one callback.
func (s *Session) ConsumeState(received string) bool {
	stored := s.pending.State
	s.pending.State = ""
	s.dirty = true
	if stored == "" || received == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(received)) == 1
}

// Authenticate binds identity to the session.
func (s *Session) Authenticate(identity Identity) {
	if identity.Credential.TokenType == "" {
		identity.Credential.TokenType = "Bearer"
	}
	s.identity = &identity
	s.dirty = true
}

// TakeRedirect returns and clears the post-login destination.
func (s *Session) TakeRedirect() string {
	r := s.pending.RedirectAfterLogin
	s.pending.RedirectAfterLogin = ""
	s.dirty = true
	return r
}

// Destroy clears every field. A destroyed session is never persisted again.
func (s *Session) Destroy() {
	s.pending = Pending{}
	s.identity = nil
	s.extra = nil
	s.dirty = true
	s.destroyed = true
}

// MarshalJSON writes the flat key/value mapping kept in the store.
func (s *Session) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(s.extra)+11)
	for k, v := range s.extra {
		m[k] = v
	}

	if s.pending.State != "" {
		m[keyOAuthState] = s.pending.State
	}
	if s.pending.RedirectAfterLogin != "" {
		m[keyRedirectAfterLogin] = s.pending.RedirectAfterLogin
	}

	if id := s.identity; id != nil {
		m[keyIsAuthenticated] = true
		m[keyUserID] = id.UserID
		m[keyUsername] = id.Username
		m[keyEmail] = id.Email
		m[keyAccessToken] = id.Credential.AccessToken
		m[keyTokenType] = id.Credential.TokenType
		m[keyScope] = id.Credential.Scope
		m[keyUserData] = id.Profile
		m[keyLoginTime] = id.LoginTime.UTC().Format(time.RFC3339Nano)
	}

	return json.Marshal(m)
}

// UnmarshalJSON reads the flat mapping. Keys it does not know are kept and
// written back unchanged.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var authenticated bool
	var identity Identity
	var loginTime string

	fields := []struct {
		key string
		dst any
	}{
		{keyIsAuthenticated, &authenticated},
		{keyUserID, &identity.UserID},
		{keyUsername, &identity.Username},
		{keyEmail, &identity.Email},
		{keyAccessToken, &identity.Credential.AccessToken},
		{keyTokenType, &identity.Credential.TokenType},
		{keyScope, &identity.Credential.Scope},
		{keyUserData, &identity.Profile},
		{keyLoginTime, &loginTime},
		{keyOAuthState, &s.pending.State},
		{keyRedirectAfterLogin, &s.pending.RedirectAfterLogin},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		delete(raw, f.key)
		if string(v) == "null" {
			continue
		}
		if err := json.Unmarshal(v, f.dst); err != nil {
			return err
		}
	}

	if authenticated {
		if t, err := time.Parse(time.RFC3339Nano, loginTime); err == nil {
			identity.LoginTime = t
		}
		s.identity = &identity
	}
	if len(raw) > 0 {
		s.extra = raw
	}
	return nil
}
