package config

import (
	"net/http"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	sessionCookieNameKey = "session_cookie_name"
	sessionMaxAgeKey     = "session_max_age"
	sessionSecureKey     = "session_secure"
	sessionSameSiteKey   = "session_same_site"
	sessionKeyPrefixKey  = "session_key_prefix"
)

type Session struct {
	v *viper.Viper
}

var _ SessionConfig = Session{}

func (s Session) GetSessionCookieName() string {
	return s.v.GetString(sessionCookieNameKey)
}

// GetSessionMaxAge is both the cookie Max-Age and the store TTL.
func (s Session) GetSessionMaxAge() time.Duration {
	secs := s.v.GetInt(sessionMaxAgeKey)
	if secs <= 0 {
		secs = 86400
	}
	return time.Duration(secs) * time.Second
}

// GetSessionSecure defaults to true only in production.
func (s Session) GetSessionSecure() bool {
	if s.v.IsSet(sessionSecureKey) {
		return s.v.GetBool(sessionSecureKey)
	}
	return strings.EqualFold(s.v.GetString(envKey), productionEnv)
}

func (s Session) GetSessionSameSite() http.SameSite {
	switch strings.ToLower(s.v.GetString(sessionSameSiteKey)) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}

func (s Session) GetSessionKeyPrefix() string {
	return s.v.GetString(sessionKeyPrefixKey)
}
