package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	portKey              = "port"
	appNameKey           = "app_name"
	envKey               = "env"
	logLevelKey          = "log_level"
	redisURLKey          = "redis_url"
	postLoginRedirectKey = "post_login_redirect"

	productionEnv = "production"
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.v.GetString(portKey)
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(appNameKey)
}

func (e EnvVars) GetEnv() string {
	env := e.v.GetString(envKey)
	if env == "" {
		return "DEV"
	}
	return env
}

func (e EnvVars) IsProduction() bool {
	return strings.EqualFold(e.GetEnv(), productionEnv)
}

func (e EnvVars) GetLogLevel() string {
	return e.v.GetString(logLevelKey)
}

// GetRedisURL returns the session store address. Empty selects the in-memory store.
func (e EnvVars) GetRedisURL() string {
	return e.v.GetString(redisURLKey)
}

func (e EnvVars) GetPostLoginRedirect() string {
	return e.v.GetString(postLoginRedirectKey)
}
