package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	keyPort     = "port"
	keyAppName  = "app_name"
	keyEnv      = "env"
	keyBaseURL  = "base_url"
	keyLogLevel = "log_level"

	devEnv = "DEV"
)

type EnvVars struct {
	v *viper.Viper
}

var _ EnvConfig = EnvVars{}

func setEnvDefaults(v *viper.Viper) {
	v.SetDefault(keyPort, "8080")
	v.SetDefault(keyAppName, "Go Blog")
	v.SetDefault(keyEnv, devEnv)
	v.SetDefault(keyBaseURL, "http://localhost:8080")
	v.SetDefault(keyLogLevel, "info")
}

func (e EnvVars) GetPort() string {
	port := e.v.GetString(keyPort)
	if port != "" && port[0] != ':' {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.v.GetString(keyAppName)
}

// GetEnv returns the upper-cased environment name, DEV when unset.
func (e EnvVars) GetEnv() string {
	env := strings.ToUpper(e.v.GetString(keyEnv))
	if env == "" {
		return devEnv
	}
	return env
}

// GetBaseURL returns the public base URL of the blog (e.g., "https://blog.example.com")
func (e EnvVars) GetBaseURL() string {
	return e.v.GetString(keyBaseURL)
}

func (e EnvVars) GetLogLevel() string {
	return e.v.GetString(keyLogLevel)
}
