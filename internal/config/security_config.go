package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	keySecretKey          = "secret_key"
	keySessionTTL         = "session_ttl"
	keyTrustedProxies     = "trusted_proxies"
	keySecureCookies      = "secure_cookies"
	keyLoginRatePerMinute = "login_rate_per_minute"
)

type SecurityConfig interface {
	GetSecretKey() string
	GetSessionTTL() time.Duration
	GetTrustedProxies() []string
	GetSecureCookies() bool
	GetLoginRatePerMinute() int
}

type Security struct {
	v *viper.Viper
}

var _ SecurityConfig = Security{}

func setSecurityDefaults(v *viper.Viper) {
	v.SetDefault(keySessionTTL, 24*time.Hour)
	v.SetDefault(keyTrustedProxies, []string{})
	v.SetDefault(keySecureCookies, false)
	v.SetDefault(keyLoginRatePerMinute, 20)
}

// GetSecretKey returns the HMAC secret used to sign remember-me tokens.
func (s Security) GetSecretKey() string {
	return s.v.GetString(keySecretKey)
}

func (s Security) GetSessionTTL() time.Duration {
	return s.v.GetDuration(keySessionTTL)
}

// GetTrustedProxies lists the proxy addresses or CIDR ranges whose X-Forwarded-For header is
// believed. Accepts a list (YAML) or a comma separated string (environment).
func (s Security) GetTrustedProxies() []string {
	var proxies []string
	for _, entry := range s.v.GetStringSlice(keyTrustedProxies) {
		for _, proxy := range strings.Split(entry, ",") {
			if proxy = strings.TrimSpace(proxy); proxy != "" {
				proxies = append(proxies, proxy)
			}
		}
	}
	return proxies
}

// GetSecureCookies forces the Secure attribute even when the request did not arrive over TLS
// (e.g. behind a TLS-terminating proxy that drops X-Forwarded-Proto).
func (s Security) GetSecureCookies() bool {
	return s.v.GetBool(keySecureCookies)
}

// GetLoginRatePerMinute is the number of login attempts allowed per client address per minute.
// Zero disables throttling.
func (s Security) GetLoginRatePerMinute() int {
	return s.v.GetInt(keyLoginRatePerMinute)
}
