package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

const envPrefix = "BLOG"

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	StoreConfig
	TelemetryConfig
	BlogConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Stores
	Telemetry
	Blog
}

// Option overrides a single configuration key, mostly used by tests and the CLI flags.
type Option func(v *viper.Viper)

// WithValue sets key to value, taking precedence over files and environment variables.
func WithValue(key string, value any) Option {
	return func(v *viper.Viper) {
		v.Set(key, value)
	}
}

// New builds a configuration from defaults and BLOG_* environment variables.
// It never fails; a missing secret is replaced with a random one.
func New(options ...Option) Config {
	v := newViper()
	for _, opt := range options {
		opt(v)
	}
	if v.GetString(keySecretKey) == "" {
		v.Set(keySecretKey, randomSecret())
	}
	return build(v)
}

// Load reads the optional YAML file, applies BLOG_* environment overrides and validates
// the result. Outside DEV a secret key is mandatory.
func Load(file string, options ...Option) (Config, error) {
	v := newViper()
	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("[config Load] read config %s: %w", file, err)
		}
	}
	for _, opt := range options {
		opt(v)
	}

	if v.GetString(keySecretKey) == "" {
		if !strings.EqualFold(v.GetString(keyEnv), devEnv) {
			return nil, fmt.Errorf("[config Load] %s_SECRET_KEY is required in %s", envPrefix, v.GetString(keyEnv))
		}
		log.Warn().Msg("No secret key configured, generated a random one; sessions and remember-me cookies will not survive a restart")
		v.Set(keySecretKey, randomSecret())
	}
	return build(v), nil
}

func build(v *viper.Viper) Config {
	return mainConfig{
		EnvVars:   EnvVars{v: v},
		Cors:      Cors{v: v},
		Security:  Security{v: v},
		Stores:    Stores{v: v},
		Telemetry: Telemetry{v: v},
		Blog:      Blog{v: v},
	}
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	setEnvDefaults(v)
	setSecurityDefaults(v)
	setStoreDefaults(v)
	setTelemetryDefaults(v)
	setBlogDefaults(v)
	setCorsDefaults(v)
	return v
}

func randomSecret() string {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate secret: " + err.Error())
	}
	return hex.EncodeToString(b)
}
