package config

import (
	"strings"

	"github.com/spf13/viper"
)

const keyAllowedOrigins = "allowed_origins"

type Cors struct {
	v *viper.Viper
}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

func setCorsDefaults(v *viper.Viper) {
	v.SetDefault(keyAllowedOrigins, []string{})
}

// GetAllowedOrigins reads a list (YAML) or a comma separated string (environment).
func (c Cors) GetAllowedOrigins() AllowedOrigins {
	origins := AllowedOrigins{}
	for _, entry := range c.v.GetStringSlice(keyAllowedOrigins) {
		for _, origin := range strings.Split(entry, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins[origin] = nullValue{}
			}
		}
	}
	return origins
}

func (Cors) GetAllowedMethods() string {
	return "GET, OPTIONS"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type"
}
