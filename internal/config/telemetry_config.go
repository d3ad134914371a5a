package config

import "github.com/spf13/viper"

const (
	keyOtelEnabled       = "otel_enabled"
	keyOtelCollectorAddr = "otel_collector_addr"
	keyOtelServiceName   = "otel_service_name"
)

type TelemetryConfig interface {
	GetTelemetryEnabled() bool
	GetCollectorAddr() string
	GetServiceName() string
}

type Telemetry struct {
	v *viper.Viper
}

var _ TelemetryConfig = Telemetry{}

func setTelemetryDefaults(v *viper.Viper) {
	v.SetDefault(keyOtelEnabled, false)
	v.SetDefault(keyOtelCollectorAddr, "localhost:4317")
	v.SetDefault(keyOtelServiceName, "go-blog-server")
}

func (t Telemetry) GetTelemetryEnabled() bool {
	return t.v.GetBool(keyOtelEnabled)
}

func (t Telemetry) GetCollectorAddr() string {
	return t.v.GetString(keyOtelCollectorAddr)
}

func (t Telemetry) GetServiceName() string {
	return t.v.GetString(keyOtelServiceName)
}
