package config

import "github.com/yndnr/jubilee-go/internal/telemetry/logger"

// Sanitize returns a copy of cfg that is safe to log.
func Sanitize(cfg *Config) *Config {
	sanitized := *cfg
	if sanitized.SSLPassword != "" {
		sanitized.SSLPassword = logger.Mask(sanitized.SSLPassword)
	}
	return &sanitized
}
