package config

import "github.com/yndnr/jubilee-go/internal/infra/netaddr"

// Environments.
const (
	EnvDevelopment = "development"
	EnvDeployment  = "deployment"
	EnvProduction  = "production"
	EnvNone        = "none"
	EnvTest        = "test"
)

// Default configuration values.
const (
	DefaultHost          = netaddr.AnyIPv4
	DefaultPort          = 3215
	DefaultWorkerThreads = 4
	DefaultEnvironment   = EnvDevelopment
	DefaultScriptName    = "jubilee.yml"
)

// Defaults returns the default options. The bootstrap layer merges its own
// values over them before seeding a Builder.
func Defaults() map[string]any {
	return map[string]any{
		"host":           DefaultHost,
		"port":           DefaultPort,
		"worker_threads": DefaultWorkerThreads,
		"environment":    DefaultEnvironment,
		"debug":          false,
		"daemonize":      false,
		"ssl":            false,
		"quiet":          false,
	}
}
