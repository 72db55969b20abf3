package config

import (
	"github.com/yndnr/jubilee-go/internal/infra/netaddr"
)

// Config is the resolved, read-only server configuration. It is a value:
// consumers copy it freely and nothing writes back to the builder.
type Config struct {
	Host          string `koanf:"host" validate:"required"`
	Port          int    `koanf:"port" validate:"min=1,max=65535"`
	WorkerThreads int    `koanf:"worker_threads" validate:"min=1"`

	// ClusterPort is zero when clustering is disabled.
	ClusterPort int `koanf:"cluster_port" validate:"omitempty,min=1025,max=65535"`

	Debug     bool `koanf:"debug"`
	Daemonize bool `koanf:"daemonize"`

	SSL         bool   `koanf:"ssl"`
	SSLKeystore string `koanf:"ssl_keystore"`
	SSLPassword string `koanf:"ssl_password"`

	PID        string `koanf:"pid"`
	StderrPath string `koanf:"stderr_path"`
	StdoutPath string `koanf:"stdout_path"`

	EventBus EventBusConfig `koanf:"event_bus"`
	TCP      TCPConfig      `koanf:"tcp"`

	// Supplied by the bootstrap layer.
	Rackup      string `koanf:"rackup"`
	Chdir       string `koanf:"chdir"`
	Environment string `koanf:"environment" validate:"omitempty,oneof=development deployment production none test"`
	Quiet       bool   `koanf:"quiet"`
	ConfigFile  string `koanf:"config_file"`
}

// EventBusConfig configures the event bus bridge.
type EventBusConfig struct {
	Prefix string `koanf:"prefix"`

	// Inbound and Outbound are permitted-message filters, passed through
	// untouched.
	Inbound  any `koanf:"inbound"`
	Outbound any `koanf:"outbound"`
}

// TCPConfig holds socket options for accepted connections. The values are
// recorded for the transport; zero means "leave the system default".
type TCPConfig struct {
	SendBufferSize    int  `koanf:"send_buffer_size" validate:"omitempty,min=1"`
	ReceiveBufferSize int  `koanf:"receive_buffer_size" validate:"omitempty,min=1"`
	SoLinger          int  `koanf:"so_linger" validate:"min=0"`
	KeepAlive         bool `koanf:"keep_alive"`
	ReuseAddress      bool `koanf:"reuse_address"`
	NoDelay           bool `koanf:"no_delay"`
}

// ListenAddr returns the canonical "host:port" to listen on.
func (c Config) ListenAddr() string {
	return netaddr.Join(c.Host, c.Port)
}

// ClusteringEnabled reports whether a cluster discovery port is set.
func (c Config) ClusteringEnabled() bool {
	return c.ClusterPort != 0
}
