package config

import (
	"log/slog"
	"strings"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/jubilee-go/internal/core/domain"
	"github.com/yndnr/jubilee-go/internal/server/clusterserver"
)

// NodeNamePrefix prefixes generated cluster member names.
const NodeNamePrefix = "jubilee-"

// ToDiscoveryConfig maps a resolved Config onto cluster discovery settings.
// Gossip binds to the listen host on cluster_port and advertises the HTTP
// listen address. It fails when clustering is disabled.
func ToDiscoveryConfig(cfg *Config, seeds []string, logger *slog.Logger) (clusterserver.DiscoveryConfig, error) {
	if cfg == nil {
		return clusterserver.DiscoveryConfig{}, domain.ErrValidation.WithDetails("config is nil")
	}
	if !cfg.ClusteringEnabled() {
		return clusterserver.DiscoveryConfig{}, domain.ErrValidation.WithDetails("clustering is disabled")
	}

	name := NodeNamePrefix + strings.ToLower(ulid.Make().String())
	if logger != nil {
		logger.Info("generated cluster node name", "node", name)
	}

	return clusterserver.DiscoveryConfig{
		NodeName:    name,
		BindAddr:    strings.Trim(cfg.Host, "[]"),
		BindPort:    cfg.ClusterPort,
		ServiceAddr: cfg.ListenAddr(),
		SeedNodes:   seeds,
		Logger:      logger,
	}, nil
}
