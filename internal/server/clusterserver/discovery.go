package clusterserver

import (
	"fmt"
	"log/slog"
	"net"
	"strconv"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/hashicorp/memberlist"
)

// maxMetaSize is the memberlist limit on node metadata.
const maxMetaSize = memberlist.MetaMaxSize

// Discovery announces this instance to other instances over the gossip
// protocol and tracks their membership.
type Discovery struct {
	memberList *memberlist.Memberlist
	logger     *slog.Logger

	mu       sync.RWMutex
	shutdown bool
	onJoin   func(name, serviceAddr string)
	onLeave  func(name string)
}

// DiscoveryConfig configures the discovery mechanism.
type DiscoveryConfig struct {
	// NodeName is the unique member name.
	NodeName string

	// BindAddr and BindPort are where gossip traffic is received.
	BindAddr string
	BindPort int

	// ServiceAddr is the HTTP address advertised to other members.
	ServiceAddr string

	// SeedNodes are members to join at startup.
	SeedNodes []string

	Logger *slog.Logger
}

// Validate checks the fields NewDiscovery needs.
func (c DiscoveryConfig) Validate() error {
	if c.NodeName == "" {
		return fmt.Errorf("node name is required")
	}
	if c.BindPort < 0 || c.BindPort > 65535 {
		return fmt.Errorf("bind port out of range: %d", c.BindPort)
	}
	if len(c.ServiceAddr) > maxMetaSize {
		return fmt.Errorf("service address longer than %d bytes", maxMetaSize)
	}
	return nil
}

// NewDiscovery starts gossiping and joins the seed nodes, if any.
func NewDiscovery(cfg DiscoveryConfig) (*Discovery, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	d := &Discovery{logger: cfg.Logger}

	mlConfig := memberlist.DefaultLANConfig()
	mlConfig.Name = cfg.NodeName
	mlConfig.BindAddr = cfg.BindAddr
	mlConfig.BindPort = cfg.BindPort
	mlConfig.AdvertisePort = cfg.BindPort
	mlConfig.Delegate = &metadataDelegate{meta: []byte(cfg.ServiceAddr)}
	mlConfig.Events = &eventDelegate{discovery: d}
	mlConfig.Logger = NewHCLogger(cfg.Logger, "memberlist").
		StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	ml, err := memberlist.Create(mlConfig)
	if err != nil {
		return nil, fmt.Errorf("create memberlist: %w", err)
	}
	d.memberList = ml

	if len(cfg.SeedNodes) > 0 {
		n, err := ml.Join(cfg.SeedNodes)
		if err != nil {
			_ = ml.Shutdown()
			return nil, fmt.Errorf("join seed nodes: %w", err)
		}
		cfg.Logger.Info("joined cluster",
			"node", cfg.NodeName,
			"seed_nodes", cfg.SeedNodes,
			"joined_count", n)
	} else {
		cfg.Logger.Info("started discovery",
			"node", cfg.NodeName,
			"bind", d.GossipAddr())
	}

	return d, nil
}

// Members returns the current members, including this one.
func (d *Discovery) Members() []*memberlist.Node {
	return d.memberList.Members()
}

// ServiceAddrs maps member names to their advertised HTTP addresses.
func (d *Discovery) ServiceAddrs() map[string]string {
	addrs := make(map[string]string)
	for _, n := range d.memberList.Members() {
		addrs[n.Name] = string(n.Meta)
	}
	return addrs
}

// LocalNode returns this member.
func (d *Discovery) LocalNode() *memberlist.Node {
	return d.memberList.LocalNode()
}

// GossipAddr returns the host:port this member gossips on. With a zero
// BindPort it carries the port the system picked.
func (d *Discovery) GossipAddr() string {
	n := d.memberList.LocalNode()
	return net.JoinHostPort(n.Addr.String(), strconv.Itoa(int(n.Port)))
}

// OnJoin registers a callback for member joins.
func (d *Discovery) OnJoin(fn func(name, serviceAddr string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onJoin = fn
}

// OnLeave registers a callback for member departures.
func (d *Discovery) OnLeave(fn func(name string)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.onLeave = fn
}

// Leave broadcasts departure, then stops gossiping. It is safe to call
// more than once.
func (d *Discovery) Leave() error {
	d.mu.Lock()
	if d.shutdown {
		d.mu.Unlock()
		return nil
	}
	d.shutdown = true
	d.mu.Unlock()

	if err := d.memberList.Leave(0); err != nil {
		d.logger.Warn("failed to leave cluster", "error", err)
	}
	if err := d.memberList.Shutdown(); err != nil {
		return fmt.Errorf("shutdown memberlist: %w", err)
	}
	d.logger.Info("discovery stopped")
	return nil
}

type eventDelegate struct {
	discovery *Discovery
}

func (e *eventDelegate) NotifyJoin(node *memberlist.Node) {
	serviceAddr := string(node.Meta)
	e.discovery.logger.Info("member joined",
		"node", node.Name,
		"gossip_addr", node.Address(),
		"service_addr", serviceAddr)

	e.discovery.mu.RLock()
	fn := e.discovery.onJoin
	e.discovery.mu.RUnlock()
	if fn != nil {
		fn(node.Name, serviceAddr)
	}
}

func (e *eventDelegate) NotifyLeave(node *memberlist.Node) {
	e.discovery.logger.Info("member left", "node", node.Name)

	e.discovery.mu.RLock()
	fn := e.discovery.onLeave
	e.discovery.mu.RUnlock()
	if fn != nil {
		fn(node.Name)
	}
}

func (e *eventDelegate) NotifyUpdate(node *memberlist.Node) {
	e.discovery.logger.Debug("member updated", "node", node.Name)
}

// metadataDelegate advertises the service address as node metadata.
type metadataDelegate struct {
	meta []byte
}

func (m *metadataDelegate) NodeMeta(limit int) []byte {
	if len(m.meta) > limit {
		return m.meta[:limit]
	}
	return m.meta
}

func (m *metadataDelegate) NotifyMsg([]byte)                           {}
func (m *metadataDelegate) GetBroadcasts(overhead, limit int) [][]byte { return nil }
func (m *metadataDelegate) LocalState(join bool) []byte                { return nil }
func (m *metadataDelegate) MergeRemoteState(buf []byte, join bool)     {}
