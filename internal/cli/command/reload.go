package command

import (
	"log/slog"

	evbus "github.com/asaskevich/EventBus"

	"github.com/yndnr/jubilee-go/internal/server/config"
	"github.com/yndnr/jubilee-go/internal/telemetry/logger"
	"github.com/yndnr/jubilee-go/internal/telemetry/metric"
)

// Reload topics.
const (
	// TopicReloaded carries the new config.Config.
	TopicReloaded = "config:reloaded"
	// TopicReloadFailed carries the evaluation error.
	TopicReloadFailed = "config:reload_failed"
)

// reloader evaluates a changed script into a fresh Builder from the
// original seed and publishes the outcome. The running server's Builder is
// frozen and never touched.
type reloader struct {
	seed    map[string]any
	opts    []config.Option
	bus     evbus.Bus
	log     *slog.Logger
	metrics *metric.Registry

	// baseLevel is restored when debug is switched off.
	baseLevel string
}

func newReloader(seed map[string]any, opts []config.Option, log *slog.Logger, metrics *metric.Registry, baseLevel string) *reloader {
	r := &reloader{
		seed:      seed,
		opts:      opts,
		bus:       evbus.New(),
		log:       log,
		metrics:   metrics,
		baseLevel: baseLevel,
	}
	_ = r.bus.Subscribe(TopicReloaded, r.logReloaded)
	_ = r.bus.Subscribe(TopicReloaded, r.applyLogLevel)
	_ = r.bus.Subscribe(TopicReloadFailed, r.logFailed)
	return r
}

func (r *reloader) reload(path string) {
	r.log.Debug("re-evaluating configuration script", "file", path)
	b, err := config.NewBuilder(r.seed, r.opts...)
	if err == nil {
		var cfg config.Config
		if cfg, err = b.Resolve(); err == nil {
			r.metrics.RecordReload(metric.ResultOK)
			r.bus.Publish(TopicReloaded, cfg)
			return
		}
	}
	r.metrics.RecordReload(metric.ResultError)
	r.bus.Publish(TopicReloadFailed, err)
}

func (r *reloader) logReloaded(cfg config.Config) {
	r.log.Info("configuration script reloaded",
		"file", cfg.ConfigFile,
		"config", config.Sanitize(&cfg))
	r.log.Warn("listener, worker and application settings take effect on restart")
}

func (r *reloader) logFailed(err error) {
	r.log.Error("configuration script reload failed", "error", err)
}

// applyLogLevel follows the debug setting without a restart.
func (r *reloader) applyLogLevel(cfg config.Config) {
	if cfg.Debug {
		logger.SetLevel("debug")
		return
	}
	logger.SetLevel(r.baseLevel)
}
