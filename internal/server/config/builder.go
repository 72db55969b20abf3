package config

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/jubilee-go/internal/core/domain"
	"github.com/yndnr/jubilee-go/internal/infra/confloader"
	"github.com/yndnr/jubilee-go/internal/infra/confscript"
	"github.com/yndnr/jubilee-go/internal/server/application"
	"github.com/yndnr/jubilee-go/internal/telemetry/metric"
)

// Builder owns the options of one server configuration. It is seeded by
// the bootstrap layer, mutated by setters (directly or from a configuration
// script) and frozen by Resolve.
//
// A Builder is not safe for concurrent mutation. App may be called from
// any goroutine.
type Builder struct {
	opts *confloader.Loader

	block      func(*application.Stack)
	registry   *application.Registry
	requestLog io.Writer
	logger     *slog.Logger
	metrics    *metric.Registry

	frozen bool

	appMu sync.Mutex
	app   http.Handler
}

// Option configures a Builder.
type Option func(*Builder)

// WithApplication supplies the application directly. It takes precedence
// over every other application source.
func WithApplication(fn func(*application.Stack)) Option {
	return func(b *Builder) {
		b.block = fn
	}
}

// WithRequestLog sets where development-mode request lines are written.
// Defaults to os.Stdout.
func WithRequestLog(w io.Writer) Option {
	return func(b *Builder) {
		b.requestLog = w
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithMetrics records evaluations, rejected settings and resolutions.
func WithMetrics(m *metric.Registry) Option {
	return func(b *Builder) {
		b.metrics = m
	}
}

// WithRegistry sets the application factories used for entry points and
// descriptors. Defaults to application.DefaultRegistry().
func WithRegistry(r *application.Registry) Option {
	return func(b *Builder) {
		b.registry = r
	}
}

// NewBuilder seeds a Builder with the given options, taken verbatim, and
// evaluates the configuration script named by "config_file", if any.
func NewBuilder(seed map[string]any, opts ...Option) (*Builder, error) {
	b := &Builder{
		opts:       confloader.NewLoader(),
		requestLog: os.Stdout,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.registry == nil {
		b.registry = application.DefaultRegistry()
	}

	if err := b.opts.LoadMap(seed); err != nil {
		return nil, fmt.Errorf("seed options: %w", err)
	}

	if err := b.evaluate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Reload re-reads the configuration script and applies it on top of the
// current options. Evaluation stops at the first failing directive;
// directives before it stay applied.
func (b *Builder) Reload() error {
	if err := b.mutable("reload"); err != nil {
		return err
	}

	err := b.evaluate()
	if err != nil {
		b.metrics.RecordReload(metric.ResultError)
		return err
	}
	b.metrics.RecordReload(metric.ResultOK)
	return nil
}

// ScriptPath returns the configuration script path, or "" when none.
func (b *Builder) ScriptPath() string {
	return b.opts.GetString("config_file")
}

func (b *Builder) evaluate() error {
	path := b.ScriptPath()
	if path == "" {
		return nil
	}

	id := ulid.Make().String()
	log := b.logger.With("evaluation_id", id, "file", path)

	directives, err := confscript.ParseFile(path)
	if err != nil {
		b.metrics.RecordEvaluation(metric.ResultError)
		log.Error("configuration script rejected", "error", err)
		return err
	}

	for _, d := range directives {
		if err := b.apply(d); err != nil {
			b.metrics.RecordEvaluation(metric.ResultError)
			log.Error("configuration directive failed",
				"directive", d.Name,
				"pos", d.Pos.String(),
				"error", err,
			)
			return fmt.Errorf("%s:%s: %w", path, d.Pos, err)
		}
	}

	b.metrics.RecordEvaluation(metric.ResultOK)
	log.Info("configuration evaluated", "directives", len(directives))
	return nil
}

// Get returns the raw option at key. Nested keys use dots, e.g.
// "event_bus.prefix".
func (b *Builder) Get(key string) any {
	return b.opts.Get(key)
}

// Options returns a nested copy of all options.
func (b *Builder) Options() map[string]any {
	return b.opts.Raw()
}

// Config returns the options as a Config without freezing the builder.
func (b *Builder) Config() (Config, error) {
	var cfg Config
	if err := b.opts.Unmarshal(&cfg); err != nil {
		return Config{}, domain.ErrValidation.WithDetails("decode options").WithCause(err)
	}
	return cfg, nil
}

// Resolve verifies the options, freezes the builder and returns the final
// Config. Setters and Reload fail with domain.ErrFrozen afterwards.
func (b *Builder) Resolve() (Config, error) {
	cfg, err := b.Config()
	if err != nil {
		return Config{}, err
	}
	if err := Verify(&cfg); err != nil {
		return Config{}, err
	}

	b.frozen = true
	b.logger.Debug("configuration resolved", "config", Sanitize(&cfg))
	return cfg, nil
}

// Frozen reports whether Resolve has succeeded.
func (b *Builder) Frozen() bool {
	return b.frozen
}

func (b *Builder) mutable(setting string) error {
	if b.frozen {
		return b.fail(setting, domain.ErrFrozen.Detailf("cannot apply %s", setting))
	}
	return nil
}

// fail records a rejected setting and returns err unchanged.
func (b *Builder) fail(setting string, err error) error {
	b.metrics.RecordSettingError(setting)
	b.logger.Debug("setting rejected", "setting", setting, "error", err)
	return err
}
