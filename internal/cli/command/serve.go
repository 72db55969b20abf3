package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/jubilee-go/internal/infra/buildinfo"
	"github.com/yndnr/jubilee-go/internal/infra/confloader"
	"github.com/yndnr/jubilee-go/internal/infra/keystore"
	"github.com/yndnr/jubilee-go/internal/infra/shutdown"
	"github.com/yndnr/jubilee-go/internal/server/clusterserver"
	"github.com/yndnr/jubilee-go/internal/server/config"
	"github.com/yndnr/jubilee-go/internal/server/httpserver"
	"github.com/yndnr/jubilee-go/internal/telemetry/logger"
	"github.com/yndnr/jubilee-go/internal/telemetry/metric"
)

const shutdownTimeout = 30 * time.Second

func newLogger(c *cli.Context) (*slog.Logger, error) {
	log, err := logger.New(logger.Config{
		Level:  c.String(flagLogLevel),
		Format: c.String(flagLogFormat),
		Output: c.App.ErrWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	slog.SetDefault(log)
	return log, nil
}

// resolved is a frozen configuration with what produced it.
type resolved struct {
	builder *config.Builder
	cfg     config.Config
	seed    map[string]any
	opts    []config.Option
}

// resolve builds, evaluates and freezes the configuration.
func resolve(c *cli.Context, log *slog.Logger, metrics *metric.Registry) (*resolved, error) {
	seed, err := buildSeed(c)
	if err != nil {
		return nil, err
	}
	opts := []config.Option{
		config.WithLogger(log),
		config.WithMetrics(metrics),
		config.WithRequestLog(c.App.Writer),
	}
	b, err := config.NewBuilder(seed, opts...)
	if err != nil {
		return nil, err
	}
	cfg, err := b.Resolve()
	if err != nil {
		return nil, err
	}
	return &resolved{builder: b, cfg: cfg, seed: seed, opts: opts}, nil
}

func serveAction(c *cli.Context) error {
	log, err := newLogger(c)
	if err != nil {
		return err
	}
	metrics := metric.Global()

	res, err := resolve(c, log, metrics)
	if err != nil {
		return err
	}
	cfg := res.cfg
	if cfg.Debug {
		logger.SetLevel("debug")
	}
	if cfg.Daemonize {
		log.Warn("daemonize is not supported; run jubilee under a process supervisor")
	}

	app, err := res.builder.App()
	if err != nil {
		return err
	}

	var srvOpts []httpserver.Option
	srvOpts = append(srvOpts, httpserver.WithLogger(log))
	var ks *keystore.Reloader
	if cfg.SSL {
		if cfg.SSLKeystore == "" {
			return fmt.Errorf("ssl: no keystore configured")
		}
		ks, err = keystore.NewReloader(cfg.SSLKeystore, cfg.SSLPassword, keystore.WithLogger(log))
		if err != nil {
			return fmt.Errorf("ssl: %w", err)
		}
		srvOpts = append(srvOpts, httpserver.WithTLSConfig(ks.TLSConfig()))
	}

	handler := httpserver.NewRouter(&httpserver.RouterConfig{
		App:            app,
		Logger:         log,
		ServerSoftware: buildinfo.ServerSoftware(),
	})
	srv := httpserver.New(cfg.ListenAddr(), handler, srvOpts...)

	ln, err := net.Listen("tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.ListenAddr(), err)
	}
	ln = newTunedListener(ln, cfg.TCP)

	sh := shutdown.NewHandler(shutdownTimeout, shutdown.WithLogger(log))
	ctx, cancel := context.WithCancelCause(c.Context)
	defer cancel(nil)

	if ks != nil {
		if err := ks.Watch(); err != nil {
			log.Warn("keystore not watched", "file", cfg.SSLKeystore, "error", err)
		}
		sh.OnShutdown("keystore", func(context.Context) error { return ks.Stop() })
	}

	if cfg.PID != "" {
		if err := writePID(cfg.PID); err != nil {
			_ = ln.Close()
			return err
		}
		sh.OnShutdown("pid", func(context.Context) error { return os.Remove(cfg.PID) })
	}

	go func() {
		log.Info("jubilee listening",
			"addr", ln.Addr().String(),
			"tls", srv.TLS(),
			"environment", cfg.Environment,
			"worker_threads", cfg.WorkerThreads,
			"version", buildinfo.Version)
		if err := srv.Serve(ln); err != nil {
			cancel(fmt.Errorf("http server: %w", err))
		}
	}()
	sh.OnShutdown("http", srv.Shutdown)

	if addr := c.String(flagMetricsAddr); addr != "" {
		msrv := httpserver.New(addr, metrics.Handler(), httpserver.WithLogger(log))
		go func() {
			log.Info("metrics listening", "addr", addr)
			if err := msrv.ListenAndServe(); err != nil {
				cancel(fmt.Errorf("metrics server: %w", err))
			}
		}()
		sh.OnShutdown("metrics", msrv.Shutdown)
	}

	if cfg.ClusteringEnabled() {
		dc, err := config.ToDiscoveryConfig(&cfg, c.StringSlice(flagJoin), log)
		if err != nil {
			cancel(err)
		} else if d, err := clusterserver.NewDiscovery(dc); err != nil {
			cancel(fmt.Errorf("cluster discovery: %w", err))
		} else {
			sh.OnShutdown("cluster", func(context.Context) error { return d.Leave() })
		}
	}

	if cfg.ConfigFile != "" {
		w, err := watchScript(cfg.ConfigFile, newReloader(res.seed, res.opts, log, metrics, c.String(flagLogLevel)), log)
		if err != nil {
			log.Warn("configuration script not watched", "file", cfg.ConfigFile, "error", err)
		} else {
			sh.OnShutdown("watcher", func(context.Context) error { return w.Stop() })
		}
	}

	err = sh.Wait(ctx)
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, context.Canceled) {
		return errors.Join(cause, err)
	}
	if err != nil {
		return err
	}
	log.Info("jubilee stopped")
	return nil
}

func writePID(path string) error {
	if err := os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())+"\n"), 0o644); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	return nil
}

// watchScript re-evaluates the configuration script whenever it changes.
func watchScript(path string, r *reloader, log *slog.Logger) (*confloader.Watcher, error) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(log))
	if err != nil {
		return nil, err
	}
	if err := w.Watch(path); err != nil {
		_ = w.Stop()
		return nil, err
	}
	w.OnChange(r.reload)
	w.StartAsync()
	return w, nil
}
