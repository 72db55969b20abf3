package config

import (
	"net/http"
	"os"

	"github.com/yndnr/jubilee-go/internal/core/domain"
	"github.com/yndnr/jubilee-go/internal/server/application"
	"github.com/yndnr/jubilee-go/internal/server/httpserver"
	"github.com/yndnr/jubilee-go/internal/telemetry/metric"
)

// App resolves the application and returns the same handler on every later
// call. Sources are tried in order: the WithApplication block, the "rackup"
// entry point, then a descriptor in "chdir". A failed resolution is not
// cached; the next call tries again.
//
// In development mode, unless "quiet" is set, the handler is wrapped with
// a Common Log Format request logger writing to the request log.
func (b *Builder) App() (http.Handler, error) {
	b.appMu.Lock()
	defer b.appMu.Unlock()

	if b.app != nil {
		return b.app, nil
	}
	h, err := b.resolveApp()
	if err != nil {
		return nil, err
	}
	b.app = h
	return h, nil
}

func (b *Builder) resolveApp() (http.Handler, error) {
	h, source, err := b.loadApp()
	if err != nil {
		b.logger.Error("application resolution failed", "error", err)
		return nil, err
	}
	b.metrics.RecordResolution(source)
	b.logger.Debug("application resolved", "source", source)

	if b.developmentLogging() {
		h = httpserver.Chain(h, httpserver.CommonLog(b.requestLog))
	}
	return h, nil
}

func (b *Builder) loadApp() (http.Handler, string, error) {
	if b.block != nil {
		h, err := application.Build(b.block)
		return h, metric.SourceBlock, err
	}

	if rackup := b.opts.GetString("rackup"); rackup != "" {
		h, err := application.LoadEntryPoint(b.registry, rackup)
		return h, metric.SourceRackup, err
	}

	if dir := b.opts.GetString("chdir"); dir != "" {
		if err := os.Chdir(dir); err != nil {
			return nil, "", domain.ErrResolution.Detailf("chdir=%s", dir).WithCause(err)
		}
	}
	h, err := application.Discover(b.registry, ".")
	return h, metric.SourceDescriptor, err
}

func (b *Builder) developmentLogging() bool {
	return !b.opts.GetBool("quiet") && b.opts.GetString("environment") == EnvDevelopment
}
