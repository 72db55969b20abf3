package metric

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jubilee"

// Evaluation and reload results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Application resolution sources.
const (
	SourceBlock      = "block"
	SourceRackup     = "rackup"
	SourceDescriptor = "descriptor"
)

// Registry holds the configuration metrics on a private Prometheus
// registry. A nil *Registry is valid and records nothing.
type Registry struct {
	registry *prometheus.Registry

	Evaluations   *prometheus.CounterVec
	SettingErrors *prometheus.CounterVec
	Reloads       *prometheus.CounterVec
	Resolutions   *prometheus.CounterVec
}

var (
	global     *Registry
	globalOnce sync.Once
)

// NewRegistry creates a new metrics registry with Go runtime and process
// collectors attached.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
		Evaluations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "evaluations_total",
			Help:      "Configuration script evaluations by result.",
		}, []string{"result"}),
		SettingErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "setting_errors_total",
			Help:      "Rejected setter invocations by setting.",
		}, []string{"setting"}),
		Reloads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "config",
			Name:      "reloads_total",
			Help:      "Configuration reloads by result.",
		}, []string{"result"}),
		Resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "app",
			Name:      "resolutions_total",
			Help:      "Application handle resolutions by source.",
		}, []string{"source"}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		NewBuildCollector(),
		r.Evaluations,
		r.SettingErrors,
		r.Reloads,
		r.Resolutions,
	)

	return r
}

// Global returns the process-wide registry.
func Global() *Registry {
	globalOnce.Do(func() {
		global = NewRegistry()
	})
	return global
}

// Handler returns an HTTP handler serving the global registry.
func Handler() http.Handler {
	return Global().Handler()
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the underlying registry.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordEvaluation counts one configuration script evaluation.
func (r *Registry) RecordEvaluation(result string) {
	if r == nil {
		return
	}
	r.Evaluations.WithLabelValues(result).Inc()
}

// RecordSettingError counts one rejected setter invocation.
func (r *Registry) RecordSettingError(setting string) {
	if r == nil {
		return
	}
	r.SettingErrors.WithLabelValues(setting).Inc()
}

// RecordReload counts one reload attempt.
func (r *Registry) RecordReload(result string) {
	if r == nil {
		return
	}
	r.Reloads.WithLabelValues(result).Inc()
}

// RecordResolution counts one application resolution.
func (r *Registry) RecordResolution(source string) {
	if r == nil {
		return
	}
	r.Resolutions.WithLabelValues(source).Inc()
}
