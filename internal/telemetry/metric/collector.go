package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/yndnr/jubilee-go/internal/infra/buildinfo"
)

// BuildCollector exports build information as a constant gauge.
type BuildCollector struct {
	desc *prometheus.Desc
}

// NewBuildCollector creates a new build information collector.
func NewBuildCollector() *BuildCollector {
	return &BuildCollector{
		desc: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "", "build_info"),
			"Build information of the running server.",
			[]string{"version", "commit", "go_version"},
			nil,
		),
	}
}

// Describe implements prometheus.Collector.
func (c *BuildCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.desc
}

// Collect implements prometheus.Collector.
func (c *BuildCollector) Collect(ch chan<- prometheus.Metric) {
	info := buildinfo.Get()
	ch <- prometheus.MustNewConstMetric(c.desc, prometheus.GaugeValue, 1,
		info.Version, info.Commit, info.GoVersion)
}
