// Package metric provides Prometheus metrics for Jubilee.
//
// Metrics cover configuration script evaluations, rejected settings,
// reloads and application resolutions, plus Go runtime, process and build
// information. They are exposed at /metrics in Prometheus format.
package metric
