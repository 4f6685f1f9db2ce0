// Package metrics exposes Prometheus collectors for vault generation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vaults"

// Registry holds the service's collectors on a private prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	generationDuration prometheus.Histogram
	generationRequests prometheus.Counter
	strategiesTotal    *prometheus.CounterVec
	templatesSkipped   prometheus.Counter
	malformedInputs    prometheus.Counter
	exportsTotal       *prometheus.CounterVec
	exportBytes        prometheus.Counter
}

// New creates a registry with Go runtime and process collectors attached.
func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		generationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "Duration of strategy generation requests",
			Buckets:   []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		generationRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_requests_total",
			Help:      "Total number of generation requests",
		}),
		strategiesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "strategies_generated_total",
			Help:      "Total number of strategies generated",
		}, []string{"strategy_id"}),
		templatesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "templates_skipped_total",
			Help:      "Requested templates that produced no strategy",
		}),
		malformedInputs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "malformed_inputs_total",
			Help:      "Generation requests rejected for malformed input",
		}),
		exportsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Strategy history exports by outcome",
		}, []string{"status"}),
		exportBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "export_bytes_total",
			Help:      "Bytes uploaded by strategy history exports",
		}),
	}

	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.generationDuration,
		r.generationRequests,
		r.strategiesTotal,
		r.templatesSkipped,
		r.malformedInputs,
		r.exportsTotal,
		r.exportBytes,
	)

	return r
}

// ObserveGeneration records one completed generation request.
func (r *Registry) ObserveGeneration(duration time.Duration, requested, generated int) {
	if r == nil {
		return
	}
	r.generationRequests.Inc()
	r.generationDuration.Observe(duration.Seconds())
	if skipped := requested - generated; skipped > 0 {
		r.templatesSkipped.Add(float64(skipped))
	}
}

// StrategyGenerated counts one produced strategy.
func (r *Registry) StrategyGenerated(strategyID string) {
	if r == nil {
		return
	}
	r.strategiesTotal.WithLabelValues(strategyID).Inc()
}

// MalformedInput counts a rejected request.
func (r *Registry) MalformedInput() {
	if r == nil {
		return
	}
	r.malformedInputs.Inc()
}

// ExportSucceeded records an uploaded snapshot of size bytes.
func (r *Registry) ExportSucceeded(bytes int) {
	if r == nil {
		return
	}
	r.exportsTotal.WithLabelValues("success").Inc()
	r.exportBytes.Add(float64(bytes))
}

// ExportFailed records a failed export.
func (r *Registry) ExportFailed() {
	if r == nil {
		return
	}
	r.exportsTotal.WithLabelValues("failure").Inc()
}

// Gatherer exposes the underlying registry for tests and custom exporters.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
