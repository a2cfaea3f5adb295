package observability

import (
	"context"
	"net/http"

	"github.com/meiyaku-knights/navi/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "navi"

// Metrics holds the collectors exported by the API.
type Metrics struct {
	registry *prometheus.Registry

	steps        *prometheus.CounterVec
	results      *prometheus.CounterVec
	restarts     prometheus.Counter
	graphLoads   *prometheus.CounterVec
	loadDuration prometheus.Histogram
	videos       *prometheus.CounterVec
}

// NewMetrics registers the navi collectors (plus Go and process collectors) on a new registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "steps_total",
			Help:      "Rendered navigator steps by node.",
		}, []string{"node_id", "kind"}),
		results: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "results_total",
			Help:      "Sessions that reached a result.",
		}, []string{"result_id"}),
		restarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "restarts_total",
			Help:      "Navigator restarts.",
		}),
		graphLoads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_loads_total",
			Help:      "Graph load attempts by outcome.",
		}, []string{"status"}),
		loadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_load_duration_seconds",
			Help:      "Duration of graph loads.",
			Buckets:   prometheus.DefBuckets,
		}),
		videos: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "video_resolutions_total",
			Help:      "Video carousel resolutions by source.",
		}, []string{"source"}),
	}

	m.registry.MustRegister(
		m.steps, m.results, m.restarts, m.graphLoads, m.loadDuration, m.videos,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry exposes the registry, for tests and additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnGraphLoad: func(ctx context.Context, e *domain.LoadEvent) {
			status := "ok"
			if e.Err != nil {
				status = "error"
			}
			m.graphLoads.WithLabelValues(status).Inc()
			m.loadDuration.Observe(e.Duration.Seconds())
		},
		OnStep: func(ctx context.Context, e *domain.StepEvent) {
			m.steps.WithLabelValues(e.NodeID, string(e.Kind)).Inc()
		},
		OnResult: func(ctx context.Context, e *domain.StepEvent) {
			m.results.WithLabelValues(e.NodeID).Inc()
		},
		OnRestart: func(ctx context.Context, e *domain.StepEvent) {
			m.restarts.Inc()
		},
	}
}

// VideoResolved counts one carousel resolution.
func (m *Metrics) VideoResolved(source string) {
	m.videos.WithLabelValues(source).Inc()
}
