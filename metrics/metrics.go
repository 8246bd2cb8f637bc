// Package metrics exposes importer and read API counters to Prometheus.
package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/iamnorbiato/F1App/importer"
)

const namespace = "f1app"

// Metrics owns a private registry so tests and the CLI do not share global state.
type Metrics struct {
	reg *prometheus.Registry

	importRecords  *prometheus.CounterVec
	importRuns     *prometheus.CounterVec
	importDuration *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		importRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_records_total",
			Help:      "Records processed by importer runs, by outcome.",
		}, []string{"entity", "outcome"}),
		importRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_runs_total",
			Help:      "Importer runs, by result.",
		}, []string{"entity", "result"}),
		importDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Wall time of importer runs.",
			Buckets:   []float64{1, 5, 15, 60, 300, 900, 3600},
		}, []string{"entity"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Read API requests, by route and status.",
		}, []string{"method", "route", "status"}),
	}
	m.reg.MustRegister(
		m.importRecords,
		m.importRuns,
		m.importDuration,
		m.httpRequests,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// ObserveSummary records a finished importer run.
func (m *Metrics) ObserveSummary(s *importer.Summary, err error) {
	for outcome, n := range map[importer.Outcome]int{
		importer.Created:  s.Created,
		importer.Updated:  s.Updated,
		importer.Existing: s.Existing,
		importer.Errored:  s.Errored,
	} {
		m.importRecords.WithLabelValues(s.Entity, outcome.String()).Add(float64(n))
	}

	result := "success"
	if err != nil {
		result = "failure"
	}
	m.importRuns.WithLabelValues(s.Entity, result).Inc()
	m.importDuration.WithLabelValues(s.Entity).Observe(s.Duration().Seconds())
}

// ObserveRequest counts one read API request.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Push sends the registry to a Pushgateway under job. Importer runs are
// short-lived, so they push instead of being scraped.
func (m *Metrics) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(m.reg).PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics to %s: %w", gatewayURL, err)
	}
	return nil
}

var _ importer.Observer = (*Metrics)(nil)
