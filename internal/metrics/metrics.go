// Package metrics exposes Prometheus counters for cleaning runs.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amishk599/salarynorm/internal/model"
)

const namespace = "salarynorm"

// Recorder receives per-record and per-run observations from the pipeline.
type Recorder interface {
	ObserveRecord(rec model.CleanRecord)
	ObserveRun(stats model.RunStats, err error)
}

// Prometheus records pipeline activity on its own registry so that tests and
// multiple instances never collide on the global one.
type Prometheus struct {
	registry *prometheus.Registry

	RowsTotal        *prometheus.CounterVec
	SalaryParsed     *prometheus.CounterVec
	ExperienceBucket *prometheus.CounterVec
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	LastRunCleanRows prometheus.Gauge
}

var _ Recorder = (*Prometheus)(nil)

// NewPrometheus creates a recorder with a fresh registry.
func NewPrometheus() *Prometheus {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Prometheus{
		registry: reg,
		RowsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Raw rows processed, by outcome",
		}, []string{"outcome"}),
		SalaryParsed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "salary_parsed_total",
			Help:      "Clean records by whether a salary range was extracted",
		}, []string{"parsed"}),
		ExperienceBucket: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "experience_bucket_total",
			Help:      "Clean records by experience bucket",
		}, []string{"bucket"}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Cleaning runs by status",
		}, []string{"status"}),
		RunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of cleaning runs in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 12),
		}),
		LastRunCleanRows: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_clean_rows",
			Help:      "Clean rows produced by the most recent successful run",
		}),
	}
}

// ObserveRecord counts one clean record.
func (p *Prometheus) ObserveRecord(rec model.CleanRecord) {
	parsed := "false"
	if rec.SalaryParsed {
		parsed = "true"
	}
	p.SalaryParsed.WithLabelValues(parsed).Inc()
	p.ExperienceBucket.WithLabelValues(rec.ExperienceBucket).Inc()
}

// ObserveRun records the outcome of one run.
func (p *Prometheus) ObserveRun(stats model.RunStats, err error) {
	if err != nil {
		p.RunsTotal.WithLabelValues("error").Inc()
		return
	}
	p.RunsTotal.WithLabelValues("success").Inc()
	p.RunDuration.Observe(stats.Duration.Seconds())
	p.LastRunCleanRows.Set(float64(stats.CleanRows))

	p.RowsTotal.WithLabelValues("clean").Add(float64(stats.CleanRows))
	p.RowsTotal.WithLabelValues("duplicate").Add(float64(stats.DroppedDuplicates))
	p.RowsTotal.WithLabelValues("filtered").Add(float64(stats.Filtered))
	p.RowsTotal.WithLabelValues("malformed").Add(float64(stats.Malformed))
}

// Handler serves the registry in the Prometheus text format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Nop discards all observations.
type Nop struct{}

func (Nop) ObserveRecord(model.CleanRecord)  {}
func (Nop) ObserveRun(model.RunStats, error) {}
