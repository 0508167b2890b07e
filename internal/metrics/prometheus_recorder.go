package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/push"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	generations *prom.CounterVec
	migrations  *prom.CounterVec
	skipped     *prom.CounterVec
	errors      *prom.CounterVec
	runDuration prom.Histogram
}

// NewPrometheusRecorder constructs and registers metrics on reg. A nil
// registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		generations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "actiondocs",
			Name:      "generations_total",
			Help:      "Documentation generations by manifest",
		}, []string{"manifest"}),
		migrations: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "actiondocs",
			Name:      "migrations_total",
			Help:      "Marker migrations by source tool",
		}, []string{"tool"}),
		skipped: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "actiondocs",
			Name:      "skipped_total",
			Help:      "Manifests skipped because their fingerprint was unchanged",
		}, []string{"manifest"}),
		errors: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "actiondocs",
			Name:      "errors_total",
			Help:      "Run errors by category",
		}, []string{"category"}),
		runDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: "actiondocs",
			Name:      "run_duration_seconds",
			Help:      "Duration of full generation runs",
			Buckets:   prom.DefBuckets,
		}),
	}
	reg.MustRegister(pr.generations, pr.migrations, pr.skipped, pr.errors, pr.runDuration)
	return pr
}

func (pr *PrometheusRecorder) IncGeneration(manifest string) {
	pr.generations.WithLabelValues(manifest).Inc()
}

func (pr *PrometheusRecorder) IncMigration(tool string) {
	pr.migrations.WithLabelValues(tool).Inc()
}

func (pr *PrometheusRecorder) IncSkipped(manifest string) {
	pr.skipped.WithLabelValues(manifest).Inc()
}

func (pr *PrometheusRecorder) IncError(category string) {
	pr.errors.WithLabelValues(category).Inc()
}

func (pr *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	pr.runDuration.Observe(d.Seconds())
}

// Push delivers the registry's metrics to a Pushgateway. Short-lived
// command runs cannot be scraped, so this is their only way to report.
func Push(gatewayURL string, reg *prom.Registry) error {
	return push.New(gatewayURL, "actiondocs").Gatherer(reg).Add()
}

// HTTPHandler serves the registry's metrics.
func HTTPHandler(reg *prom.Registry) http.Handler {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
