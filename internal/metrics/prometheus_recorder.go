package metrics

import (
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixed to every metric name.
const namespace = "barn"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	registry      *prom.Registry
	stepDuration  *prom.HistogramVec
	stepResults   *prom.CounterVec
	buildDuration *prom.GaugeVec
	buildOutcome  *prom.CounterVec
	lastRun       *prom.GaugeVec
}

// NewPrometheusRecorder constructs and registers the metrics on reg. A nil
// registry gets a fresh one.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		registry: reg,
		stepDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of individual build steps",
			Buckets:   prom.DefBuckets,
		}, []string{"job", "step"}),
		stepResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "step_results_total",
			Help:      "Step results by outcome",
		}, []string{"job", "step", "result"}),
		buildDuration: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Duration of the last build",
		}, []string{"job"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Invocation outcomes (success, failure, skipped)",
		}, []string{"job", "outcome"}),
		lastRun: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time of the last invocation",
		}, []string{"job"}),
	}
	reg.MustRegister(pr.stepDuration, pr.stepResults, pr.buildDuration, pr.buildOutcome, pr.lastRun)
	return pr
}

// Registry returns the registry the metrics are registered on.
func (p *PrometheusRecorder) Registry() *prom.Registry {
	return p.registry
}

func (p *PrometheusRecorder) ObserveStepDuration(job, step string, d time.Duration) {
	if p == nil {
		return
	}
	p.stepDuration.WithLabelValues(job, step).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStepResult(job, step string, success bool) {
	if p == nil {
		return
	}
	p.stepResults.WithLabelValues(job, step, resultLabel(success)).Inc()
}

func (p *PrometheusRecorder) ObserveBuildDuration(job string, d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.WithLabelValues(job).Set(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(job string, outcome Outcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(job, string(outcome)).Inc()
	p.lastRun.WithLabelValues(job).SetToCurrentTime()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}

// WriteTextfile writes every metric in the recorder's registry to path in the
// Prometheus text format. The file is replaced atomically.
func (p *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, p.registry)
}
