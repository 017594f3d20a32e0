package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "styleext"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	stageDuration *prom.HistogramVec
	stageResults  *prom.CounterVec
	resolutions   *prom.CounterVec
	inlined       *prom.CounterVec
	deleted       prom.Counter
	inlinedBytes  prom.Histogram
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.stageDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of lifecycle stage handlers",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"})
		pr.stageResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Lifecycle stage handler results by outcome",
		}, []string{"stage", "result"})
		pr.resolutions = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "resolutions_total",
			Help:      "Stylesheet resolutions by outcome",
		}, []string{"outcome"})
		pr.inlined = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "inlined_total",
			Help:      "Stylesheets embedded into HTML by position",
		}, []string{"position"})
		pr.deleted = prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "deleted_assets_total",
			Help:      "Inlined stylesheets removed from the output",
		})
		pr.inlinedBytes = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "inlined_bytes",
			Help:      "Size of embedded stylesheet content",
			Buckets:   prom.ExponentialBuckets(256, 4, 8),
		})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		reg.MustRegister(pr.stageDuration, pr.stageResults, pr.resolutions, pr.inlined,
			pr.deleted, pr.inlinedBytes, pr.buildDuration, pr.buildOutcome)
	})
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil || p.stageDuration == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil || p.stageResults == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncResolution(outcome string) {
	if p == nil || p.resolutions == nil {
		return
	}
	p.resolutions.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncInlined(position string) {
	if p == nil || p.inlined == nil {
		return
	}
	p.inlined.WithLabelValues(position).Inc()
}

func (p *PrometheusRecorder) AddDeleted(n int) {
	if p == nil || p.deleted == nil || n <= 0 {
		return
	}
	p.deleted.Add(float64(n))
}

func (p *PrometheusRecorder) ObserveInlinedBytes(n int) {
	if p == nil || p.inlinedBytes == nil {
		return
	}
	p.inlinedBytes.Observe(float64(n))
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome string) {
	if p == nil || p.buildOutcome == nil {
		return
	}
	p.buildOutcome.WithLabelValues(outcome).Inc()
}
