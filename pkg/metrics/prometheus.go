package metrics

import (
	"FinSignal/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	stageLatency *prometheus.HistogramVec
	dropped      *prometheus.CounterVec
	alerts       prometheus.Counter
	errorsTotal  *prometheus.CounterVec
}

var _ repository.Metrics = (*Recorder)(nil)

// New registers the pipeline collectors on reg; nil means the default registry.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		stageLatency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsignal_stage_duration_seconds",
				Help:    "Duration of pipeline stages and ingest operations",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"stage"},
		),
		dropped: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsignal_dropped_inputs_total",
				Help: "Malformed inputs discarded, by kind",
			},
			[]string{"kind"},
		),
		alerts: f.NewCounter(
			prometheus.CounterOpts{
				Name: "finsignal_alerts_total",
				Help: "Alert candidates emitted",
			},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsignal_errors_total",
				Help: "Errors encountered, by kind",
			},
			[]string{"type"},
		),
	}
}

func (r *Recorder) RecordStage(stage string, seconds float64) {
	r.stageLatency.WithLabelValues(stage).Observe(seconds)
}

// RecordDropped adds n to the kind counter; zero is a no-op.
func (r *Recorder) RecordDropped(kind string, n int) {
	if n <= 0 {
		return
	}
	r.dropped.WithLabelValues(kind).Add(float64(n))
}

func (r *Recorder) RecordAlerts(n int) {
	if n > 0 {
		r.alerts.Add(float64(n))
	}
}

func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}
