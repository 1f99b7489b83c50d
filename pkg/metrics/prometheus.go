package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	symbolsScanned *prometheus.CounterVec
	triggersFired  *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastScore      *prometheus.GaugeVec
	scanDuration   *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		symbolsScanned: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksentry_symbols_scanned_total",
				Help: "Total number of symbols evaluated",
			},
			[]string{"result"},
		),
		triggersFired: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksentry_triggers_fired_total",
				Help: "Total number of trigger events emitted",
			},
			[]string{"kind", "action"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stocksentry_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastScore: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stocksentry_last_score",
				Help: "Last composite score per symbol and variant",
			},
			[]string{"symbol", "variant"},
		),
		scanDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stocksentry_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSymbolScanned records the outcome of evaluating one symbol.
func (r *Recorder) RecordSymbolScanned(result string) {
	r.symbolsScanned.WithLabelValues(result).Inc()
}

// RecordTriggerFired records an emitted trigger event.
func (r *Recorder) RecordTriggerFired(kind, action string) {
	r.triggersFired.WithLabelValues(kind, action).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordScore records the last composite score for a symbol.
func (r *Recorder) RecordScore(symbol, variant string, score float64) {
	r.lastScore.WithLabelValues(symbol, variant).Set(score)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.scanDuration.WithLabelValues(op).Observe(seconds)
}
