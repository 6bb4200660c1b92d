package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// BotMetrics exposes counters/histograms for dialog turns and backend calls.
// A nil *BotMetrics is valid and records nothing.
type BotMetrics struct {
	turnsTotal      *prometheus.CounterVec
	turnLatency     *prometheus.HistogramVec
	directivesTotal *prometheus.CounterVec
	backendTotal    *prometheus.CounterVec
	backendLatency  *prometheus.HistogramVec
}

func NewBotMetrics(reg prometheus.Registerer) *BotMetrics {
	m := &BotMetrics{
		turnsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "returns",
			Subsystem: "bot",
			Name:      "turns_total",
			Help:      "Total processed turns",
		}, []string{"channel", "kind", "status"}),
		turnLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "returns",
			Subsystem: "bot",
			Name:      "turn_latency_seconds",
			Help:      "Latency of turn processing including state flush",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		directivesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "returns",
			Subsystem: "dialog",
			Name:      "directives_total",
			Help:      "Directives returned by flow steps",
		}, []string{"flow", "directive"}),
		backendTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "returns",
			Subsystem: "oms",
			Name:      "requests_total",
			Help:      "Total requests to the order management backend",
		}, []string{"operation", "status"}),
		backendLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "returns",
			Subsystem: "oms",
			Name:      "request_latency_seconds",
			Help:      "Latency of order management backend requests",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.turnsTotal, m.turnLatency, m.directivesTotal, m.backendTotal, m.backendLatency)
	return m
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *BotMetrics) ObserveTurn(channel, kind string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.turnsTotal.WithLabelValues(channel, kind, status(err)).Inc()
	m.turnLatency.WithLabelValues(kind).Observe(elapsed.Seconds())
}

func (m *BotMetrics) ObserveDirective(flow, directive string) {
	if m == nil {
		return
	}
	m.directivesTotal.WithLabelValues(flow, directive).Inc()
}

func (m *BotMetrics) ObserveBackend(operation string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.backendTotal.WithLabelValues(operation, status(err)).Inc()
	m.backendLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}
