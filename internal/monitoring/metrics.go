package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics collects counters for the chat pipeline. Register once and
// share; all methods are safe for concurrent use.
type Metrics struct {
	chatRequests   *prometheus.CounterVec
	remoteFailures prometheus.Counter
	resolverMisses prometheus.Counter
	chatDuration   *prometheus.HistogramVec
	ordersPlaced   prometheus.Counter
}

// NewMetrics creates and registers the chat metrics on the given
// registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		chatRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "atithi_chat_requests_total",
			Help: "Chat turns processed, partitioned by responder path.",
		}, []string{"source"}),
		remoteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atithi_remote_failures_total",
			Help: "Remote model calls that degraded to the apology reply.",
		}),
		resolverMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atithi_resolver_misses_total",
			Help: "Ordering messages naming a dish the catalog resolver could not match.",
		}),
		chatDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "atithi_chat_duration_seconds",
			Help:    "Latency of one chat turn, partitioned by responder path.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		ordersPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "atithi_orders_placed_total",
			Help: "Orders confirmed through the assistant.",
		}),
	}
	reg.MustRegister(m.chatRequests, m.remoteFailures, m.resolverMisses, m.chatDuration, m.ordersPlaced)
	return m
}

// ObserveChat records one chat turn.
func (m *Metrics) ObserveChat(source string, d time.Duration) {
	m.chatRequests.WithLabelValues(source).Inc()
	m.chatDuration.WithLabelValues(source).Observe(d.Seconds())
}

// RecordRemoteFailure counts an apology-degraded remote turn.
func (m *Metrics) RecordRemoteFailure() {
	m.remoteFailures.Inc()
}

// RecordResolverMiss counts an order item that failed name resolution.
func (m *Metrics) RecordResolverMiss() {
	m.resolverMisses.Inc()
}

// RecordOrderPlaced counts a confirmed order.
func (m *Metrics) RecordOrderPlaced() {
	m.ordersPlaced.Inc()
}
