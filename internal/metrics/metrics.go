package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "pingo"

// Tick outcomes.
const (
	TickOK            = "ok"
	TickLocationError = "location_error"
	TickStoreError    = "store_error"
)

// Metrics groups the monitor collectors.
type Metrics struct {
	// ticks counts proximity ticks by outcome.
	ticks *prometheus.CounterVec
	// tickDuration observes tick latency.
	tickDuration prometheus.Histogram
	// fires counts fired alarms by action type.
	fires *prometheus.CounterVec
	// notifications counts local notifications by outcome.
	notifications *prometheus.CounterVec
	// sends counts message deliveries by channel and outcome.
	sends *prometheus.CounterVec
}

// New registers the collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ticks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Proximity ticks by outcome.",
		}, []string{"outcome"}),
		tickDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Duration of proximity ticks.",
			Buckets:   prometheus.DefBuckets,
		}),
		fires: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alarm_fires_total",
			Help:      "Alarms that passed the notification gate, by action type.",
		}, []string{"action"}),
		notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Local notifications by outcome.",
		}, []string{"outcome"}),
		sends: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "message_sends_total",
			Help:      "Outbound messages by channel and outcome.",
		}, []string{"channel", "outcome"}),
	}
}

// ObserveTick records one finished tick.
func (m *Metrics) ObserveTick(outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	m.ticks.WithLabelValues(outcome).Inc()
	m.tickDuration.Observe(elapsed.Seconds())
}

// Fired records one alarm fire.
func (m *Metrics) Fired(action string) {
	if m == nil {
		return
	}

	m.fires.WithLabelValues(action).Inc()
}

// Notified records one local notification attempt.
func (m *Metrics) Notified(err error) {
	if m == nil {
		return
	}

	m.notifications.WithLabelValues(outcome(err)).Inc()
}

// Sent records one message delivery attempt.
func (m *Metrics) Sent(channel string, err error) {
	if m == nil {
		return
	}

	m.sends.WithLabelValues(channel, outcome(err)).Inc()
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}

	return "ok"
}
