package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lab-reservation-backend/internal/lab"
)

const metricPrefix = "lab_"

// Collector turns the lab's committed results into prometheus series.
type Collector struct {
	registry *prometheus.Registry

	operations      *prometheus.CounterVec
	notifications   prometheus.Counter
	sessionsClosed  *prometheus.CounterVec
	sessionDuration *prometheus.HistogramVec
	penalties       prometheus.Counter
}

// New registers the lab collectors on a fresh registry together with the
// process and Go runtime collectors.
func New() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		registry: reg,
		operations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "operations_total",
				Help: "Total lab operations by operation and result kind",
			},
			[]string{"op", "kind"},
		),
		notifications: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "notifications_queued_total",
				Help: "Total notifications placed in user outboxes",
			},
		),
		sessionsClosed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "sessions_closed_total",
				Help: "Total returned borrow sessions by variant and lateness",
			},
			[]string{"variant", "late"},
		),
		sessionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "session_duration_seconds",
				Help:    "Borrowed time of returned sessions in seconds",
				Buckets: []float64{60, 300, 900, 1800, 3600, 7200, 14400, 28800, 86400},
			},
			[]string{"variant"},
		),
		penalties: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "credit_penalty_points_total",
				Help: "Total credit points deducted for late returns",
			},
		),
	}

	reg.MustRegister(
		c.operations,
		c.notifications,
		c.sessionsClosed,
		c.sessionDuration,
		c.penalties,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Handler serves the registry in the prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// OperationCompleted implements lab.Observer.
func (c *Collector) OperationCompleted(op string, err error) {
	c.operations.WithLabelValues(op, lab.Kind(err)).Inc()
}

// NotificationQueued implements lab.Observer.
func (c *Collector) NotificationQueued(lab.Notification) {
	c.notifications.Inc()
}

// SessionClosed implements lab.Observer.
func (c *Collector) SessionClosed(s lab.Session) {
	variant := s.Variant.String()
	c.sessionsClosed.WithLabelValues(variant, strconv.FormatBool(s.Late)).Inc()
	c.sessionDuration.WithLabelValues(variant).Observe(s.Duration().Seconds())
	if s.Penalty > 0 {
		c.penalties.Add(float64(s.Penalty))
	}
}
