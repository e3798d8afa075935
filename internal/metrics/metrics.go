package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	// Request duration histogram with method, endpoint, and status labels
	RequestDuration *prometheus.HistogramVec
	// Login attempts counter with status label (success, failed, pending, rejected)
	LoginAttempts *prometheus.CounterVec
	// Currently blocked source addresses
	BlockedIPs prometheus.Gauge
	// Audit events counter with action label
	AuditEvents *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "request_duration_seconds",
			Help: "Duration of HTTP requests in seconds."},
			[]string{"method", "endpoint", "status"},
		),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts.",
		},
			[]string{"status"},
		),
		BlockedIPs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "blocked_ips",
			Help: "Number of currently blocked source addresses.",
		}),
		AuditEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "audit_events_total",
			Help: "Total number of audit log entries appended.",
		},
			[]string{"action"},
		),
	}
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.LoginAttempts)
	reg.MustRegister(m.BlockedIPs)
	reg.MustRegister(m.AuditEvents)
	return m
}

// ObserveRequest records the duration and status of a handled request.
func (m *Metrics) ObserveRequest(method, endpoint string, status int, start time.Time) {
	m.RequestDuration.WithLabelValues(method, endpoint, strconv.Itoa(status)).
		Observe(time.Since(start).Seconds())
}
