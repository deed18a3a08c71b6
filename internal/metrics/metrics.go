// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry *prometheus.Registry

	cacheLookups   *prometheus.CounterVec
	resetPINs      *prometheus.CounterVec
	resetVerifies  *prometheus.CounterVec
	resetsSwept    prometheus.Counter
	mailDeliveries *prometheus.CounterVec
}

// New builds a registry with the process and Go runtime collectors plus the
// application counters.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "engineer_cache_lookups_total",
			Help: "Engineer profile cache lookups by result (hit, miss, not_found, error).",
		}, []string{"result"}),
		resetPINs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "password_reset_pins_issued_total",
			Help: "Password reset PINs issued, by trigger (send, resend).",
		}, []string{"trigger"}),
		resetVerifies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "password_reset_verifications_total",
			Help: "Password reset PIN verifications by outcome.",
		}, []string{"outcome"}),
		resetsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "password_reset_tokens_swept_total",
			Help: "Expired password reset tokens removed by the background sweep.",
		}),
		mailDeliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "mail_deliveries_total",
			Help: "Outgoing mail attempts by status.",
		}, []string{"status"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cacheLookups,
		m.resetPINs,
		m.resetVerifies,
		m.resetsSwept,
		m.mailDeliveries,
	)
	return m
}

// The recorders below accept a nil receiver so services can run without metrics.

func (m *Metrics) CacheLookup(result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(result).Inc()
}

func (m *Metrics) PINIssued(trigger string) {
	if m == nil {
		return
	}
	m.resetPINs.WithLabelValues(trigger).Inc()
}

func (m *Metrics) PINVerified(outcome string) {
	if m == nil {
		return
	}
	m.resetVerifies.WithLabelValues(outcome).Inc()
}

func (m *Metrics) TokensSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.resetsSwept.Add(float64(n))
}

func (m *Metrics) MailDelivery(status string) {
	if m == nil {
		return
	}
	m.mailDeliveries.WithLabelValues(status).Inc()
}
