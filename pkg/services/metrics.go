package services

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what happens behind the pages. A nil *Metrics is valid and
// records nothing, which keeps tests free of registries.
type Metrics struct {
	fetchFailures *prometheus.CounterVec
	contacts      *prometheus.CounterVec
	mails         *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them in reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "site",
			Name:      "content_fetch_failures_total",
			Help:      "Content source fetches that degraded to an empty value.",
		}, []string{"fetch"}),
		contacts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "site",
			Name:      "contact_submissions_total",
			Help:      "Contact submissions by outcome.",
		}, []string{"outcome"}),
		mails: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "site",
			Name:      "mails_sent_total",
			Help:      "Outgoing mails by kind and status.",
		}, []string{"kind", "status"}),
	}
	reg.MustRegister(m.fetchFailures, m.contacts, m.mails)
	return m
}

func (m *Metrics) fetchFailed(name string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(name).Inc()
}

func (m *Metrics) contact(outcome string) {
	if m == nil {
		return
	}
	m.contacts.WithLabelValues(outcome).Inc()
}

func (m *Metrics) mail(kind string, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.mails.WithLabelValues(kind, status).Inc()
}
