package client

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "bizbridge"

// Metrics holds the client's prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	requests     *prometheus.CounterVec
	acquisitions *prometheus.CounterVec
}

// NewMetrics creates the client collectors and registers them with reg
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "API requests by method and outcome.",
		}, []string{"method", "outcome"}),
		acquisitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "client",
			Name:      "token_acquisitions_total",
			Help:      "Client credentials exchanges by environment and result.",
		}, []string{"environment", "result"}),
	}

	for _, c := range []prometheus.Collector{m.requests, m.acquisitions} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *Metrics) observeRequest(method string, kind ErrorKind) {
	if m == nil {
		return
	}

	outcome := "success"
	if kind != KindNone {
		outcome = kind.String()
	}

	m.requests.WithLabelValues(method, outcome).Inc()
}

func (m *Metrics) observeAcquisition(env EnvironmentKey, result string) {
	if m == nil {
		return
	}

	m.acquisitions.WithLabelValues(string(env), result).Inc()
}
