package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	// Namespace is the namespace all wallet metrics are defined under.
	Namespace = "wallet"

	ResultSuccess = "success"
	ResultFailure = "failure"
)

// NewCounter creates a Counter metrics under the global namespace.
func NewCounter(name, subsystem, help string, labels []string) *prometheus.CounterVec {
	return promauto.NewCounterVec(prometheus.CounterOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

// NewGauge creates a Gauge metrics under the global namespace.
func NewGauge(name, subsystem, help string, labels []string) *prometheus.GaugeVec {
	return promauto.NewGaugeVec(prometheus.GaugeOpts{Namespace: Namespace, Subsystem: subsystem, Name: name, Help: help}, labels)
}

var (
	// LoginAttempts counts encrypted-key logins by result.
	LoginAttempts = NewCounter("attempts_total", "login", "Number of encrypted-key logins", []string{"result"})
	// FlowEvents counts send flow transitions by event.
	FlowEvents = NewCounter("events_total", "send_flow", "Number of send flow events", []string{"event"})
	// Submissions counts transaction submissions by result.
	Submissions = NewCounter("submissions_total", "send_flow", "Number of transaction submissions", []string{"result"})
	// OpenFlows is the number of send flows currently open.
	OpenFlows = NewGauge("open", "send_flow", "Number of open send flows", nil)
)

// ResultLabel maps an error to a result label.
func ResultLabel(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
