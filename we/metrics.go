package we

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	outcomeAccepted = "accepted"
	outcomeRejected = "rejected"
	outcomeFailed   = "failed"
)

// Metrics counts dispatched commands by name and outcome. A nil *Metrics
// records nothing.
type Metrics struct {
	dispatched *prometheus.CounterVec
}

func NewMetrics(r prometheus.Registerer) (*Metrics, error) {
	dispatched := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "we",
			Name:      "commands_dispatched_total",
			Help:      "number of commands dispatched, by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	if err := r.Register(dispatched); err != nil {
		return nil, err
	}

	return &Metrics{dispatched: dispatched}, nil
}

func (m *Metrics) observe(command CommandName, err error) {
	if m == nil {
		return
	}

	m.dispatched.WithLabelValues(command.String(), outcome(err)).Inc()
}

func outcome(err error) string {
	if err == nil {
		return outcomeAccepted
	}

	var rejection Rejection
	if errors.As(err, &rejection) {
		return outcomeRejected
	}

	return outcomeFailed
}
