package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// ValidationMetrics counts validator outcomes.
type ValidationMetrics struct {
	validated        prometheus.Counter
	conflicts        prometheus.Counter
	validationErrors prometheus.Counter
	skipped          prometheus.Counter
}

func NewValidationMetrics() *ValidationMetrics {
	return NewValidationMetricsWith(prometheus.DefaultRegisterer)
}

func NewValidationMetricsWith(registerer prometheus.Registerer) *ValidationMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &ValidationMetrics{
		validated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "reservation_validations_total",
			Help: "Total number of reservations validated without conflict",
		}),
		conflicts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "reservation_conflicts_total",
			Help: "Total number of reservations rejected for conflicting dates",
		}),
		validationErrors: registerCounter(registerer, prometheus.CounterOpts{
			Name: "reservation_validation_errors_total",
			Help: "Total number of validation runs that failed on infrastructure errors",
		}),
		skipped: registerCounter(registerer, prometheus.CounterOpts{
			Name: "reservation_validations_skipped_total",
			Help: "Total number of validation runs skipped because the reservation was already validated",
		}),
	}
}

func (m *ValidationMetrics) Validated() {
	if m != nil {
		m.validated.Inc()
	}
}

func (m *ValidationMetrics) Conflict() {
	if m != nil {
		m.conflicts.Inc()
	}
}

func (m *ValidationMetrics) ValidationError() {
	if m != nil {
		m.validationErrors.Inc()
	}
}

func (m *ValidationMetrics) Skipped() {
	if m != nil {
		m.skipped.Inc()
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	c := prometheus.NewCounter(opts)
	if err := registerer.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return are.ExistingCollector.(prometheus.Counter)
		}
		panic(err)
	}
	return c
}
