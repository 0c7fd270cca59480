// Package metrics exposes Prometheus collectors for submissions, backend
// latency and OTP key synchronization. A nil *Metrics is valid and records
// nothing.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "cipherform"

// Outcome labels for submissions.
const (
	OutcomeOK         = "ok"
	OutcomeEmpty      = "empty"
	OutcomeValidation = "validation"
	OutcomeBackend    = "backend"
	OutcomeTransport  = "transport"
)

// Metrics holds the collectors.
type Metrics struct {
	submissions *prometheus.CounterVec
	superseded  *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	keySyncs    *prometheus.CounterVec
}

// New creates the collectors and registers them with reg. Registering twice
// against the same registry reuses the collectors already there.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Cipher submissions by algorithm, operation and outcome.",
		}, []string{"algorithm", "operation", "outcome"}),
		superseded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "superseded_submissions_total",
			Help:      "Session submissions whose outcome was dropped for a newer one.",
		}, []string{"algorithm", "operation"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "backend_request_duration_seconds",
			Help:      "Latency of cipher backend requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		keySyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "otp_key_syncs_total",
			Help:      "OTP keys resized to follow their message.",
		}, []string{"direction"}),
	}

	var err error
	if m.submissions, err = register(reg, m.submissions); err != nil {
		return nil, err
	}
	if m.superseded, err = register(reg, m.superseded); err != nil {
		return nil, err
	}
	if m.latency, err = register(reg, m.latency); err != nil {
		return nil, err
	}
	if m.keySyncs, err = register(reg, m.keySyncs); err != nil {
		return nil, err
	}
	return m, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// ObserveSubmission counts one submission.
func (m *Metrics) ObserveSubmission(algorithm, operation, outcome string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(algorithm, operation, outcome).Inc()
}

// ObserveSuperseded counts one session submission that lost to a newer one.
// The submission itself was already counted by ObserveSubmission.
func (m *Metrics) ObserveSuperseded(algorithm, operation string) {
	if m == nil {
		return
	}
	m.superseded.WithLabelValues(algorithm, operation).Inc()
}

// ObserveBackend records the duration of one backend request.
func (m *Metrics) ObserveBackend(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.latency.WithLabelValues(operation).Observe(d.Seconds())
}

// ObserveKeySync counts one OTP key resize. direction is "extend" or "truncate".
func (m *Metrics) ObserveKeySync(direction string) {
	if m == nil {
		return
	}
	m.keySyncs.WithLabelValues(direction).Inc()
}
