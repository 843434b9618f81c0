// Package metrics instruments form submissions with Prometheus collectors.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Submission outcomes recorded by dispatchers.
const (
	OutcomeSuccess  = "success"
	OutcomeInvalid  = "invalid"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
	OutcomeCanceled = "canceled"
)

// Recorder receives one observation per submission attempt.
type Recorder interface {
	ObserveSubmission(entity, mode, outcome string, elapsed time.Duration)
}

// Nop discards observations.
type Nop struct{}

// ObserveSubmission implements Recorder.
func (Nop) ObserveSubmission(string, string, string, time.Duration) {}

// Prometheus records submissions into a counter and a latency histogram.
type Prometheus struct {
	submissions *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// NewPrometheus creates the collectors and registers them with reg. Passing a
// nil registerer skips registration, which is convenient in tests.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "entityform",
			Name:      "submissions_total",
			Help:      "Form submissions by entity, dispatch mode and outcome.",
		}, []string{"entity", "mode", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "entityform",
			Name:      "submission_duration_seconds",
			Help:      "Time spent waiting on create/update mutations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"entity", "mode"}),
	}
	if reg == nil {
		return p, nil
	}
	for _, collector := range []prometheus.Collector{p.submissions, p.latency} {
		if err := reg.Register(collector); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				switch existing := already.ExistingCollector.(type) {
				case *prometheus.CounterVec:
					p.submissions = existing
				case *prometheus.HistogramVec:
					p.latency = existing
				}
				continue
			}
			return nil, err
		}
	}
	return p, nil
}

// ObserveSubmission implements Recorder.
func (p *Prometheus) ObserveSubmission(entity, mode, outcome string, elapsed time.Duration) {
	if p == nil {
		return
	}
	p.submissions.WithLabelValues(entity, mode, outcome).Inc()
	p.latency.WithLabelValues(entity, mode).Observe(elapsed.Seconds())
}

// Collectors exposes the underlying collectors for custom registries.
func (p *Prometheus) Collectors() []prometheus.Collector {
	return []prometheus.Collector{p.submissions, p.latency}
}
