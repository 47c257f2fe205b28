// Package metrics exposes prometheus instrumentation for lifecycle dispatch
// and lifecycle-scoped jobs. A nil *Collector is valid and records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	KindOnce      = "once"
	KindRepeating = "repeating"
)

type Collector struct {
	transitions   *prometheus.CounterVec
	callbacks     *prometheus.CounterVec
	jobsLaunched  *prometheus.CounterVec
	jobsCancelled *prometheus.CounterVec
	activeJobs    prometheus.Gauge
}

func NewCollector(namespace string) *Collector {
	return &Collector{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_transitions_total",
			Help:      "Lifecycle transitions dispatched, by event.",
		}, []string{"event"}),
		callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lifecycle_callbacks_total",
			Help:      "Property callbacks invoked, by event.",
		}, []string{"event"}),
		jobsLaunched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_launched_total",
			Help:      "Lifecycle-scoped job bodies started, by kind.",
		}, []string{"kind"}),
		jobsCancelled: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_cancelled_total",
			Help:      "Lifecycle-scoped job bodies cancelled by a lifecycle exit, by kind.",
		}, []string{"kind"}),
		activeJobs: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "jobs_active",
			Help:      "Lifecycle-scoped job bodies currently running.",
		}),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.transitions.Describe(ch)
	c.callbacks.Describe(ch)
	c.jobsLaunched.Describe(ch)
	c.jobsCancelled.Describe(ch)
	c.activeJobs.Describe(ch)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.transitions.Collect(ch)
	c.callbacks.Collect(ch)
	c.jobsLaunched.Collect(ch)
	c.jobsCancelled.Collect(ch)
	c.activeJobs.Collect(ch)
}

func (c *Collector) ObserveTransition(event string) {
	if c == nil {
		return
	}
	c.transitions.WithLabelValues(event).Inc()
}

func (c *Collector) ObserveCallback(event string) {
	if c == nil {
		return
	}
	c.callbacks.WithLabelValues(event).Inc()
}

// JobStarted is paired with JobFinished by the launcher.
func (c *Collector) JobStarted(kind string) {
	if c == nil {
		return
	}
	c.jobsLaunched.WithLabelValues(kind).Inc()
	c.activeJobs.Inc()
}

func (c *Collector) JobFinished() {
	if c == nil {
		return
	}
	c.activeJobs.Dec()
}

func (c *Collector) JobCancelled(kind string) {
	if c == nil {
		return
	}
	c.jobsCancelled.WithLabelValues(kind).Inc()
}
