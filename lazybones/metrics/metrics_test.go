package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Counts(t *testing.T) {
	c := NewCollector("lazybones")
	c.ObserveTransition("create")
	c.ObserveTransition("create")
	c.ObserveCallback("destroy")
	c.JobStarted(KindRepeating)
	c.JobStarted(KindOnce)
	c.JobFinished()
	c.JobCancelled(KindRepeating)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.transitions.WithLabelValues("create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.callbacks.WithLabelValues("destroy")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobsLaunched.WithLabelValues(KindRepeating)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.jobsCancelled.WithLabelValues(KindRepeating)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.activeJobs))
}

func TestCollector_Register(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	c := NewCollector("lazybones")
	require.NoError(t, reg.Register(c))
	c.ObserveTransition("start")

	n, err := testutil.GatherAndCount(reg, "lazybones_lifecycle_transitions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector
	c.ObserveTransition("create")
	c.ObserveCallback("create")
	c.JobStarted(KindOnce)
	c.JobFinished()
	c.JobCancelled(KindOnce)
}
