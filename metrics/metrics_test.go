package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.EventReplayed("set_decimal")
	c.EventReplayed("set_decimal")
	c.EventReplayed("max_results")
	c.ObserveShard("a", "list", 20*time.Millisecond, nil)
	c.ObserveShard("a", "list", time.Millisecond, errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(c.eventsReplayed.WithLabelValues("set_decimal")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.eventsReplayed.WithLabelValues("max_results")))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.shardQueries.WithLabelValues("a", "list", StatusOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(c.shardQueries.WithLabelValues("a", "list", StatusError)))
	assert.Equal(t, 1, testutil.CollectAndCount(c.shardLatency))
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	MustNew(reg)

	_, err := New(reg)
	assert.Error(t, err)
	assert.Panics(t, func() { MustNew(reg) })
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.EventReplayed("comment")
		c.ObserveShard("a", "exec", time.Second, nil)
	})
}

func TestUnregistered(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	c.EventReplayed("timeout")
	assert.Equal(t, float64(1), testutil.ToFloat64(c.eventsReplayed.WithLabelValues("timeout")))
}
