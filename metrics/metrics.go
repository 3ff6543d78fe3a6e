// Package metrics exposes shard query counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "enorm_shards"

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Collector records shard activity. A nil *Collector records nothing.
type Collector struct {
	eventsReplayed *prometheus.CounterVec
	shardQueries   *prometheus.CounterVec
	shardLatency   *prometheus.HistogramVec
}

// New creates a Collector and registers it on reg when reg is not nil.
func New(reg prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		eventsReplayed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_replayed_total",
			Help:      "Query events replayed onto shard-local queries.",
		}, []string{"kind"}),
		shardQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shard_queries_total",
			Help:      "Statements executed per shard.",
		}, []string{"shard", "op", "status"}),
		shardLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shard_query_duration_seconds",
			Help:      "Statement latency per shard.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"shard", "op"}),
	}

	if reg != nil {
		for _, col := range []prometheus.Collector{c.eventsReplayed, c.shardQueries, c.shardLatency} {
			if err := reg.Register(col); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// MustNew is New that panics on registration errors.
func MustNew(reg prometheus.Registerer) *Collector {
	c, err := New(reg)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Collector) EventReplayed(kind string) {
	if c == nil {
		return
	}
	c.eventsReplayed.WithLabelValues(kind).Inc()
}

// ObserveShard counts one statement on shard and records how long it took.
func (c *Collector) ObserveShard(shard, op string, took time.Duration, err error) {
	if c == nil {
		return
	}
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	c.shardQueries.WithLabelValues(shard, op, status).Inc()
	c.shardLatency.WithLabelValues(shard, op).Observe(took.Seconds())
}
