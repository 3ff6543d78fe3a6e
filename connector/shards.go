package connector

import (
	"context"

	"github.com/Konsultn-Engineering/enorm-shards/query"
	"github.com/Konsultn-Engineering/enorm-shards/shard"
	"golang.org/x/sync/errgroup"
)

// Cluster is a shard registry backed by connected PostgreSQL pools.
type Cluster struct {
	*shard.Registry
	connectors map[shard.ID]*PostgresConnector
}

// OpenShards connects every configured shard in parallel and registers it.
// If any shard fails to connect, the ones already open are closed.
func OpenShards(ctx context.Context, cfg *ShardsConfig, opts ...shard.Option) (*Cluster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var defaults []shard.Option
	if cfg.Concurrency > 0 {
		defaults = append(defaults, shard.WithConcurrency(cfg.Concurrency))
	}
	if cfg.StatementCache > 0 {
		defaults = append(defaults, shard.WithParser(query.NewParser(cfg.StatementCache)))
	}

	c := &Cluster{
		Registry:   shard.NewRegistry(append(defaults, opts...)...),
		connectors: make(map[shard.ID]*PostgresConnector, len(cfg.Shards)),
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, sc := range cfg.Shards {
		conn := NewPostgresConnector(sc.Config)
		id := shard.ID(sc.ID)

		c.connectors[id] = conn

		g.Go(func() error {
			if err := conn.Connect(gctx); err != nil {
				return &shard.ShardError{Shard: id, Err: err}
			}
			db, err := conn.Database()
			if err != nil {
				return &shard.ShardError{Shard: id, Err: err}
			}
			return c.Add(id, db)
		})
	}

	if err := g.Wait(); err != nil {
		for _, conn := range c.connectors {
			_ = conn.Close()
		}
		return nil, err
	}
	return c, nil
}

// Stats returns pool statistics per shard.
func (c *Cluster) Stats() map[shard.ID]ConnectionStats {
	stats := make(map[shard.ID]ConnectionStats, len(c.connectors))
	for id, conn := range c.connectors {
		stats[id] = conn.Stats()
	}
	return stats
}
