// Package shard runs one deferred query against many databases.
package shard

import (
	"context"
	"fmt"
	"sync"

	"github.com/Konsultn-Engineering/enorm-shards/cache"
	"github.com/Konsultn-Engineering/enorm-shards/database"
	"github.com/Konsultn-Engineering/enorm-shards/dialect"
	"github.com/Konsultn-Engineering/enorm-shards/logging"
	"github.com/Konsultn-Engineering/enorm-shards/metrics"
	"github.com/Konsultn-Engineering/enorm-shards/query"
	"github.com/emirpasic/gods/maps/treemap"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const DefaultConcurrency = 8

type ID string

type Shard struct {
	ID       ID
	Database database.Database
}

// Registry holds the shards a query may run on.
type Registry struct {
	mu     sync.RWMutex
	shards *treemap.Map // string(ID) -> *Shard, ordered by id

	log         *zap.SugaredLogger
	metrics     *metrics.Collector
	parser      *query.Parser
	dialect     dialect.Dialect
	resolver    Resolver
	concurrency int
}

type Option func(*Registry)

func WithLogger(log *zap.SugaredLogger) Option {
	return func(r *Registry) { r.log = log }
}

// WithMetrics records replayed events and shard executions on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(r *Registry) { r.metrics = c }
}

func WithParser(p *query.Parser) Option {
	return func(r *Registry) { r.parser = p }
}

func WithDialect(d dialect.Dialect) Option {
	return func(r *Registry) { r.dialect = d }
}

// WithResolver sets the resolver used by queries that do not set their own.
func WithResolver(res Resolver) Option {
	return func(r *Registry) { r.resolver = res }
}

// WithConcurrency bounds how many shards a query runs on at once. Values
// below one mean no bound.
func WithConcurrency(n int) Option {
	return func(r *Registry) { r.concurrency = n }
}

func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		shards:      treemap.NewWithStringComparator(),
		log:         logging.GetLogger("shard"),
		dialect:     dialect.NewPostgresDialect(),
		resolver:    AllShards,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.parser == nil {
		r.parser = query.NewParser(cache.DefaultSize)
	}
	return r
}

func (r *Registry) Add(id ID, db database.Database) error {
	if id == "" {
		return fmt.Errorf("%w: empty shard id", ErrUnknownShard)
	}
	if db == nil {
		return fmt.Errorf("shard %s: nil database", id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, found := r.shards.Get(string(id)); found {
		return fmt.Errorf("%w: %s", ErrDuplicateShard, id)
	}
	r.shards.Put(string(id), &Shard{ID: id, Database: db})
	r.log.Debugw("shard registered", "shard", string(id))
	return nil
}

func (r *Registry) Get(id ID) (*Shard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	v, found := r.shards.Get(string(id))
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrUnknownShard, id)
	}
	return v.(*Shard), nil
}

// IDs returns every shard id in ascending order.
func (r *Registry) IDs() []ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	keys := r.shards.Keys()
	ids := make([]ID, len(keys))
	for i, k := range keys {
		ids[i] = ID(k.(string))
	}
	return ids
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.shards.Size()
}

func (r *Registry) shardList() []*Shard {
	r.mu.RLock()
	defer r.mu.RUnlock()

	values := r.shards.Values()
	shards := make([]*Shard, len(values))
	for i, v := range values {
		shards[i] = v.(*Shard)
	}
	return shards
}

// Ping checks every shard and returns the failures combined.
func (r *Registry) Ping(ctx context.Context) error {
	var err error
	for _, s := range r.shardList() {
		err = multierr.Append(err, shardError(s.ID, s.Database.PingContext(ctx)))
	}
	return err
}

// Close closes every shard database and removes it from the registry.
func (r *Registry) Close() error {
	shards := r.shardList()

	r.mu.Lock()
	r.shards.Clear()
	r.mu.Unlock()

	var err error
	for _, s := range shards {
		err = multierr.Append(err, shardError(s.ID, s.Database.Close()))
	}
	if err != nil {
		r.log.Warnw("closing shards failed", "error", err)
	}
	return err
}

// Query starts a sharded query for sql. Nothing is parsed or executed until
// the query runs.
func (r *Registry) Query(sql string) *Query {
	return newQuery(r, sql)
}
