package shard

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/event"
	"github.com/Konsultn-Engineering/enorm-shards/param"
	"github.com/Konsultn-Engineering/enorm-shards/query"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/oklog/ulid/v2"
	"golang.org/x/sync/errgroup"
)

// Query is a query configured once and run on many shards. Setters do not
// touch any database; they record events that are replayed, in order, onto
// the shard-local query of every shard the query resolves to. Errors from
// those events surface when the query runs.
//
// A Query is not safe for concurrent configuration.
type Query struct {
	registry *Registry
	id       ulid.ULID
	sql      string
	resolver Resolver
	events   event.Log

	maxResults int // -1 when unset
}

func newQuery(r *Registry, sql string) *Query {
	return &Query{
		registry:   r,
		id:         ulid.Make(),
		sql:        sql,
		maxResults: -1,
	}
}

// ID identifies the query in logs.
func (q *Query) ID() ulid.ULID { return q.id }

func (q *Query) SQL() string { return q.sql }

// Events returns the recorded events in order.
func (q *Query) Events() []event.QueryEvent { return q.events.Events() }

// WithResolver overrides the registry resolver for this query.
func (q *Query) WithResolver(r Resolver) *Query {
	q.resolver = r
	return q
}

// Record appends a custom event.
func (q *Query) Record(e event.QueryEvent) *Query {
	q.events.Record(e)
	return q
}

func (q *Query) SetString(position int, v string) *Query {
	return q.Record(event.SetString(param.At(position, v)))
}

func (q *Query) SetStringByName(name string, v string) *Query {
	return q.Record(event.SetString(param.Named(name, v)))
}

func (q *Query) SetInt(position int, v int64) *Query {
	return q.Record(event.SetInt(param.At(position, v)))
}

func (q *Query) SetIntByName(name string, v int64) *Query {
	return q.Record(event.SetInt(param.Named(name, v)))
}

func (q *Query) SetFloat(position int, v float64) *Query {
	return q.Record(event.SetFloat(param.At(position, v)))
}

func (q *Query) SetFloatByName(name string, v float64) *Query {
	return q.Record(event.SetFloat(param.Named(name, v)))
}

func (q *Query) SetDecimal(position int, v pgtype.Numeric) *Query {
	return q.Record(event.SetDecimal(param.At(position, v)))
}

func (q *Query) SetDecimalByName(name string, v pgtype.Numeric) *Query {
	return q.Record(event.SetDecimal(param.Named(name, v)))
}

func (q *Query) SetBool(position int, v bool) *Query {
	return q.Record(event.SetBool(param.At(position, v)))
}

func (q *Query) SetBoolByName(name string, v bool) *Query {
	return q.Record(event.SetBool(param.Named(name, v)))
}

func (q *Query) SetTime(position int, v time.Time) *Query {
	return q.Record(event.SetTime(param.At(position, v)))
}

func (q *Query) SetTimeByName(name string, v time.Time) *Query {
	return q.Record(event.SetTime(param.Named(name, v)))
}

func (q *Query) SetBytes(position int, v []byte) *Query {
	return q.Record(event.SetBytes(param.At(position, v)))
}

func (q *Query) SetBytesByName(name string, v []byte) *Query {
	return q.Record(event.SetBytes(param.Named(name, v)))
}

func (q *Query) SetUUID(position int, v uuid.UUID) *Query {
	return q.Record(event.SetUUID(param.At(position, v)))
}

func (q *Query) SetUUIDByName(name string, v uuid.UUID) *Query {
	return q.Record(event.SetUUID(param.Named(name, v)))
}

// SetParameter binds a value of any supported type.
func (q *Query) SetParameter(position int, v any) *Query {
	return q.Record(event.SetValue(param.At(position, v)))
}

func (q *Query) SetParameterByName(name string, v any) *Query {
	return q.Record(event.SetValue(param.Named(name, v)))
}

// SetMaxResults limits the rows fetched from each shard and the combined
// result.
func (q *Query) SetMaxResults(n int) *Query {
	if n >= 0 {
		q.maxResults = n
	}
	return q.Record(event.MaxResults(n))
}

// SetFirstResult skips rows on each shard.
func (q *Query) SetFirstResult(n int) *Query {
	return q.Record(event.FirstResult(n))
}

func (q *Query) SetTimeout(d time.Duration) *Query {
	return q.Record(event.Timeout(d))
}

func (q *Query) SetComment(comment string) *Query {
	return q.Record(event.Comment(comment))
}

// ShardQuery is the shard-local query built for one shard.
type ShardQuery struct {
	Shard *Shard
	Query *query.Query
}

func (q *Query) resolve(ctx context.Context) ([]ID, error) {
	res := q.resolver
	if res == nil {
		res = q.registry.resolver
	}
	ids, err := res.Resolve(ctx, q)
	if err != nil {
		return nil, err
	}

	ids = slices.Clone(ids)
	slices.Sort(ids)
	ids = slices.Compact(ids)
	if len(ids) == 0 {
		return nil, ErrNoShards
	}
	return ids, nil
}

// Prepare resolves the shards and builds a shard-local query for each one
// by replaying the recorded events onto it.
func (q *Query) Prepare(ctx context.Context) ([]ShardQuery, error) {
	ids, err := q.resolve(ctx)
	if err != nil {
		return nil, err
	}

	stmt, err := q.registry.parser.Parse(q.sql)
	if err != nil {
		return nil, err
	}

	prepared := make([]ShardQuery, 0, len(ids))
	for _, id := range ids {
		s, err := q.registry.Get(id)
		if err != nil {
			return nil, err
		}

		local := query.New(stmt, q.registry.dialect)
		if err := q.events.Replay(local, q.observeEvent); err != nil {
			return nil, shardError(id, err)
		}
		prepared = append(prepared, ShardQuery{Shard: s, Query: local})
	}

	q.registry.log.Debugw("query prepared",
		"query", q.id.String(),
		"shards", ids,
		"events", q.events.Len(),
	)
	return prepared, nil
}

func (q *Query) observeEvent(e event.QueryEvent) {
	q.registry.metrics.EventReplayed(e.Kind())
}

// fanOut runs fn on every prepared shard query, at most
// registry.concurrency at a time.
func (q *Query) fanOut(ctx context.Context, op string, prepared []ShardQuery, fn func(ctx context.Context, i int, sq ShardQuery) error) error {
	g, gctx := errgroup.WithContext(ctx)
	if n := q.registry.concurrency; n > 0 {
		g.SetLimit(n)
	}

	for i, sq := range prepared {
		g.Go(func() error {
			start := time.Now()
			err := fn(gctx, i, sq)
			q.registry.metrics.ObserveShard(string(sq.Shard.ID), op, time.Since(start), err)
			if err != nil {
				q.registry.log.Warnw("shard query failed",
					"query", q.id.String(),
					"shard", string(sq.Shard.ID),
					"op", op,
					"error", err,
				)
				return shardError(sq.Shard.ID, err)
			}
			return nil
		})
	}
	return g.Wait()
}

// List runs the query on every resolved shard and returns the rows of all
// shards, in shard id order, capped to MaxResults when it is set.
func (q *Query) List(ctx context.Context) ([]query.Row, error) {
	prepared, err := q.Prepare(ctx)
	if err != nil {
		return nil, err
	}

	results := make([][]query.Row, len(prepared))
	err = q.fanOut(ctx, "list", prepared, func(ctx context.Context, i int, sq ShardQuery) error {
		rows, err := sq.Query.List(ctx, sq.Shard.Database)
		results[i] = rows
		return err
	})
	if err != nil {
		return nil, err
	}

	var rows []query.Row
	for _, r := range results {
		rows = append(rows, r...)
	}
	if q.maxResults >= 0 && len(rows) > q.maxResults {
		rows = rows[:q.maxResults]
	}
	return rows, nil
}

// Exec runs the statement on every resolved shard and returns the total
// number of affected rows.
func (q *Query) Exec(ctx context.Context) (int64, error) {
	prepared, err := q.Prepare(ctx)
	if err != nil {
		return 0, err
	}

	counts := make([]int64, len(prepared))
	err = q.fanOut(ctx, "exec", prepared, func(ctx context.Context, i int, sq ShardQuery) error {
		n, err := sq.Query.Exec(ctx, sq.Shard.Database)
		counts[i] = n
		return err
	})
	if err != nil {
		return 0, err
	}

	var total int64
	for _, n := range counts {
		total += n
	}
	return total, nil
}

// UniqueResult returns the single row the query yields, or nil when it
// yields none.
func (q *Query) UniqueResult(ctx context.Context) (query.Row, error) {
	rows, err := q.List(ctx)
	if err != nil {
		return nil, err
	}
	switch len(rows) {
	case 0:
		return nil, nil
	case 1:
		return rows[0], nil
	}
	return nil, fmt.Errorf("%w: got %d", ErrNonUniqueResult, len(rows))
}

// Plan is what a query would send to one shard.
type Plan struct {
	Shard        ID     `json:"shard" yaml:"shard"`
	SQL          string `json:"sql" yaml:"sql"`
	Args         []any  `json:"args" yaml:"args"`
	Interpolated string `json:"interpolated" yaml:"interpolated"`
}

// Explain prepares the query and returns the per-shard statements without
// executing them.
func (q *Query) Explain(ctx context.Context) ([]Plan, error) {
	prepared, err := q.Prepare(ctx)
	if err != nil {
		return nil, err
	}

	plans := make([]Plan, 0, len(prepared))
	for _, sq := range prepared {
		sql, args, err := sq.Query.Render()
		if err != nil {
			return nil, shardError(sq.Shard.ID, err)
		}
		plans = append(plans, Plan{
			Shard:        sq.Shard.ID,
			SQL:          sql,
			Args:         args,
			Interpolated: sq.Query.Interpolate(),
		})
	}
	return plans, nil
}
