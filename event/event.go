// Package event records query configuration as replayable events.
//
// A sharded query does not know which shard-local queries it will run on
// until it executes, so every setter call is captured as a QueryEvent and
// replayed later, in the order it was made, onto each concrete query.
package event

import (
	"fmt"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/param"
	"github.com/Konsultn-Engineering/enorm-shards/query"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// QueryEvent is one deferred configuration call.
type QueryEvent interface {
	// OnEvent applies the call to q. Errors from q are returned unchanged.
	OnEvent(q *query.Query) error
	// Kind names the event for logs and metrics.
	Kind() string
}

// Accessor returns the typed parameter target of a shard-local query.
type Accessor[T any] func(*query.Query) param.Target[T]

// Parameter is a deferred parameter binding.
type Parameter[T any] struct {
	kind    string
	binding param.Binding[T]
	target  Accessor[T]
}

// NewParameter records b for the target returned by accessor.
func NewParameter[T any](kind string, b param.Binding[T], accessor Accessor[T]) Parameter[T] {
	return Parameter[T]{kind: kind, binding: b, target: accessor}
}

func (e Parameter[T]) OnEvent(q *query.Query) error {
	return e.binding.Apply(e.target(q))
}

func (e Parameter[T]) Kind() string { return e.kind }

func (e Parameter[T]) Binding() param.Binding[T] { return e.binding }

func (e Parameter[T]) String() string {
	return e.kind + " " + e.binding.String()
}

func setKind(k param.Kind) string { return "set_" + k.String() }

func SetString(b param.Binding[string]) Parameter[string] {
	return NewParameter(setKind(param.KindString), b, (*query.Query).Strings)
}

func SetInt(b param.Binding[int64]) Parameter[int64] {
	return NewParameter(setKind(param.KindInt), b, (*query.Query).Ints)
}

func SetFloat(b param.Binding[float64]) Parameter[float64] {
	return NewParameter(setKind(param.KindFloat), b, (*query.Query).Floats)
}

func SetDecimal(b param.Binding[pgtype.Numeric]) Parameter[pgtype.Numeric] {
	return NewParameter(setKind(param.KindDecimal), b, (*query.Query).Decimals)
}

func SetBool(b param.Binding[bool]) Parameter[bool] {
	return NewParameter(setKind(param.KindBool), b, (*query.Query).Bools)
}

func SetTime(b param.Binding[time.Time]) Parameter[time.Time] {
	return NewParameter(setKind(param.KindTime), b, (*query.Query).Times)
}

func SetBytes(b param.Binding[[]byte]) Parameter[[]byte] {
	return NewParameter(setKind(param.KindBytes), b, (*query.Query).Bytes)
}

func SetUUID(b param.Binding[uuid.UUID]) Parameter[uuid.UUID] {
	return NewParameter(setKind(param.KindUUID), b, (*query.Query).UUIDs)
}

// SetValue binds a dynamically typed value; its kind is checked on replay.
func SetValue(b param.Binding[any]) Parameter[any] {
	return NewParameter("set_parameter", b, (*query.Query).Values)
}

type maxResults int

// MaxResults replays SetMaxResults.
func MaxResults(n int) QueryEvent { return maxResults(n) }

func (e maxResults) OnEvent(q *query.Query) error { return q.SetMaxResults(int(e)) }
func (e maxResults) Kind() string                 { return "max_results" }
func (e maxResults) String() string               { return fmt.Sprintf("max_results %d", int(e)) }

type firstResult int

// FirstResult replays SetFirstResult.
func FirstResult(n int) QueryEvent { return firstResult(n) }

func (e firstResult) OnEvent(q *query.Query) error { return q.SetFirstResult(int(e)) }
func (e firstResult) Kind() string                 { return "first_result" }
func (e firstResult) String() string               { return fmt.Sprintf("first_result %d", int(e)) }

type timeout time.Duration

// Timeout replays SetTimeout.
func Timeout(d time.Duration) QueryEvent { return timeout(d) }

func (e timeout) OnEvent(q *query.Query) error { return q.SetTimeout(time.Duration(e)) }
func (e timeout) Kind() string                 { return "timeout" }
func (e timeout) String() string               { return "timeout " + time.Duration(e).String() }

type comment string

// Comment replays SetComment.
func Comment(s string) QueryEvent { return comment(s) }

func (e comment) OnEvent(q *query.Query) error {
	q.SetComment(string(e))
	return nil
}
func (e comment) Kind() string   { return "comment" }
func (e comment) String() string { return fmt.Sprintf("comment %q", string(e)) }
