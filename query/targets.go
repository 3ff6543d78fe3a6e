package query

import (
	"fmt"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/param"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// typedTarget exposes the Query as a param.Target for one value type.
type typedTarget[T any] struct {
	q    *Query
	kind param.Kind
}

func (t typedTarget[T]) SetByPosition(index int, value T) error {
	return t.q.setPositional(index, t.kind, value)
}

func (t typedTarget[T]) SetByName(name string, value T) error {
	return t.q.setNamed(name, t.kind, value)
}

func (q *Query) Strings() param.Target[string] {
	return typedTarget[string]{q: q, kind: param.KindString}
}

func (q *Query) Ints() param.Target[int64] {
	return typedTarget[int64]{q: q, kind: param.KindInt}
}

func (q *Query) Floats() param.Target[float64] {
	return typedTarget[float64]{q: q, kind: param.KindFloat}
}

func (q *Query) Decimals() param.Target[pgtype.Numeric] {
	return typedTarget[pgtype.Numeric]{q: q, kind: param.KindDecimal}
}

func (q *Query) Bools() param.Target[bool] {
	return typedTarget[bool]{q: q, kind: param.KindBool}
}

func (q *Query) Times() param.Target[time.Time] {
	return typedTarget[time.Time]{q: q, kind: param.KindTime}
}

func (q *Query) Bytes() param.Target[[]byte] {
	return typedTarget[[]byte]{q: q, kind: param.KindBytes}
}

func (q *Query) UUIDs() param.Target[uuid.UUID] {
	return typedTarget[uuid.UUID]{q: q, kind: param.KindUUID}
}

// valueTarget accepts dynamically typed values and derives their kind.
type valueTarget struct {
	q *Query
}

func kindOf(value any) (param.Kind, error) {
	kind, ok := param.KindOf(value)
	if !ok {
		return 0, fmt.Errorf("%w: unsupported type %T", ErrTypeMismatch, value)
	}
	return kind, nil
}

func (t valueTarget) SetByPosition(index int, value any) error {
	kind, err := kindOf(value)
	if err != nil {
		return err
	}
	return t.q.setPositional(index, kind, value)
}

func (t valueTarget) SetByName(name string, value any) error {
	kind, err := kindOf(value)
	if err != nil {
		return err
	}
	return t.q.setNamed(name, kind, value)
}

// Values accepts any value with a param.Kind.
func (q *Query) Values() param.Target[any] {
	return valueTarget{q: q}
}
