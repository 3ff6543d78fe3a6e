// Package testkit holds test doubles shared by the package tests.
package testkit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/database"
)

// Call is one statement received by a FakeDatabase.
type Call struct {
	Query string
	Args  []any
}

// FakeDatabase is an in-memory database.Database that records every
// statement and answers with canned rows.
type FakeDatabase struct {
	mu sync.Mutex

	Columns  []string
	Rows     [][]any
	Affected int64

	// Err is returned by QueryContext and ExecContext when set.
	Err     error
	PingErr error
	// Delay holds each call until it elapses or the context is done.
	Delay time.Duration

	calls  []Call
	closed bool
}

func NewFakeDatabase(columns []string, rows ...[]any) *FakeDatabase {
	return &FakeDatabase{Columns: columns, Rows: rows}
}

func (f *FakeDatabase) record(ctx context.Context, query string, args []any) error {
	f.mu.Lock()
	f.calls = append(f.calls, Call{Query: query, Args: append([]any(nil), args...)})
	closed, err, delay := f.closed, f.Err, f.Delay
	f.mu.Unlock()

	if closed {
		return fmt.Errorf("database is closed")
	}
	if delay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return err
}

func (f *FakeDatabase) QueryContext(ctx context.Context, query string, args ...any) (database.Rows, error) {
	if err := f.record(ctx, query, args); err != nil {
		return nil, err
	}
	return &FakeRows{columns: f.Columns, rows: f.Rows, index: -1}, nil
}

func (f *FakeDatabase) ExecContext(ctx context.Context, query string, args ...any) (database.Result, error) {
	if err := f.record(ctx, query, args); err != nil {
		return nil, err
	}
	return FakeResult(f.Affected), nil
}

func (f *FakeDatabase) PingContext(context.Context) error {
	return f.PingErr
}

func (f *FakeDatabase) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Calls returns a copy of the statements received so far.
func (f *FakeDatabase) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

func (f *FakeDatabase) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// FakeRows iterates canned rows.
type FakeRows struct {
	columns []string
	rows    [][]any
	index   int
	closed  bool
}

func (r *FakeRows) Next() bool {
	if r.closed || r.index+1 >= len(r.rows) {
		return false
	}
	r.index++
	return true
}

func (r *FakeRows) Scan(dest ...any) error {
	row := r.rows[r.index]
	if len(dest) != len(row) {
		return fmt.Errorf("scan: expected %d destinations, got %d", len(row), len(dest))
	}
	for i, d := range dest {
		p, ok := d.(*any)
		if !ok {
			return fmt.Errorf("scan: unsupported destination %T", d)
		}
		*p = row[i]
	}
	return nil
}

func (r *FakeRows) Close() error { r.closed = true; return nil }

func (r *FakeRows) Columns() ([]string, error) { return r.columns, nil }

func (r *FakeRows) Err() error { return nil }

// FakeResult is a database.Result with a fixed affected row count.
type FakeResult int64

func (r FakeResult) RowsAffected() (int64, error) { return int64(r), nil }

var _ database.Database = (*FakeDatabase)(nil)
