package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList(t *testing.T) {
	db := testkit.NewFakeDatabase([]string{"id", "name"},
		[]any{int64(1), "ada"},
		[]any{int64(2), []byte("grace")},
	)
	q := mustQuery(t, "SELECT id, name FROM users WHERE team = :team", nil)
	require.NoError(t, q.Strings().SetByName("team", "core"))
	require.NoError(t, q.SetMaxResults(10))

	rows, err := q.List(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, []Row{
		{"id": int64(1), "name": "ada"},
		{"id": int64(2), "name": []byte("grace")},
	}, rows)

	calls := db.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "SELECT id, name FROM users WHERE team = $1 LIMIT 10", calls[0].Query)
	assert.Equal(t, []any{"core"}, calls[0].Args)
}

func TestListEmpty(t *testing.T) {
	db := testkit.NewFakeDatabase([]string{"id"})
	q := mustQuery(t, "SELECT id FROM users", nil)

	rows, err := q.List(context.Background(), db)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestExec(t *testing.T) {
	db := testkit.NewFakeDatabase(nil)
	db.Affected = 4
	q := mustQuery(t, "DELETE FROM sessions WHERE expires < $1", nil)
	require.NoError(t, q.Times().SetByPosition(0, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))

	n, err := q.Exec(context.Background(), db)
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)
}

func TestExecUnboundDoesNotReachDatabase(t *testing.T) {
	db := testkit.NewFakeDatabase(nil)
	q := mustQuery(t, "DELETE FROM sessions WHERE id = $1", nil)

	_, err := q.Exec(context.Background(), db)
	assert.ErrorIs(t, err, ErrUnboundParameter)

	_, err = q.List(context.Background(), db)
	assert.ErrorIs(t, err, ErrUnboundParameter)

	assert.Empty(t, db.Calls())
}

func TestDatabaseErrorPropagates(t *testing.T) {
	boom := errors.New("connection reset")
	db := testkit.NewFakeDatabase(nil)
	db.Err = boom
	q := mustQuery(t, "SELECT 1", nil)

	_, err := q.List(context.Background(), db)
	assert.Same(t, boom, err)

	_, err = q.Exec(context.Background(), db)
	assert.Same(t, boom, err)
}

func TestTimeout(t *testing.T) {
	db := testkit.NewFakeDatabase([]string{"n"}, []any{1})
	db.Delay = time.Second
	q := mustQuery(t, "SELECT pg_sleep(1)", nil)
	require.NoError(t, q.SetTimeout(10*time.Millisecond))

	start := time.Now()
	_, err := q.List(context.Background(), db)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}
