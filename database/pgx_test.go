package database

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPgxResultRowsAffected(t *testing.T) {
	r := &PgxResult{cmdTag: pgconn.NewCommandTag("UPDATE 3")}
	n, err := r.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
