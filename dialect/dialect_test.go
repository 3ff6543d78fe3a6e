package dialect

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numeric(t *testing.T, s string) pgtype.Numeric {
	t.Helper()
	var n pgtype.Numeric
	require.NoError(t, n.Scan(s))
	return n
}

func TestPlaceholder(t *testing.T) {
	assert.Equal(t, "$1", NewPostgresDialect().Placeholder(1))
	assert.Equal(t, "$12", NewPostgresDialect().Placeholder(12))
	assert.Equal(t, "?", NewMySQLDialect().Placeholder(3))
}

func TestRenderValue(t *testing.T) {
	ts := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	id := uuid.MustParse("6f1c2b7e-3c1a-4f57-9d0e-0f3f1f4f2a11")

	tests := []struct {
		name     string
		value    any
		postgres string
		mysql    string
	}{
		{"nil", nil, "NULL", "NULL"},
		{"string", "O'Brien", "'O''Brien'", "'O''Brien'"},
		{"bool", true, "TRUE", "TRUE"},
		{"int", int64(-7), "-7", "-7"},
		{"float", 2.5, "2.5", "2.5"},
		{"bytes", []byte{0xca, 0xfe}, `'\xcafe'::bytea`, "X'cafe'"},
		{"time", ts, "'2024-05-01 12:30:00Z'", "'2024-05-01 12:30:00.000000'"},
		{"uuid", id, "'" + id.String() + "'", "'" + id.String() + "'"},
		{"decimal", numeric(t, "3.14"), "3.14", "3.14"},
		{"small decimal", numeric(t, "0.05"), "0.05", "0.05"},
		{"negative decimal", numeric(t, "-0.5"), "-0.5", "-0.5"},
		{"integral decimal", numeric(t, "-12"), "-12", "-12"},
		{"decimal nan", numeric(t, "NaN"), "'NaN'", "'NaN'"},
		{"null decimal", pgtype.Numeric{}, "NULL", "NULL"},
	}

	pg := NewPostgresDialect()
	my := NewMySQLDialect()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.postgres, pg.RenderValue(tt.value))
			assert.Equal(t, tt.mysql, my.RenderValue(tt.value))
		})
	}
}

func TestByName(t *testing.T) {
	d, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.Name())

	d, err = ByName("mysql")
	require.NoError(t, err)
	assert.Equal(t, "mysql", d.Name())

	_, err = ByName("oracle")
	assert.Error(t, err)
}
