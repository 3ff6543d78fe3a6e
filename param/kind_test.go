package param

import (
	"math/big"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		value any
		kind  Kind
		ok    bool
	}{
		{nil, KindNull, true},
		{"a", KindString, true},
		{42, KindInt, true},
		{int64(42), KindInt, true},
		{uint16(7), KindInt, true},
		{1.5, KindFloat, true},
		{float32(1.5), KindFloat, true},
		{MustDecimal("1.25"), KindDecimal, true},
		{true, KindBool, true},
		{time.Unix(0, 0), KindTime, true},
		{[]byte{1}, KindBytes, true},
		{uuid.Nil, KindUUID, true},
		{struct{}{}, 0, false},
		{[]string{"a"}, 0, false},
	}

	for _, tt := range tests {
		kind, ok := KindOf(tt.value)
		assert.Equal(t, tt.ok, ok, "%T", tt.value)
		if tt.ok {
			assert.Equal(t, tt.kind, kind, "%T", tt.value)
		}
	}
}

func TestParseKind(t *testing.T) {
	for k := KindNull; k <= KindUUID; k++ {
		parsed, err := ParseKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	k, err := ParseKind(" Numeric ")
	require.NoError(t, err)
	assert.Equal(t, KindDecimal, k)

	_, err = ParseKind("money")
	assert.ErrorIs(t, err, ErrUnknownKind)

	assert.Equal(t, "kind(200)", Kind(200).String())
}

func TestParseValue(t *testing.T) {
	id := uuid.MustParse("6f1c2b7e-3c1a-4f57-9d0e-0f3f1f4f2a11")

	tests := []struct {
		kind Kind
		text string
		want any
	}{
		{KindString, "bob", "bob"},
		{KindInt, "-12", int64(-12)},
		{KindFloat, "0.5", 0.5},
		{KindBool, "true", true},
		{KindTime, "2024-03-01T10:00:00Z", time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)},
		{KindTime, "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{KindBytes, `\xdead`, []byte{0xde, 0xad}},
		{KindUUID, id.String(), id},
		{KindNull, "ignored", nil},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String()+"/"+tt.text, func(t *testing.T) {
			got, err := ParseValue(tt.kind, tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseValue(KindInt, "x")
	assert.Error(t, err)
}

func TestParseDecimal(t *testing.T) {
	n, err := ParseDecimal("3.14")
	require.NoError(t, err)
	assert.True(t, n.Valid)
	assert.Equal(t, 0, n.Int.Cmp(big.NewInt(314)))
	assert.Equal(t, int32(-2), n.Exp)

	n, err = ParseDecimal("NaN")
	require.NoError(t, err)
	assert.True(t, n.NaN)

	_, err = ParseDecimal("three")
	assert.Error(t, err)

	assert.Panics(t, func() { MustDecimal("1.2.3") })

	v, err := ParseValue(KindDecimal, "0.05")
	require.NoError(t, err)
	assert.IsType(t, pgtype.Numeric{}, v)
}

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"3.14", "3.14"},
		{"0.05", "0.05"},
		{"-0.5", "-0.5"},
		{"-12", "-12"},
		{"100.00", "100.00"},
	}
	for _, tt := range tests {
		got, ok := FormatDecimal(MustDecimal(tt.in))
		assert.True(t, ok, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, ok := FormatDecimal(MustDecimal("NaN"))
	assert.False(t, ok)
	_, ok = FormatDecimal(pgtype.Numeric{})
	assert.False(t, ok)
}
