package cli

import (
	"testing"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/param"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParam(t *testing.T) {
	id := "6f1c2b7e-3c1a-4f57-9d0e-0f3f1f4f2a11"

	tests := []struct {
		spec  string
		sel   param.Selector
		kind  param.Kind
		value any
	}{
		{"0=decimal:3.14", param.Position(0), param.KindDecimal, param.MustDecimal("3.14")},
		{"rate=numeric:0.05", param.Name("rate"), param.KindDecimal, param.MustDecimal("0.05")},
		{":rate=float:0.5", param.Name("rate"), param.KindFloat, 0.5},
		{"2=int:-7", param.Position(2), param.KindInt, int64(-7)},
		{"owner=uuid:" + id, param.Name("owner"), param.KindUUID, uuid.MustParse(id)},
		{"active=bool:true", param.Name("active"), param.KindBool, true},
		{"day=timestamp:2024-05-01", param.Name("day"), param.KindTime, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{`blob=bytes:\xcafe`, param.Name("blob"), param.KindBytes, []byte{0xca, 0xfe}},
		{"name=ada", param.Name("name"), param.KindString, "ada"},
		{"url=http://x", param.Name("url"), param.KindString, "http://x"},
		{"note=string:a=b:c", param.Name("note"), param.KindString, "a=b:c"},
		{"gone=null", param.Name("gone"), param.KindNull, nil},
		{"empty=", param.Name("empty"), param.KindString, ""},
	}

	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			p, err := parseParam(tt.spec)
			require.NoError(t, err)
			assert.Equal(t, tt.sel, p.selector)
			assert.Equal(t, tt.kind, p.kind)
			assert.Equal(t, tt.value, p.value)
		})
	}
}

func TestParseParamErrors(t *testing.T) {
	for _, spec := range []string{
		"no-equals",
		"=int:1",
		"-1=int:1",
		"bad-name=int:1",
		"1a=int:1",
		"n=int:one",
		"n=uuid:nope",
		"n=decimal:x",
	} {
		t.Run(spec, func(t *testing.T) {
			_, err := parseParam(spec)
			assert.Error(t, err)
		})
	}
}
