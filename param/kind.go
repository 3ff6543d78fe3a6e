package param

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

var ErrUnknownKind = errors.New("unknown parameter kind")

// Kind classifies the Go value bound to a parameter.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindInt
	KindFloat
	KindDecimal
	KindBool
	KindTime
	KindBytes
	KindUUID
)

var kindNames = [...]string{
	KindNull:    "null",
	KindString:  "string",
	KindInt:     "int",
	KindFloat:   "float",
	KindDecimal: "decimal",
	KindBool:    "bool",
	KindTime:    "timestamp",
	KindBytes:   "bytes",
	KindUUID:    "uuid",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// ParseKind maps a kind name, as printed by Kind.String, back to the Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for k, name := range kindNames {
		if name == s {
			return Kind(k), nil
		}
	}
	switch s {
	case "text":
		return KindString, nil
	case "integer", "int64":
		return KindInt, nil
	case "float64", "double":
		return KindFloat, nil
	case "numeric":
		return KindDecimal, nil
	case "time":
		return KindTime, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// KindOf reports the Kind of a dynamically typed value. The second result is
// false for Go types that cannot be bound.
func KindOf(v any) (Kind, bool) {
	switch v.(type) {
	case nil:
		return KindNull, true
	case string:
		return KindString, true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return KindInt, true
	case float32, float64:
		return KindFloat, true
	case pgtype.Numeric:
		return KindDecimal, true
	case bool:
		return KindBool, true
	case time.Time:
		return KindTime, true
	case []byte:
		return KindBytes, true
	case uuid.UUID, pgtype.UUID:
		return KindUUID, true
	}
	return 0, false
}

// ParseValue converts text into the Go value used for kind k.
// Timestamps are RFC 3339 or a plain date; bytes are hex, with an optional
// \x prefix.
func ParseValue(k Kind, text string) (any, error) {
	switch k {
	case KindNull:
		return nil, nil
	case KindString:
		return text, nil
	case KindInt:
		return strconv.ParseInt(text, 10, 64)
	case KindFloat:
		return strconv.ParseFloat(text, 64)
	case KindDecimal:
		return ParseDecimal(text)
	case KindBool:
		return strconv.ParseBool(text)
	case KindTime:
		if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
			return t, nil
		}
		return time.Parse(time.DateOnly, text)
	case KindBytes:
		return hex.DecodeString(strings.TrimPrefix(text, `\x`))
	case KindUUID:
		return uuid.Parse(text)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownKind, k)
}
