package dialect

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/param"
	"github.com/jackc/pgx/v5/pgtype"
)

// Dialect renders placeholders and literal values for one SQL flavour.
type Dialect interface {
	Name() string
	// Placeholder returns the marker for the n-th argument, counting from 1.
	Placeholder(n int) string
	// RenderValue returns v as an SQL literal. Only used for display.
	RenderValue(v any) string
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// renderCommon handles the literals every dialect writes the same way. The
// bool result is false when the dialect must decide.
func renderCommon(v any) (string, bool) {
	switch val := v.(type) {
	case nil:
		return "NULL", true
	case string:
		return quote(val), true
	case bool:
		if val {
			return "TRUE", true
		}
		return "FALSE", true
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", val), true
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), true
	case float32, float64:
		return strconv.FormatFloat(reflect.ValueOf(val).Float(), 'f', -1, 64), true
	case time.Time:
		return "", false
	case pgtype.Numeric:
		if s, ok := param.FormatDecimal(val); ok {
			return s, true
		}
	case fmt.Stringer:
		if _, ok := v.(driver.Valuer); !ok {
			return quote(val.String()), true
		}
	}
	return "", false
}

// renderValuer renders driver.Valuer types such as pgtype.Numeric and
// uuid.UUID through the value they hand to the driver.
func renderValuer(v driver.Valuer, render func(any) string) string {
	dv, err := v.Value()
	if err != nil {
		return quote(fmt.Sprint(v))
	}
	if s, ok := dv.(string); ok {
		switch s {
		case "NaN", "Infinity", "-Infinity":
			return quote(s)
		}
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return s
		}
	}
	return render(dv)
}
