package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/Konsultn-Engineering/enorm-shards/param"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"gopkg.in/yaml.v3"
)

const (
	outputYAML = "yaml"
	outputJSON = "json"
)

func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unknown output format %q", format)
}

// displayValue turns driver values into something both encoders print
// readably.
func displayValue(v any) any {
	switch val := v.(type) {
	case pgtype.Numeric:
		if s, ok := param.FormatDecimal(val); ok {
			return s
		}
		if !val.Valid {
			return nil
		}
		dv, _ := val.Value()
		return dv
	case [16]byte:
		return uuid.UUID(val).String()
	case uuid.UUID:
		return val.String()
	case []byte:
		return `\x` + hex.EncodeToString(val)
	case time.Time:
		return val.Format(time.RFC3339Nano)
	}
	return v
}

func displayValues(values []any) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = displayValue(v)
	}
	return out
}
