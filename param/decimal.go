package param

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"
)

// ParseDecimal parses an arbitrary-precision decimal such as "3.14", "-12"
// or "NaN".
func ParseDecimal(s string) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(s); err != nil {
		return pgtype.Numeric{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return n, nil
}

// MustDecimal is ParseDecimal for literals known to be valid.
func MustDecimal(s string) pgtype.Numeric {
	n, err := ParseDecimal(s)
	if err != nil {
		panic(err)
	}
	return n
}

// FormatDecimal writes a finite decimal without exponent notation, e.g.
// "0.05" where the driver would write "5e-2". It reports false for NULL,
// NaN and infinities.
func FormatDecimal(n pgtype.Numeric) (string, bool) {
	if !n.Valid || n.NaN || n.InfinityModifier != pgtype.Finite || n.Int == nil {
		return "", false
	}

	digits := n.Int.String()
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}

	if n.Exp >= 0 {
		return sign + digits + strings.Repeat("0", int(n.Exp)), true
	}

	scale := int(-n.Exp)
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	return sign + digits[:len(digits)-scale] + "." + digits[len(digits)-scale:], true
}
