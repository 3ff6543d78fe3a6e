package dialect

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"
)

type Postgres struct{}

func NewPostgresDialect() Dialect {
	return &Postgres{}
}

func (Postgres) Name() string {
	return "postgres"
}

func (Postgres) Placeholder(n int) string {
	return "$" + strconv.Itoa(n)
}

func (p Postgres) RenderValue(v any) string {
	if s, ok := renderCommon(v); ok {
		return s
	}
	switch val := v.(type) {
	case time.Time:
		return quote(val.Format("2006-01-02 15:04:05.999999Z07:00"))
	case []byte:
		return fmt.Sprintf("'\\x%x'::bytea", val)
	case driver.Valuer:
		return renderValuer(val, p.RenderValue)
	default:
		return quote(fmt.Sprint(val))
	}
}
