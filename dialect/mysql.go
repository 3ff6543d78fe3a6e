package dialect

import (
	"database/sql/driver"
	"fmt"
	"time"
)

type MySQL struct{}

func NewMySQLDialect() Dialect {
	return &MySQL{}
}

func (MySQL) Name() string {
	return "mysql"
}

func (MySQL) Placeholder(int) string {
	return "?"
}

func (m MySQL) RenderValue(v any) string {
	if s, ok := renderCommon(v); ok {
		return s
	}
	switch val := v.(type) {
	case time.Time:
		return quote(val.UTC().Format("2006-01-02 15:04:05.000000"))
	case []byte:
		return fmt.Sprintf("X'%x'", val)
	case driver.Valuer:
		return renderValuer(val, m.RenderValue)
	default:
		return quote(fmt.Sprint(val))
	}
}
