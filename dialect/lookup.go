package dialect

import "fmt"

// ByName returns the dialect registered under name ("postgres" or "mysql").
func ByName(name string) (Dialect, error) {
	switch name {
	case "", "postgres", "postgresql", "pgx":
		return NewPostgresDialect(), nil
	case "mysql":
		return NewMySQLDialect(), nil
	}
	return nil, fmt.Errorf("unknown dialect: %s", name)
}
