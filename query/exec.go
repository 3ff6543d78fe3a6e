package query

import (
	"context"

	"github.com/Konsultn-Engineering/enorm-shards/database"
)

// Row is one result row keyed by column name.
type Row map[string]any

func (q *Query) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if q.timeout > 0 {
		return context.WithTimeout(ctx, q.timeout)
	}
	return context.WithCancel(ctx)
}

// List renders the query, runs it on db and returns every row.
func (q *Query) List(ctx context.Context, db database.Database) ([]Row, error) {
	sql, args, err := q.Render()
	if err != nil {
		return nil, err
	}

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	rows, err := db.QueryContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

// Exec renders the query, runs it on db and returns the affected row count.
func (q *Query) Exec(ctx context.Context, db database.Database) (int64, error) {
	sql, args, err := q.Render()
	if err != nil {
		return 0, err
	}

	ctx, cancel := q.withTimeout(ctx)
	defer cancel()

	res, err := db.ExecContext(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanRows(rows database.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var results []Row

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for rows.Next() {
		for i := range values {
			values[i] = nil
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, col := range columns {
			val := values[i]
			if b, ok := val.([]byte); ok {
				// drivers may reuse the buffer on the next Scan
				row[col] = append([]byte(nil), b...)
			} else {
				row[col] = val
			}
		}

		results = append(results, row)
	}

	return results, rows.Err()
}
