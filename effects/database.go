package effects

import (
	"context"
	"database/sql"
	"fmt"

	// Drivers for the connection strings weft deployments use.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// SQLDatabase implements the Database effect on top of database/sql.
type SQLDatabase struct {
	db *sql.DB
}

// OpenSQLDatabase opens and pings a database connection.
func OpenSQLDatabase(driver, dsn string) (*SQLDatabase, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &SQLDatabase{db: db}, nil
}

// Query runs a read query and returns one map per result row, keyed by
// column name.
func (d *SQLDatabase) Query(ctx context.Context, query string, args ...any) ([]map[string]any, error) {
	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var results []map[string]any
	for rows.Next() {
		values := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range values {
			scanArgs[i] = &values[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			// Drivers return []byte for text columns; normalize to string.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return results, nil
}

// Exec runs a statement and returns the number of affected rows.
func (d *SQLDatabase) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	result, err := d.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		// Some drivers cannot report affected rows; the statement still ran.
		return 0, nil
	}
	return affected, nil
}

// Close releases the underlying connection pool.
func (d *SQLDatabase) Close() error {
	return d.db.Close()
}
