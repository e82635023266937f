package otel

import (
	"database/sql"
	"fmt"

	"github.com/XSAM/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// startupPragmas configure SQLite for a process that shares the database
// file between the workflow repositories and the embedded job queue.
var startupPragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA foreign_keys=ON",
	// Wait instead of failing when River holds the write lock.
	"PRAGMA busy_timeout=5000",
}

// OpenDB opens the workflow database with OpenTelemetry instrumentation:
// every SQL operation is traced and the connection pool reports metrics.
func OpenDB(dataSourceName string) (*sql.DB, error) {
	db, err := otelsql.Open("sqlite", dataSourceName,
		otelsql.WithAttributes(semconv.DBSystemSqlite),
	)
	if err != nil {
		return nil, fmt.Errorf("opening instrumented database: %w", err)
	}

	// A single connection avoids SQLITE_BUSY when River and the
	// repositories both write.
	db.SetMaxOpenConns(1)

	for _, pragma := range startupPragmas {
		if _, err := db.Exec(pragma); err != nil {
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	if _, err := otelsql.RegisterDBStatsMetrics(db,
		otelsql.WithAttributes(semconv.DBSystemSqlite),
	); err != nil {
		return nil, fmt.Errorf("registering db stats metrics: %w", err)
	}

	return db, nil
}
