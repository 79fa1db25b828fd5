package datastore

import (
	"database/sql"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pmcharts/pmc/internal/contract"
	"github.com/pmcharts/pmc/schema"

	_ "github.com/go-sql-driver/mysql"  // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Table names for observation storage.
const (
	observationsTable = "pmc_observations"
	seasonsTable      = "pmc_seasons"
)

// sqliteTimeFormat keeps stored timestamps fixed width so they sort as text.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z"

var tableNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// GetDBFilePath returns the path to the SQLite DB file for storage.
func GetDBFilePath() string {
	return contract.GetDBFilePath()
}

// driverName returns the database/sql driver registered for the backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s", backend)
	}
}

// openDB opens and pings a SQL database for the backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	name, err := driverName(backend)
	if err != nil {
		return nil, err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = GetDBFilePath()
	}

	db, err := sql.Open(name, connStr)
	if err != nil {
		switch backend {
		case schema.SQLiteBackend:
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Check that the directory is writable", connStr, err)
		case schema.MySQLBackend:
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		default:
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=... dbname=...", err)
		}
	}

	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Verify the database file is accessible."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// createTables creates the observation and season tables when missing.
func createTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{observationsTable, getCreateObservationsQuery(backend)},
		{seasonsTable, getCreateSeasonsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateObservationsQuery returns the CREATE TABLE query for pmc_observations.
func getCreateObservationsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(observationsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(64) PRIMARY KEY,
				obs_date CHAR(10) NOT NULL,
				planned BOOLEAN NOT NULL,
				sport VARCHAR(64) NOT NULL,
				title VARCHAR(255) NOT NULL,
				duration DOUBLE NOT NULL,
				metrics TEXT NOT NULL,
				created_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				obs_date CHAR(10) NOT NULL,
				planned BOOLEAN NOT NULL,
				sport TEXT NOT NULL,
				title TEXT NOT NULL,
				duration DOUBLE PRECISION NOT NULL,
				metrics TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				obs_date TEXT NOT NULL,
				planned INTEGER NOT NULL,
				sport TEXT NOT NULL,
				title TEXT NOT NULL,
				duration REAL NOT NULL,
				metrics TEXT NOT NULL,
				created_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// getCreateSeasonsQuery returns the CREATE TABLE query for pmc_seasons.
func getCreateSeasonsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(seasonsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(64) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				start_date CHAR(10) NOT NULL,
				end_date CHAR(10),
				seed DOUBLE,
				created_at DATETIME(6) NOT NULL
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				start_date CHAR(10) NOT NULL,
				end_date CHAR(10),
				seed DOUBLE PRECISION,
				created_at TIMESTAMPTZ NOT NULL
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				start_date TEXT NOT NULL,
				end_date TEXT,
				seed REAL,
				created_at TEXT NOT NULL
			);
		`, quotedTableName)
	}
}

// validateTableName checks that a table name is a plain SQL identifier.
func validateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNameRegex.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern ^[a-zA-Z_][a-zA-Z0-9_]*$)", name)
	}
	return nil
}

// quoteTableName returns the properly quoted table name for the given backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("\"%s\"", name)
	}
}

// bind rewrites ? placeholders into the backend's parameter syntax.
func bind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.UTC().Format(sqliteTimeFormat)
	default:
		return t
	}
}

// formatDate renders a civil date column value.
func formatDate(t time.Time) string {
	return t.Format(schema.DateFormat)
}

// parseDate reads a civil date column value.
func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(schema.DateFormat, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored date %q: %w", s, err)
	}
	return t, nil
}
