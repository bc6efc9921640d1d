package database

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/config"
	"github.com/yasinhessnawi1/Shopfront_Backend/internal/constants"
)

// Dialect captures the differences between the supported SQL backends.
// Queries are written once with ? placeholders and rebound per dialect.
type Dialect interface {
	// Name is the configured driver name (postgres, mysql, sqlite3).
	Name() string
	// DSN normalizes the configured connection string for the driver.
	DSN(settings *config.DatabaseSettings) string
	// Rebind rewrites ? placeholders into the dialect's bind syntax.
	Rebind(query string) string
	// SupportsReturning reports whether INSERT ... RETURNING id is available.
	SupportsReturning() bool
	// GooseDialect is the dialect name understood by goose.
	GooseDialect() string
	// MigrationsDir is the directory of the embedded migrations for this dialect.
	MigrationsDir() string
	// Configure applies pool settings suitable for the backend.
	Configure(db *sql.DB, settings *config.DatabaseSettings)
}

// DialectFor returns the Dialect for a driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case constants.DriverPostgres:
		return postgresDialect{}, nil
	case constants.DriverMySQL:
		return mysqlDialect{}, nil
	case constants.DriverSQLite:
		return sqliteDialect{}, nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

type postgresDialect struct{}

func (postgresDialect) Name() string { return constants.DriverPostgres }

func (postgresDialect) DSN(settings *config.DatabaseSettings) string {
	return settings.ConnectionString()
}

// Rebind numbers placeholders as $1..$N, leaving quoted literals untouched.
func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)

	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (postgresDialect) SupportsReturning() bool { return true }
func (postgresDialect) GooseDialect() string    { return "postgres" }
func (postgresDialect) MigrationsDir() string   { return "postgres" }

func (postgresDialect) Configure(db *sql.DB, settings *config.DatabaseSettings) {
	configurePool(db, settings)
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string { return constants.DriverMySQL }

// DSN strips a mysql:// scheme, makes DATETIME columns scan into time.Time
// and reports matched rather than changed rows, so an update that writes an
// unchanged value still counts as one row.
func (mysqlDialect) DSN(settings *config.DatabaseSettings) string {
	dsn := strings.TrimPrefix(settings.ConnectionString(), "mysql://")
	for _, param := range []string{"parseTime=true", "clientFoundRows=true"} {
		name := param[:strings.Index(param, "=")+1]
		if strings.Contains(dsn, name) {
			continue
		}
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + param
	}
	return dsn
}

func (mysqlDialect) Rebind(query string) string { return query }
func (mysqlDialect) SupportsReturning() bool    { return false }
func (mysqlDialect) GooseDialect() string       { return "mysql" }
func (mysqlDialect) MigrationsDir() string      { return "mysql" }

func (mysqlDialect) Configure(db *sql.DB, settings *config.DatabaseSettings) {
	configurePool(db, settings)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string { return constants.DriverSQLite }

func (sqliteDialect) DSN(settings *config.DatabaseSettings) string {
	dsn := strings.TrimPrefix(settings.ConnectionString(), "sqlite://")
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	if !strings.Contains(dsn, "_foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_foreign_keys=on"
	}
	return dsn
}

func (sqliteDialect) Rebind(query string) string { return query }
func (sqliteDialect) SupportsReturning() bool    { return false }
func (sqliteDialect) GooseDialect() string       { return "sqlite3" }
func (sqliteDialect) MigrationsDir() string      { return "sqlite" }

// Configure serializes access through one connection; SQLite allows a single writer.
func (sqliteDialect) Configure(db *sql.DB, _ *config.DatabaseSettings) {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
}

func configurePool(db *sql.DB, settings *config.DatabaseSettings) {
	db.SetMaxOpenConns(settings.MaxConns)
	db.SetMaxIdleConns(settings.MinConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBConnMaxIdleTime)
}
