// Package migrations applies the database schema at startup.
//
// The schema lives in embedded goose SQL files, one directory per dialect.
// After goose has run, the migrator verifies that every table the
// repositories depend on is present.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	"github.com/yasinhessnawi1/Shopfront_Backend/internal/database"
)

// Files holds the per-dialect goose migrations.
//
//go:embed postgres/*.sql mysql/*.sql sqlite/*.sql
var Files embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrator handles database migrations.
type Migrator struct {
	db *database.Pool
}

// NewMigrator creates a new migrator.
func NewMigrator(db *database.Pool) *Migrator {
	return &Migrator{
		db: db,
	}
}

// RunMigrations applies all pending migrations for the pool's dialect and
// then checks that the required tables exist.
func (m *Migrator) RunMigrations(ctx context.Context) error {
	dialect := m.db.Dialect()
	log.Info().Str("dialect", dialect.GooseDialect()).Msg("Running database migrations")
	startTime := time.Now()

	goose.SetBaseFS(Files)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect.GooseDialect()); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := gooseUpContext(ctx, m.db.DB, dialect.MigrationsDir()); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	if err := m.verifyAllTablesExist(ctx); err != nil {
		return fmt.Errorf("failed to verify tables: %w", err)
	}

	log.Info().
		Dur("duration", time.Since(startTime)).
		Msg("Database migrations completed")

	return nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Debug().Msgf(format, v...)
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatal().Msgf(format, v...)
}
