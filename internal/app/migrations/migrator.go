package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed sql/*.sql
var embedMigrations embed.FS

const migrationsDir = "sql"

// Migrator applies the embedded schema migrations
type Migrator struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewMigrator creates a new migrator. Goose works on *sql.DB, so one is opened on top of the pool.
func NewMigrator(pool *pgxpool.Pool, lgr zerolog.Logger) (*Migrator, error) {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(gooseLogger{lgr})
	if err := goose.SetDialect("postgres"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return &Migrator{
		db:     stdlib.OpenDBFromPool(pool),
		logger: lgr,
	}, nil
}

// Up applies all pending migrations
func (m *Migrator) Up(ctx context.Context) error {
	if err := goose.UpContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	version, err := m.Version(ctx)
	if err != nil {
		return err
	}
	m.logger.Info().Int64("version", version).Msg("Database migrations applied")
	return nil
}

// Down rolls back the most recent migration
func (m *Migrator) Down(ctx context.Context) error {
	if err := goose.DownContext(ctx, m.db, migrationsDir); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}
	return nil
}

// Version returns the current schema version
func (m *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := goose.GetDBVersionContext(ctx, m.db)
	if err != nil {
		return 0, fmt.Errorf("failed to get schema version: %w", err)
	}
	return version, nil
}

// Close closes the *sql.DB wrapper. The pool itself stays open.
func (m *Migrator) Close() error {
	return m.db.Close()
}

type gooseLogger struct {
	l zerolog.Logger
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) { g.l.Fatal().Msgf(format, v...) }
func (g gooseLogger) Printf(format string, v ...interface{}) { g.l.Info().Msgf(format, v...) }
