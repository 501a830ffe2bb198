package infra

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog"

	"poolledger/internal/sqlinline"
)

// Migration is one ordered schema step.
type Migration struct {
	Version int64
	Name    string
	SQL     string
}

// PostgresMigrations lists the ledger schema in apply order.
var PostgresMigrations = []Migration{
	{Version: 1, Name: "create_pools", SQL: sqlinline.QCreatePools},
	{Version: 2, Name: "create_contributions", SQL: sqlinline.QCreateContributions},
}

// Migrator applies PostgresMigrations through database/sql. Each step and
// its bookkeeping row commit together.
type Migrator struct {
	DB         *sql.DB
	Logger     zerolog.Logger
	Migrations []Migration
}

// OpenMigrator connects with lib/pq using the given database URL.
func OpenMigrator(ctx context.Context, databaseURL string, logger zerolog.Logger) (*Migrator, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return NewMigrator(db, logger), nil
}

func NewMigrator(db *sql.DB, logger zerolog.Logger) *Migrator {
	return &Migrator{DB: db, Logger: logger, Migrations: PostgresMigrations}
}

// Migrate applies every migration not yet recorded in schema_migrations.
func (m *Migrator) Migrate(ctx context.Context) error {
	if _, err := m.DB.ExecContext(ctx, sqlinline.QCreateSchemaMigrations); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	for _, mig := range m.Migrations {
		var applied bool
		if err := m.DB.QueryRowContext(ctx, sqlinline.QSelectMigrationApplied, mig.Version).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %d: %w", mig.Version, err)
		}
		if applied {
			continue
		}
		if err := m.apply(ctx, mig); err != nil {
			return err
		}
		m.Logger.Info().Int64("version", mig.Version).Str("name", mig.Name).Msg("migration applied")
	}
	return nil
}

func (m *Migrator) apply(ctx context.Context, mig Migration) error {
	tx, err := m.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %d: %w", mig.Version, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, mig.SQL); err != nil {
		return fmt.Errorf("apply migration %d (%s): %w", mig.Version, mig.Name, err)
	}
	if _, err := tx.ExecContext(ctx, sqlinline.QRecordMigration, mig.Version, mig.Name); err != nil {
		return fmt.Errorf("record migration %d: %w", mig.Version, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %d: %w", mig.Version, err)
	}
	return nil
}

// Close releases the database handle.
func (m *Migrator) Close() error {
	return m.DB.Close()
}
