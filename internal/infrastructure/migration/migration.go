package migration

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"
)

// Migration is one schema step, written once per dialect. Statements are
// idempotent, so a step interrupted before it was recorded can run again.
type Migration struct {
	Name     string
	Postgres string
	SQLite   string
}

var migrations = []Migration{
	{
		Name: "create_resume_drafts",
		Postgres: `
			CREATE TABLE IF NOT EXISTS resume_drafts (
				id             UUID PRIMARY KEY,
				user_id        UUID NOT NULL,
				name           TEXT NOT NULL,
				template_id    TEXT NOT NULL,
				active_section TEXT NOT NULL DEFAULT 'personal',
				progress       INTEGER NOT NULL DEFAULT 0,
				personal       JSONB NOT NULL DEFAULT '{}'::jsonb,
				summary        JSONB NOT NULL DEFAULT '{}'::jsonb,
				experience     JSONB NOT NULL DEFAULT '[]'::jsonb,
				education      JSONB NOT NULL DEFAULT '[]'::jsonb,
				skills         JSONB NOT NULL DEFAULT '[]'::jsonb,
				projects       JSONB NOT NULL DEFAULT '[]'::jsonb,
				created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
				updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
			);`,
		SQLite: `
			CREATE TABLE IF NOT EXISTS resume_drafts (
				id             TEXT PRIMARY KEY,
				user_id        TEXT NOT NULL,
				name           TEXT NOT NULL,
				template_id    TEXT NOT NULL,
				active_section TEXT NOT NULL DEFAULT 'personal',
				progress       INTEGER NOT NULL DEFAULT 0,
				personal       TEXT NOT NULL DEFAULT '{}',
				summary        TEXT NOT NULL DEFAULT '{}',
				experience     TEXT NOT NULL DEFAULT '[]',
				education      TEXT NOT NULL DEFAULT '[]',
				skills         TEXT NOT NULL DEFAULT '[]',
				projects       TEXT NOT NULL DEFAULT '[]',
				created_at     DATETIME NOT NULL,
				updated_at     DATETIME NOT NULL
			);`,
	},
	{
		Name:     "index_resume_drafts_user_updated",
		Postgres: `CREATE INDEX IF NOT EXISTS idx_resume_drafts_user_updated ON resume_drafts (user_id, updated_at DESC);`,
		SQLite:   `CREATE INDEX IF NOT EXISTS idx_resume_drafts_user_updated ON resume_drafts (user_id, updated_at DESC);`,
	},
}

const (
	pgLedger     = `CREATE TABLE IF NOT EXISTS schema_migrations (name TEXT PRIMARY KEY, applied_at TIMESTAMPTZ NOT NULL DEFAULT now());`
	sqliteLedger = `CREATE TABLE IF NOT EXISTS schema_migrations (name TEXT PRIMARY KEY, applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP);`
)

// RunPostgres applies every pending migration to the pool.
func RunPostgres(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) error {
	return run(ctx, logger, pgDialect{pool})
}

// RunSQLite applies every pending migration to db.
func RunSQLite(ctx context.Context, db *sql.DB, logger *zap.Logger) error {
	return run(ctx, logger, sqliteDialect{db})
}

type dialect interface {
	name() string
	ledger() string
	exec(ctx context.Context, stmt string, args ...interface{}) error
	applied(ctx context.Context, name string) (bool, error)
	record(ctx context.Context, name string) error
	statement(m Migration) string
}

func run(ctx context.Context, logger *zap.Logger, d dialect) error {
	logger.Info("starting database migrations", zap.String("dialect", d.name()))

	if err := d.exec(ctx, d.ledger()); err != nil {
		return fmt.Errorf("creating migration ledger: %w", err)
	}

	for _, m := range migrations {
		done, err := d.applied(ctx, m.Name)
		if err != nil {
			return fmt.Errorf("checking migration %s: %w", m.Name, err)
		}
		if done {
			logger.Debug("migration already applied", zap.String("name", m.Name))
			continue
		}
		if err := d.exec(ctx, d.statement(m)); err != nil {
			logger.Error("migration failed", zap.String("name", m.Name), zap.Error(err))
			return fmt.Errorf("migration %s: %w", m.Name, err)
		}
		if err := d.record(ctx, m.Name); err != nil {
			return fmt.Errorf("recording migration %s: %w", m.Name, err)
		}
		logger.Info("migration completed", zap.String("name", m.Name))
	}

	logger.Info("all migrations completed")
	return nil
}

type pgDialect struct{ pool *pgxpool.Pool }

func (pgDialect) name() string                 { return "postgres" }
func (pgDialect) ledger() string               { return pgLedger }
func (pgDialect) statement(m Migration) string { return m.Postgres }

func (d pgDialect) exec(ctx context.Context, stmt string, args ...interface{}) error {
	_, err := d.pool.Exec(ctx, stmt, args...)
	return err
}

func (d pgDialect) applied(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (d pgDialect) record(ctx context.Context, name string) error {
	return d.exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
}

type sqliteDialect struct{ db *sql.DB }

func (sqliteDialect) name() string                 { return "sqlite" }
func (sqliteDialect) ledger() string               { return sqliteLedger }
func (sqliteDialect) statement(m Migration) string { return m.SQLite }

func (d sqliteDialect) exec(ctx context.Context, stmt string, args ...interface{}) error {
	_, err := d.db.ExecContext(ctx, stmt, args...)
	return err
}

func (d sqliteDialect) applied(ctx context.Context, name string) (bool, error) {
	var n int
	err := d.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM schema_migrations WHERE name = ?`, name).Scan(&n)
	return n > 0, err
}

func (d sqliteDialect) record(ctx context.Context, name string) error {
	return d.exec(ctx, `INSERT OR IGNORE INTO schema_migrations (name) VALUES (?)`, name)
}
