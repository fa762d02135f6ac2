package migration

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file:"+filepath.Join(t.TempDir(), "test.db")+"?_busy_timeout=5000")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunSQLiteIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := RunSQLite(ctx, db, zap.NewNop()); err != nil {
			t.Fatalf("run %d: %v", i+1, err)
		}
	}

	var applied int
	if err := db.QueryRow(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied); err != nil {
		t.Fatalf("count: %v", err)
	}
	if applied != len(migrations) {
		t.Errorf("applied = %d, expected %d", applied, len(migrations))
	}

	if _, err := db.Exec(`SELECT id, user_id, progress, skills FROM resume_drafts`); err != nil {
		t.Errorf("drafts table missing columns: %v", err)
	}
}

func TestEveryMigrationHasBothDialects(t *testing.T) {
	for _, m := range migrations {
		if m.Postgres == "" || m.SQLite == "" {
			t.Errorf("migration %s is missing a dialect", m.Name)
		}
	}
}
