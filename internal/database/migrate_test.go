package database

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationFilesAreEmbedded(t *testing.T) {
	files, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migration files embedded")
	}

	// すべてのupマイグレーションに対応するdownが存在すること
	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, f := range files {
		name := strings.TrimPrefix(f, "migrations/")
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected migration file name: %s", name)
		}
	}

	for base := range ups {
		if !downs[base] {
			t.Errorf("migration %s has no down file", base)
		}
	}
	for base := range downs {
		if !ups[base] {
			t.Errorf("migration %s has no up file", base)
		}
	}
}

func TestMigrationSchemaCoversAllTables(t *testing.T) {
	content, err := fs.ReadFile(migrationsFS, "migrations/000001_create_ops_schema.up.sql")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	sql := string(content)
	for _, table := range []string{"ops.batch_run", "ops.forecast", "ops.replenishment_recommendation"} {
		if !strings.Contains(sql, table) {
			t.Errorf("up migration missing table %s", table)
		}
	}
}
