package shared

import "testing"

func TestRunMigrations(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	if err := RunMigrations(db); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	t.Run("Creates Aliases Table", func(t *testing.T) {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='aliases'").Scan(&name)
		if err != nil {
			t.Fatalf("aliases table not found: %v", err)
		}
	})

	t.Run("Records Version", func(t *testing.T) {
		var version int
		err := db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
		if err != nil {
			t.Fatalf("failed to read schema_migrations: %v", err)
		}
		if version != 0 {
			t.Errorf("expected version 0, got %d", version)
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		if err := RunMigrations(db); err != nil {
			t.Errorf("expected re-run to be a no-op, got %v", err)
		}
	})
}

func TestRollbackMigration(t *testing.T) {
	db, err := NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	t.Run("Nothing To Rollback", func(t *testing.T) {
		if err := createMigrationsTable(db); err != nil {
			t.Fatalf("failed to create migrations table: %v", err)
		}
		if err := RollbackMigration(db); err == nil {
			t.Error("expected error when no migrations applied")
		}
	})

	t.Run("Drops Aliases Table", func(t *testing.T) {
		if err := RunMigrations(db); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
		if err := RollbackMigration(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='aliases'").Scan(&name)
		if err == nil {
			t.Error("expected aliases table to be dropped")
		}
	})
}
