package repositories

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/trackdrop/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func TestAliasRepository(t *testing.T) {
	t.Run("Upsert", func(t *testing.T) {
		t.Run("Creates Alias", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewAliasRepository(db)
			if err := repo.Upsert("gym", "p2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			alias, err := repo.Get("gym")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if alias.PlaylistID != "p2" {
				t.Errorf("expected playlist p2, got %s", alias.PlaylistID)
			}
		})

		t.Run("Repoints Existing Alias", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewAliasRepository(db)
			if err := repo.Upsert("gym", "p2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := repo.Upsert("gym", "p5"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			alias, err := repo.Get("gym")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if alias.PlaylistID != "p5" {
				t.Errorf("expected repointed playlist p5, got %s", alias.PlaylistID)
			}

			aliases, err := repo.List()
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(aliases) != 1 {
				t.Errorf("expected single alias after upsert, got %d", len(aliases))
			}
		})

		t.Run("Normalizes Name", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewAliasRepository(db)
			if err := repo.Upsert("  My   GYM  ", "p2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			alias, err := repo.Get("my gym")
			if err != nil {
				t.Fatalf("expected normalized lookup to succeed, got %v", err)
			}
			if alias.Name != "my gym" {
				t.Errorf("expected stored name 'my gym', got %q", alias.Name)
			}
		})

		t.Run("Rejects Empty Name", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewAliasRepository(db)
			if err := repo.Upsert("   ", "p2"); err == nil {
				t.Error("expected error for blank alias name")
			}
		})
	})

	t.Run("Get", func(t *testing.T) {
		t.Run("Missing Alias", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewAliasRepository(db)
			if _, err := repo.Get("nothing"); !errors.Is(err, shared.ErrAliasNotFound) {
				t.Errorf("expected ErrAliasNotFound, got %v", err)
			}
		})
	})

	t.Run("Delete", func(t *testing.T) {
		t.Run("Removes Alias", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewAliasRepository(db)
			if err := repo.Upsert("gym", "p2"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if err := repo.Delete("gym"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, err := repo.Get("gym"); !errors.Is(err, shared.ErrAliasNotFound) {
				t.Error("expected alias to be gone")
			}
		})

		t.Run("Missing Alias", func(t *testing.T) {
			db := setupTestDB(t)
			defer db.Close()

			repo := NewAliasRepository(db)
			if err := repo.Delete("nothing"); !errors.Is(err, shared.ErrAliasNotFound) {
				t.Errorf("expected ErrAliasNotFound, got %v", err)
			}
		})
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewAliasRepository(db)
		for name, id := range map[string]string{"gym": "p2", "evening": "p1", "car": "p3"} {
			if err := repo.Upsert(name, id); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		}

		aliases, err := repo.List()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(aliases) != 3 {
			t.Fatalf("expected 3 aliases, got %d", len(aliases))
		}
		for i, want := range []string{"car", "evening", "gym"} {
			if aliases[i].Name != want {
				t.Errorf("position %d: expected %q, got %q", i, want, aliases[i].Name)
			}
		}
	})
}

func TestAliasStoreAdapter(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	repo := NewAliasRepository(db)
	store := NewAliasStoreAdapter(repo)

	t.Run("Save Replaces Table", func(t *testing.T) {
		if err := repo.Upsert("stale", "p9"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if err := store.Save(map[string]string{"gym": "p2", "evening": "p1"}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		aliases, err := store.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(aliases) != 2 {
			t.Fatalf("expected 2 aliases, got %d", len(aliases))
		}
		if aliases["gym"] != "p2" || aliases["evening"] != "p1" {
			t.Errorf("unexpected alias map: %v", aliases)
		}
		if _, ok := aliases["stale"]; ok {
			t.Error("expected stale alias to be replaced")
		}
	})

	t.Run("Load Empty Table", func(t *testing.T) {
		if err := store.Save(map[string]string{}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		aliases, err := store.Load()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(aliases) != 0 {
			t.Errorf("expected empty map, got %v", aliases)
		}
	})
}
