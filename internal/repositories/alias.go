package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
)

// AliasRepository persists spoken-name aliases in the aliases table.
// Alias names are stored in normalized form so lookups are insensitive
// to case and spacing.
type AliasRepository struct {
	db *sql.DB
}

func NewAliasRepository(db *sql.DB) *AliasRepository {
	return &AliasRepository{db: db}
}

// List returns every alias ordered by name.
func (r *AliasRepository) List() ([]services.Alias, error) {
	rows, err := r.db.Query(`SELECT name, playlist_id FROM aliases ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list aliases: %w", err)
	}
	defer rows.Close()

	var aliases []services.Alias
	for rows.Next() {
		var alias services.Alias
		if err := rows.Scan(&alias.Name, &alias.PlaylistID); err != nil {
			return nil, fmt.Errorf("failed to scan alias: %w", err)
		}
		aliases = append(aliases, alias)
	}

	return aliases, rows.Err()
}

// Get fetches a single alias by name.
func (r *AliasRepository) Get(name string) (*services.Alias, error) {
	name = shared.NormalizeName(name)

	var alias services.Alias
	err := r.db.QueryRow(`SELECT name, playlist_id FROM aliases WHERE name = ?`, name).
		Scan(&alias.Name, &alias.PlaylistID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", shared.ErrAliasNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get alias: %w", err)
	}

	return &alias, nil
}

// Upsert creates an alias or repoints an existing one.
func (r *AliasRepository) Upsert(name, playlistID string) error {
	name = shared.NormalizeName(name)
	if name == "" {
		return fmt.Errorf("alias name is empty")
	}

	_, err := r.db.Exec(`
		INSERT INTO aliases (name, playlist_id) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET playlist_id = excluded.playlist_id, updated_at = CURRENT_TIMESTAMP`,
		name, playlistID)
	if err != nil {
		return fmt.Errorf("failed to upsert alias: %w", err)
	}

	return nil
}

// Delete removes an alias by name.
func (r *AliasRepository) Delete(name string) error {
	name = shared.NormalizeName(name)

	result, err := r.db.Exec(`DELETE FROM aliases WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete alias: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: %s", shared.ErrAliasNotFound, name)
	}

	return nil
}

// ReplaceAll swaps the whole alias table in one transaction.
func (r *AliasRepository) ReplaceAll(aliases map[string]string) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM aliases`); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear aliases: %w", err)
	}

	for name, playlistID := range aliases {
		name = shared.NormalizeName(name)
		if name == "" {
			continue
		}
		if _, err := tx.Exec(`INSERT INTO aliases (name, playlist_id) VALUES (?, ?)`, name, playlistID); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert alias %s: %w", name, err)
		}
	}

	return tx.Commit()
}
