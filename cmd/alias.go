package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/desertthunder/trackdrop/internal/repositories"
	"github.com/desertthunder/trackdrop/internal/shared"
	"github.com/urfave/cli/v3"
)

// openAliasRepo opens the alias database, applying migrations so a fresh
// database works without a prior setup run.
func (r *Runner) openAliasRepo() (*repositories.AliasRepository, *sql.DB, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}

	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repositories.NewAliasRepository(db), db, nil
}

// AliasAdd maps a spoken name to a playlist by ID or exact name.
func (r *Runner) AliasAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	target := cmd.StringArg("playlist")

	if name == "" || target == "" {
		return fmt.Errorf("%w: alias add <name> <playlist>", shared.ErrMissingArgument)
	}
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	eng := r.newEngine(false, nil)
	if err := eng.RefreshCatalog(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	playlistID := ""
	playlistName := ""
	normalized := shared.NormalizeName(target)
	for _, pl := range eng.Catalog().Playlists() {
		if pl.ID == target || shared.NormalizeName(pl.Name) == normalized {
			playlistID = pl.ID
			playlistName = pl.Name
			break
		}
	}
	if playlistID == "" {
		return fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, target)
	}

	repo, db, err := r.openAliasRepo()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repo.Upsert(name, playlistID); err != nil {
		return err
	}

	r.logger.Info("alias saved", "name", shared.NormalizeName(name), "playlist", playlistName)
	return r.writePlain("✓ %q now points at %q\n", shared.NormalizeName(name), playlistName)
}

// AliasRemove deletes an alias by name.
func (r *Runner) AliasRemove(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: alias remove <name>", shared.ErrMissingArgument)
	}

	repo, db, err := r.openAliasRepo()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repo.Delete(name); err != nil {
		return err
	}

	return r.writePlain("✓ Removed alias %q\n", shared.NormalizeName(name))
}

// AliasList prints every stored alias.
func (r *Runner) AliasList(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")

	repo, db, err := r.openAliasRepo()
	if err != nil {
		return err
	}
	defer db.Close()

	aliases, err := repo.List()
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(aliases, true)
	}

	if len(aliases) == 0 {
		return r.writePlain("No aliases stored.\n")
	}

	r.writePlain("%d aliases:\n\n", len(aliases))
	for _, alias := range aliases {
		r.writePlain("  %-30s → %s\n", alias.Name, alias.PlaylistID)
	}

	return nil
}
