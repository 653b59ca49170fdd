package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/trackdrop/internal/engine"
	"github.com/desertthunder/trackdrop/internal/match"
	"github.com/desertthunder/trackdrop/internal/pager"
	"github.com/desertthunder/trackdrop/internal/resolve"
	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
	"github.com/urfave/cli/v3"
)

// pagerOptions derives fetch fan-out settings from the loaded config.
func (r *Runner) pagerOptions() pager.Options {
	return pager.Options{
		Workers:   r.config.Ingest.PageWorkers,
		RateLimit: r.config.Ingest.RateLimit,
	}
}

// newEngine builds a per-invocation engine around the Spotify service.
func (r *Runner) newEngine(allowDuplicates bool, aliases services.AliasStore) *engine.Engine {
	return engine.New(
		engine.Seams{
			Auth:      r.spotify,
			Playlists: r.spotify,
			Playback:  r.spotify,
			Items:     r.spotify,
			Appender:  r.spotify,
			Aliases:   aliases,
		},
		nil,
		match.NewMatcher(r.config.Resolver.MatchThreshold),
		resolve.NewPolicy(r.config.Resolver.AcceptThreshold),
		engine.Options{
			AllowDuplicates: allowDuplicates,
			Pager:           r.pagerOptions(),
			Logger:          r.logger,
		},
	)
}

// Playlists refreshes and prints the playlist catalog.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	eng := r.newEngine(false, nil)
	if err := eng.RefreshCatalog(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	playlists := eng.Catalog().Playlists()

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for _, pl := range playlists {
		r.writePlain("  %-40s %5d tracks  %s\n", pl.Name, pl.TrackCount, pl.ID)
	}

	return nil
}
