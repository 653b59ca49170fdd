package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/trackdrop/internal/engine"
	"github.com/desertthunder/trackdrop/internal/repositories"
	"github.com/desertthunder/trackdrop/internal/resolve"
	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
	"github.com/desertthunder/trackdrop/internal/ui"
	"github.com/urfave/cli/v3"
)

// pickFunc resolves an ambiguous phrase to a playlist via user input.
type pickFunc func(phrase string, candidates []resolve.RankedCandidate) (services.Playlist, bool, error)

// runPicker presents the interactive disambiguation list.
func runPicker(phrase string, candidates []resolve.RankedCandidate) (services.Playlist, bool, error) {
	return ui.Pick(phrase, candidates)
}

// Add resolves a spoken phrase to a playlist and appends the currently
// playing track to it.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	phrase := cmd.StringArg("phrase")
	allowDuplicates := cmd.Bool("allow-duplicates")
	acceptBest := cmd.Bool("yes")
	trackURI := cmd.String("track")

	if strings.TrimSpace(phrase) == "" {
		return fmt.Errorf("%w: add \"<phrase>\"", shared.ErrMissingArgument)
	}
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	repo, db, err := r.openAliasRepo()
	if err != nil {
		return err
	}
	defer db.Close()

	eng := r.newEngine(allowDuplicates || r.config.Ingest.AllowDuplicates, repositories.NewAliasStoreAdapter(repo))

	resolution, err := eng.ResolvePhrase(ctx, phrase)
	if err != nil {
		return err
	}

	var target services.Playlist
	switch resolution.Decision {
	case resolve.NoMatch:
		return fmt.Errorf("%w: %q", shared.ErrNoMatch, phrase)

	case resolve.AutoAccept:
		target = resolution.Playlist

	case resolve.Disambiguate:
		if acceptBest {
			target = resolution.Candidates[0].Playlist
			break
		}
		chosen, ok, err := r.pickPlaylist(phrase, resolution.Candidates)
		if err != nil {
			return err
		}
		if !ok {
			return r.writePlain("Cancelled.\n")
		}
		target = chosen
	}

	var result engine.AddResult
	if trackURI != "" {
		result, err = eng.AddTrack(ctx, target, trackFromURI(trackURI))
	} else {
		result, err = eng.AddCurrentTrack(ctx, target)
	}
	if err != nil {
		return err
	}

	if result.Kind == engine.Duplicate {
		return r.writePlain("• %q is already in %q, skipped\n", result.Track.Name, target.Name)
	}

	r.writePlain("✓ Added %q to %q\n", result.Track.Name, target.Name)
	if result.Track.Artist != "" {
		r.writePlain("  by %s\n", result.Track.Artist)
	}
	r.logger.Debug("append confirmed", "snapshot", result.SnapshotID)

	return nil
}

// trackFromURI builds a minimal track from a spotify:track:<id> URI.
func trackFromURI(uri string) services.Track {
	id := uri
	if idx := strings.LastIndex(uri, ":"); idx >= 0 {
		id = uri[idx+1:]
	}
	return services.Track{ID: id, URI: uri, Name: id}
}
