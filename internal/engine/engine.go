// Package engine orchestrates a single add session: gate on
// authorization, resolve the spoken phrase, capture the current track,
// guard against duplicates and append.
package engine

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/trackdrop/internal/catalog"
	"github.com/desertthunder/trackdrop/internal/match"
	"github.com/desertthunder/trackdrop/internal/pager"
	"github.com/desertthunder/trackdrop/internal/resolve"
	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
)

// ResultKind classifies the outcome of an append attempt.
type ResultKind int

const (
	// Added means the track was appended to the playlist.
	Added ResultKind = iota
	// Duplicate means the track was already present and the append
	// was skipped.
	Duplicate
)

// AddResult reports what happened to the track.
type AddResult struct {
	Kind       ResultKind
	Track      services.Track
	Playlist   services.Playlist
	SnapshotID string
}

// Seams collects the remote collaborators the engine consumes. Aliases
// may be nil when no alias store is configured.
type Seams struct {
	Auth      services.AuthState
	Playlists services.PlaylistSource
	Playback  services.PlaybackSource
	Items     services.PlaylistItemsSource
	Appender  services.Appender
	Aliases   services.AliasStore
}

// Options configures one engine session.
type Options struct {
	// AllowDuplicates skips the duplicate guard entirely.
	AllowDuplicates bool
	// Pager bounds the concurrent page fetches.
	Pager  pager.Options
	Logger *log.Logger
}

// Engine carries the session state for resolving phrases and appending
// tracks. Each command invocation builds its own engine; nothing here
// is shared across sessions.
type Engine struct {
	seams   Seams
	catalog *catalog.Catalog
	matcher match.Matcher
	policy  resolve.Policy
	opts    Options
	logger  *log.Logger
}

// New wires an engine from its seams.
func New(seams Seams, cat *catalog.Catalog, matcher match.Matcher, policy resolve.Policy, opts Options) *Engine {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if cat == nil {
		cat = catalog.NewCatalog()
	}

	return &Engine{
		seams:   seams,
		catalog: cat,
		matcher: matcher,
		policy:  policy,
		opts:    opts,
		logger:  logger,
	}
}

// Catalog exposes the session's playlist snapshot.
func (e *Engine) Catalog() *catalog.Catalog {
	return e.catalog
}

// RefreshCatalog pulls the full playlist collection and alias table
// into the session snapshot.
func (e *Engine) RefreshCatalog(ctx context.Context) error {
	if !e.seams.Auth.IsAuthorized() {
		return shared.ErrUnauthorized
	}

	if err := e.catalog.Refresh(ctx, e.seams.Playlists, e.opts.Pager); err != nil {
		return fmt.Errorf("failed to refresh catalog: %w", err)
	}

	if e.seams.Aliases != nil {
		if err := e.catalog.LoadAliases(e.seams.Aliases); err != nil {
			return fmt.Errorf("failed to load aliases: %w", err)
		}
	}

	e.logger.Debug("catalog refreshed", "playlists", e.catalog.Len())
	return nil
}

// ResolvePhrase refreshes the catalog, matches the phrase against its
// candidates, and classifies the outcome.
func (e *Engine) ResolvePhrase(ctx context.Context, phrase string) (resolve.Resolution, error) {
	if err := e.RefreshCatalog(ctx); err != nil {
		return resolve.Resolution{}, err
	}

	candidates := e.catalog.Candidates()
	names := make([]string, len(candidates))
	for i, c := range candidates {
		names[i] = c.Name
	}

	matches, err := e.matcher.Search(phrase, names)
	if err != nil {
		return resolve.Resolution{}, fmt.Errorf("failed to score candidates: %w", err)
	}

	resolution := e.policy.Decide(matches, candidates, e.catalog.Lookup)
	e.logger.Debug("resolved phrase", "phrase", phrase, "decision", resolution.Decision.String(), "candidates", len(resolution.Candidates))

	return resolution, nil
}

// ContainsTrack reports whether a playlist already holds the track,
// comparing by exact track ID. Fetch failures propagate; a playlist
// that cannot be read never reports false.
func (e *Engine) ContainsTrack(ctx context.Context, playlistID, trackID string) (bool, error) {
	tracks, err := pager.FetchAll[services.Track](ctx, e.seams.Items.Items(playlistID), e.opts.Pager)
	if err != nil {
		return false, fmt.Errorf("failed to fetch playlist tracks: %w", err)
	}

	for _, track := range tracks {
		if track.ID == trackID {
			return true, nil
		}
	}

	return false, nil
}

// CurrentTrack captures the track playing right now.
func (e *Engine) CurrentTrack(ctx context.Context) (services.Track, error) {
	if !e.seams.Auth.IsAuthorized() {
		return services.Track{}, shared.ErrUnauthorized
	}

	track, err := e.seams.Playback.CurrentTrack(ctx)
	if err != nil {
		return services.Track{}, fmt.Errorf("failed to read playback state: %w", err)
	}
	if track == nil {
		return services.Track{}, shared.ErrNoActiveTrack
	}

	return *track, nil
}

// AddTrack appends a track to a playlist, skipping it when the
// duplicate guard finds the same track ID already present. The guard
// runs before the append; a duplicate never reaches the appender.
func (e *Engine) AddTrack(ctx context.Context, playlist services.Playlist, track services.Track) (AddResult, error) {
	if !e.seams.Auth.IsAuthorized() {
		return AddResult{}, shared.ErrUnauthorized
	}

	result := AddResult{Track: track, Playlist: playlist}

	if !e.opts.AllowDuplicates {
		present, err := e.ContainsTrack(ctx, playlist.ID, track.ID)
		if err != nil {
			return AddResult{}, err
		}
		if present {
			e.logger.Info("skipping duplicate", "track", track.Name, "playlist", playlist.Name)
			result.Kind = Duplicate
			return result, nil
		}
	}

	snapshot, err := e.seams.Appender.Append(ctx, playlist.ID, track.URI)
	if err != nil {
		return AddResult{}, fmt.Errorf("failed to append track: %w", err)
	}

	e.logger.Info("track added", "track", track.Name, "playlist", playlist.Name, "snapshot", snapshot)
	result.Kind = Added
	result.SnapshotID = snapshot

	return result, nil
}

// AddCurrentTrack captures the playing track and appends it to the
// playlist.
func (e *Engine) AddCurrentTrack(ctx context.Context, playlist services.Playlist) (AddResult, error) {
	track, err := e.CurrentTrack(ctx)
	if err != nil {
		return AddResult{}, err
	}

	return e.AddTrack(ctx, playlist, track)
}
