// package services defines the remote collaborator seams for the resolution
// and ingestion engine, plus the Spotify implementation.
//
// The engine never talks to the network directly; it consumes the narrow
// interfaces below so tests can substitute doubles.
package services

import (
	"context"

	"github.com/desertthunder/trackdrop/internal/pager"
	"golang.org/x/oauth2"
)

// Playlist represents a remotely hosted playlist.
// Immutable once fetched; identity is ID.
type Playlist struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	URI        string `json:"uri"`
	TrackCount int    `json:"track_count"`
}

// Track represents a currently playing or playlist-contained track.
// Identity is ID.
type Track struct {
	ID     string `json:"id"`
	URI    string `json:"uri"`
	Name   string `json:"name"`
	Artist string `json:"artist"`
}

// Alias is a user-defined alternate name mapped to a playlist id.
//
// The playlist id is a soft reference: the target playlist may no longer
// exist, and lookups that miss are dropped rather than treated as corruption.
type Alias struct {
	Name       string `json:"name"`
	PlaylistID string `json:"playlist_id"`
}

// PlaylistSource pages through the authenticated user's playlist collection.
type PlaylistSource interface {
	pager.Source[Playlist]
}

// PlaylistItemsSource provides a page source scoped to one playlist's contents.
type PlaylistItemsSource interface {
	Items(playlistID string) pager.Source[Track]
}

// PlaybackSource reports the user's current playback.
//
// CurrentTrack returns (nil, nil) when nothing is playing; errors are reserved
// for transport failures.
type PlaybackSource interface {
	CurrentTrack(ctx context.Context) (*Track, error)
}

// Appender is the mutating "add track to playlist" capability.
// Returns the remote snapshot id identifying the playlist revision.
type Appender interface {
	Append(ctx context.Context, playlistID, trackURI string) (string, error)
}

// AuthState is the authorization gate checked before any remote call.
// The engine performs no authorization logic itself.
type AuthState interface {
	IsAuthorized() bool
}

// AliasStore is the persisted key-value collaborator holding the alias table.
type AliasStore interface {
	Load() (map[string]string, error)
	Save(aliases map[string]string) error
}

// OAuthService is implemented by services that authenticate via the
// OAuth2 authorization code flow.
type OAuthService interface {
	AuthState
	GetAuthURL(state string) string
	GetOAuthConfig() *oauth2.Config
	Authenticate(ctx context.Context, credentials map[string]string) error
}

// Service bundles every remote capability the CLI consumes. SpotifyService
// is the production implementation.
type Service interface {
	AuthState
	PlaybackSource
	PlaylistItemsSource
	Appender
	pager.Source[Playlist]
	Name() string
}
