// Spotify API implementation of the service seams
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/desertthunder/trackdrop/internal/pager"
	"github.com/desertthunder/trackdrop/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	playlistPageLimit = 50
	trackPageLimit    = 100
)

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Artists []SpotifyArtist `json:"artists"`
	URI     string          `json:"uri"`
}

type simplePlaylistTracks struct {
	Total int `json:"total"`
}

// SpotifySimplePlaylist represents a simplified playlist object (used in lists).
type SpotifySimplePlaylist struct {
	ID     string               `json:"id"`
	Name   string               `json:"name"`
	Tracks simplePlaylistTracks `json:"tracks"`
	Images []SpotifyImage       `json:"images"`
	URI    string               `json:"uri"`
}

// SpotifyPaginatedPlaylists represents a paginated response of playlists.
type SpotifyPaginatedPlaylists struct {
	Items  []SpotifySimplePlaylist `json:"items"`
	Total  int                     `json:"total"`
	Limit  int                     `json:"limit"`
	Offset int                     `json:"offset"`
	Next   *string                 `json:"next"`
}

// SpotifyPlaylistTrack represents a track within a playlist context.
type SpotifyPlaylistTrack struct {
	AddedAt string       `json:"added_at"`
	Track   SpotifyTrack `json:"track"`
}

// SpotifyPaginatedTracks represents a paginated response of playlist tracks.
type SpotifyPaginatedTracks struct {
	Items  []SpotifyPlaylistTrack `json:"items"`
	Total  int                    `json:"total"`
	Limit  int                    `json:"limit"`
	Offset int                    `json:"offset"`
	Next   *string                `json:"next"`
}

// SpotifyCurrentlyPlaying represents the currently-playing response.
type SpotifyCurrentlyPlaying struct {
	IsPlaying bool          `json:"is_playing"`
	Item      *SpotifyTrack `json:"item"`
}

// SpotifySnapshot is the response of mutating playlist calls.
type SpotifySnapshot struct {
	SnapshotID string `json:"snapshot_id"`
}

// SpotifyService implements the PlaylistSource, PlaylistItemsSource,
// PlaybackSource, Appender and AuthState seams against the Spotify Web API.
// Uses [oauth2] for authentication.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
	baseURL    string
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"playlist-read-private",
			"playlist-read-collaborative",
			"playlist-modify-public",
			"playlist-modify-private",
			"user-read-currently-playing",
			"user-read-playback-state",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	svc := &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    spotifyBaseURL,
	}

	if accessToken := credentials["access_token"]; accessToken != "" {
		svc.token = &oauth2.Token{AccessToken: accessToken}
	}

	return svc, nil
}

// Authenticate installs an access token or exchanges an authorization code.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		s.token = &oauth2.Token{AccessToken: accessToken}
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("failed to exchange auth code: %w", err)
		}
		s.token = token
		s.httpClient = s.config.Client(ctx, s.token)
		return nil
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the underlying OAuth2 config for the callback server.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// IsAuthorized reports whether the service holds an access token.
func (s *SpotifyService) IsAuthorized() bool {
	return s.token != nil && s.token.AccessToken != ""
}

// doRequest performs an authenticated HTTP request to the Spotify API.
//
// A nil result skips response decoding; 204 responses decode to the zero value.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, body, result any) error {
	if !s.IsAuthorized() {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := s.baseURL + endpoint

	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, apiURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: status %d", shared.ErrTokenExpired, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("spotify API error: status %d", resp.StatusCode)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// UserPlaylists retrieves one page of the current user's playlists.
func (s *SpotifyService) UserPlaylists(ctx context.Context, limit, offset int) (*SpotifyPaginatedPlaylists, error) {
	if limit <= 0 || limit > playlistPageLimit {
		limit = playlistPageLimit
	}

	endpoint := fmt.Sprintf("/me/playlists?limit=%d&offset=%d", limit, offset)

	var response SpotifyPaginatedPlaylists
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// PlaylistTracks retrieves one page of a playlist's tracks.
func (s *SpotifyService) PlaylistTracks(ctx context.Context, playlistID string, limit, offset int) (*SpotifyPaginatedTracks, error) {
	if limit <= 0 || limit > trackPageLimit {
		limit = trackPageLimit
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=%d&offset=%d", url.PathEscape(playlistID), limit, offset)

	var response SpotifyPaginatedTracks
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	return &response, nil
}

// Seam implementations

// FirstPage implements pager.Source[Playlist] over /me/playlists.
func (s *SpotifyService) FirstPage(ctx context.Context) (pager.Page[Playlist], error) {
	return s.Page(ctx, 0)
}

// Page implements pager.Source[Playlist] for an arbitrary offset.
func (s *SpotifyService) Page(ctx context.Context, offset int) (pager.Page[Playlist], error) {
	response, err := s.UserPlaylists(ctx, playlistPageLimit, offset)
	if err != nil {
		return pager.Page[Playlist]{}, err
	}

	items := make([]Playlist, 0, len(response.Items))
	for _, sp := range response.Items {
		items = append(items, Playlist{
			ID:         sp.ID,
			Name:       sp.Name,
			URI:        sp.URI,
			TrackCount: sp.Tracks.Total,
		})
	}

	return pager.Page[Playlist]{
		Items:   items,
		Offset:  response.Offset,
		Total:   response.Total,
		HasMore: response.Next != nil,
	}, nil
}

// playlistItems adapts one playlist's track listing to pager.Source[Track].
type playlistItems struct {
	svc        *SpotifyService
	playlistID string
}

func (p playlistItems) FirstPage(ctx context.Context) (pager.Page[Track], error) {
	return p.Page(ctx, 0)
}

func (p playlistItems) Page(ctx context.Context, offset int) (pager.Page[Track], error) {
	response, err := p.svc.PlaylistTracks(ctx, p.playlistID, trackPageLimit, offset)
	if err != nil {
		return pager.Page[Track]{}, err
	}

	items := make([]Track, 0, len(response.Items))
	for _, item := range response.Items {
		track := Track{
			ID:   item.Track.ID,
			URI:  item.Track.URI,
			Name: item.Track.Name,
		}
		if len(item.Track.Artists) > 0 {
			track.Artist = item.Track.Artists[0].Name
		}
		items = append(items, track)
	}

	return pager.Page[Track]{
		Items:   items,
		Offset:  response.Offset,
		Total:   response.Total,
		HasMore: response.Next != nil,
	}, nil
}

// Items implements PlaylistItemsSource.
func (s *SpotifyService) Items(playlistID string) pager.Source[Track] {
	return playlistItems{svc: s, playlistID: playlistID}
}

// CurrentTrack implements PlaybackSource over /me/player/currently-playing.
//
// Spotify answers 204 with an empty body when nothing is playing; that maps to
// (nil, nil), as does a paused player.
func (s *SpotifyService) CurrentTrack(ctx context.Context) (*Track, error) {
	var response SpotifyCurrentlyPlaying
	if err := s.doRequest(ctx, http.MethodGet, "/me/player/currently-playing", nil, &response); err != nil {
		return nil, err
	}

	if !response.IsPlaying || response.Item == nil {
		return nil, nil
	}

	track := &Track{
		ID:   response.Item.ID,
		URI:  response.Item.URI,
		Name: response.Item.Name,
	}
	if len(response.Item.Artists) > 0 {
		track.Artist = response.Item.Artists[0].Name
	}

	return track, nil
}

// Append implements Appender over POST /playlists/{id}/tracks.
func (s *SpotifyService) Append(ctx context.Context, playlistID, trackURI string) (string, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks", url.PathEscape(playlistID))
	body := map[string][]string{"uris": {trackURI}}

	var snapshot SpotifySnapshot
	if err := s.doRequest(ctx, http.MethodPost, endpoint, body, &snapshot); err != nil {
		return "", err
	}

	return snapshot.SnapshotID, nil
}
