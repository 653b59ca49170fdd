// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"

	"github.com/desertthunder/trackdrop/internal/pager"
	"github.com/desertthunder/trackdrop/internal/services"
)

// MockService is a configurable test double for [services.Service].
type MockService struct {
	Authorized   bool
	Playlists    []services.Playlist
	Tracks       map[string][]services.Track
	Playing      *services.Track
	PlaybackErr  error
	FetchErr     error
	AppendErr    error
	SnapshotID   string
	AppendCalls  int
	LastAppendID string
	LastURI      string
}

func (m *MockService) Name() string { return "mock" }

func (m *MockService) IsAuthorized() bool { return m.Authorized }

func (m *MockService) FirstPage(ctx context.Context) (pager.Page[services.Playlist], error) {
	return m.Page(ctx, 0)
}

func (m *MockService) Page(ctx context.Context, offset int) (pager.Page[services.Playlist], error) {
	if m.FetchErr != nil {
		return pager.Page[services.Playlist]{}, m.FetchErr
	}
	return pager.Page[services.Playlist]{
		Items: m.Playlists,
		Total: len(m.Playlists),
	}, nil
}

// mockTrackSource serves one playlist's tracks as a single page.
type mockTrackSource struct {
	svc        *MockService
	playlistID string
}

func (s mockTrackSource) FirstPage(ctx context.Context) (pager.Page[services.Track], error) {
	return s.Page(ctx, 0)
}

func (s mockTrackSource) Page(ctx context.Context, offset int) (pager.Page[services.Track], error) {
	if s.svc.FetchErr != nil {
		return pager.Page[services.Track]{}, s.svc.FetchErr
	}
	tracks := s.svc.Tracks[s.playlistID]
	return pager.Page[services.Track]{Items: tracks, Total: len(tracks)}, nil
}

func (m *MockService) Items(playlistID string) pager.Source[services.Track] {
	return mockTrackSource{svc: m, playlistID: playlistID}
}

func (m *MockService) CurrentTrack(ctx context.Context) (*services.Track, error) {
	return m.Playing, m.PlaybackErr
}

func (m *MockService) Append(ctx context.Context, playlistID, trackURI string) (string, error) {
	m.AppendCalls++
	m.LastAppendID = playlistID
	m.LastURI = trackURI
	if m.AppendErr != nil {
		return "", m.AppendErr
	}
	return m.SnapshotID, nil
}

// MockAliasStore is an in-memory test double for [services.AliasStore].
type MockAliasStore struct {
	Aliases map[string]string
	LoadErr error
	SaveErr error
}

func (m *MockAliasStore) Load() (map[string]string, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	return m.Aliases, nil
}

func (m *MockAliasStore) Save(aliases map[string]string) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Aliases = aliases
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) *LimitedWriter {
	return &LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}
