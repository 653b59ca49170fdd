package engine

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/trackdrop/internal/match"
	"github.com/desertthunder/trackdrop/internal/pager"
	"github.com/desertthunder/trackdrop/internal/resolve"
	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
	tu "github.com/desertthunder/trackdrop/internal/testing"
)

type fakeAuth struct{ authorized bool }

func (f fakeAuth) IsAuthorized() bool { return f.authorized }

type fakePlayback struct {
	track *services.Track
	err   error
}

func (f fakePlayback) CurrentTrack(ctx context.Context) (*services.Track, error) {
	return f.track, f.err
}

type trackSource struct {
	tracks []services.Track
	err    error
}

func (s trackSource) FirstPage(ctx context.Context) (pager.Page[services.Track], error) {
	return s.Page(ctx, 0)
}

func (s trackSource) Page(ctx context.Context, offset int) (pager.Page[services.Track], error) {
	if s.err != nil {
		return pager.Page[services.Track]{}, s.err
	}
	return pager.Page[services.Track]{Items: s.tracks, Total: len(s.tracks)}, nil
}

type fakeItems struct {
	byPlaylist map[string]trackSource
}

func (f fakeItems) Items(playlistID string) pager.Source[services.Track] {
	return f.byPlaylist[playlistID]
}

type fakeAppender struct {
	calls    int
	lastID   string
	lastURI  string
	snapshot string
	err      error
}

func (f *fakeAppender) Append(ctx context.Context, playlistID, trackURI string) (string, error) {
	f.calls++
	f.lastID = playlistID
	f.lastURI = trackURI
	if f.err != nil {
		return "", f.err
	}
	return f.snapshot, nil
}

type playlistSource struct {
	playlists []services.Playlist
	err       error
}

func (s playlistSource) FirstPage(ctx context.Context) (pager.Page[services.Playlist], error) {
	return s.Page(ctx, 0)
}

func (s playlistSource) Page(ctx context.Context, offset int) (pager.Page[services.Playlist], error) {
	if s.err != nil {
		return pager.Page[services.Playlist]{}, s.err
	}
	return pager.Page[services.Playlist]{Items: s.playlists, Total: len(s.playlists)}, nil
}

func newEngine(seams Seams, opts Options) *Engine {
	if seams.Auth == nil {
		seams.Auth = fakeAuth{authorized: true}
	}
	if seams.Playlists == nil {
		seams.Playlists = playlistSource{}
	}
	if seams.Playback == nil {
		seams.Playback = fakePlayback{}
	}
	if seams.Items == nil {
		seams.Items = fakeItems{}
	}
	if seams.Appender == nil {
		seams.Appender = &fakeAppender{}
	}
	return New(seams, nil, match.NewMatcher(0.4), resolve.NewPolicy(0.1), opts)
}

func TestContainsTrack(t *testing.T) {
	items := fakeItems{byPlaylist: map[string]trackSource{
		"p1": {tracks: []services.Track{{ID: "A"}, {ID: "B"}, {ID: "C"}}},
		"p2": {err: fmt.Errorf("service unavailable")},
	}}
	eng := newEngine(Seams{Items: items}, Options{})

	t.Run("Present", func(t *testing.T) {
		present, err := eng.ContainsTrack(context.Background(), "p1", "B")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !present {
			t.Error("expected track B to be present")
		}
	})

	t.Run("Absent", func(t *testing.T) {
		present, err := eng.ContainsTrack(context.Background(), "p1", "D")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if present {
			t.Error("expected track D to be absent")
		}
	})

	t.Run("Fetch Failure Propagates", func(t *testing.T) {
		if _, err := eng.ContainsTrack(context.Background(), "p2", "A"); err == nil {
			t.Error("expected error when track listing fails")
		}
	})
}

func TestAddTrack(t *testing.T) {
	playlist := services.Playlist{ID: "p1", Name: "Chill Mix"}
	playing := services.Track{ID: "t_new", URI: "spotify:track:t_new", Name: "New Song"}
	existing := services.Track{ID: "t_old", URI: "spotify:track:t_old", Name: "Old Song"}

	items := fakeItems{byPlaylist: map[string]trackSource{
		"p1": {tracks: []services.Track{existing}},
	}}

	t.Run("Appends New Track", func(t *testing.T) {
		appender := &fakeAppender{snapshot: "snap_1"}
		eng := newEngine(Seams{Items: items, Appender: appender}, Options{})

		result, err := eng.AddTrack(context.Background(), playlist, playing)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Kind != Added {
			t.Errorf("expected Added, got %v", result.Kind)
		}
		if result.SnapshotID != "snap_1" {
			t.Errorf("expected snapshot 'snap_1', got %s", result.SnapshotID)
		}
		if appender.lastURI != playing.URI {
			t.Errorf("expected append of %s, got %s", playing.URI, appender.lastURI)
		}
	})

	t.Run("Duplicate Skips Append", func(t *testing.T) {
		appender := &fakeAppender{snapshot: "snap_1"}
		eng := newEngine(Seams{Items: items, Appender: appender}, Options{})

		result, err := eng.AddTrack(context.Background(), playlist, existing)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Kind != Duplicate {
			t.Errorf("expected Duplicate, got %v", result.Kind)
		}
		if appender.calls != 0 {
			t.Errorf("expected appender untouched, got %d calls", appender.calls)
		}
	})

	t.Run("Allow Duplicates Bypasses Guard", func(t *testing.T) {
		appender := &fakeAppender{snapshot: "snap_2"}
		failingItems := fakeItems{byPlaylist: map[string]trackSource{
			"p1": {err: fmt.Errorf("should not be fetched")},
		}}
		eng := newEngine(Seams{Items: failingItems, Appender: appender}, Options{AllowDuplicates: true})

		result, err := eng.AddTrack(context.Background(), playlist, existing)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.Kind != Added {
			t.Errorf("expected Added, got %v", result.Kind)
		}
		if appender.calls != 1 {
			t.Errorf("expected one append, got %d", appender.calls)
		}
	})

	t.Run("Guard Failure Blocks Append", func(t *testing.T) {
		appender := &fakeAppender{}
		failingItems := fakeItems{byPlaylist: map[string]trackSource{
			"p1": {err: fmt.Errorf("service unavailable")},
		}}
		eng := newEngine(Seams{Items: failingItems, Appender: appender}, Options{})

		if _, err := eng.AddTrack(context.Background(), playlist, playing); err == nil {
			t.Fatal("expected error when the duplicate check fails")
		}
		if appender.calls != 0 {
			t.Errorf("expected appender untouched, got %d calls", appender.calls)
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		eng := newEngine(Seams{Auth: fakeAuth{false}, Items: items}, Options{})

		if _, err := eng.AddTrack(context.Background(), playlist, playing); !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestCurrentTrack(t *testing.T) {
	t.Run("Playing", func(t *testing.T) {
		playing := &services.Track{ID: "t1", Name: "Now Playing"}
		eng := newEngine(Seams{Playback: fakePlayback{track: playing}}, Options{})

		track, err := eng.CurrentTrack(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if track.ID != "t1" {
			t.Errorf("expected track t1, got %s", track.ID)
		}
	})

	t.Run("Nothing Playing", func(t *testing.T) {
		eng := newEngine(Seams{}, Options{})

		if _, err := eng.CurrentTrack(context.Background()); !errors.Is(err, shared.ErrNoActiveTrack) {
			t.Errorf("expected ErrNoActiveTrack, got %v", err)
		}
	})

	t.Run("Playback Error", func(t *testing.T) {
		eng := newEngine(Seams{Playback: fakePlayback{err: fmt.Errorf("service unavailable")}}, Options{})

		if _, err := eng.CurrentTrack(context.Background()); err == nil {
			t.Error("expected playback error to propagate")
		}
	})
}

func TestRefreshCatalog(t *testing.T) {
	playlists := []services.Playlist{{ID: "p1", Name: "Chill Mix"}}

	t.Run("Loads Playlists And Aliases", func(t *testing.T) {
		eng := newEngine(Seams{
			Playlists: playlistSource{playlists: playlists},
			Aliases:   &tu.MockAliasStore{Aliases: map[string]string{"evening": "p1"}},
		}, Options{})

		if err := eng.RefreshCatalog(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := len(eng.Catalog().Candidates()); got != 2 {
			t.Errorf("expected playlist plus alias, got %d candidates", got)
		}
	})

	t.Run("Fetch Failure Propagates", func(t *testing.T) {
		eng := newEngine(Seams{
			Playlists: playlistSource{err: fmt.Errorf("service unavailable")},
		}, Options{})

		if err := eng.RefreshCatalog(context.Background()); err == nil {
			t.Error("expected refresh error")
		}
	})

	t.Run("Alias Store Failure Propagates", func(t *testing.T) {
		eng := newEngine(Seams{
			Playlists: playlistSource{playlists: playlists},
			Aliases:   &tu.MockAliasStore{LoadErr: fmt.Errorf("database locked")},
		}, Options{})

		if err := eng.RefreshCatalog(context.Background()); err == nil {
			t.Error("expected alias load error")
		}
	})
}

func TestResolvePhrase(t *testing.T) {
	playlists := []services.Playlist{
		{ID: "p1", Name: "Chill Mix"},
		{ID: "p2", Name: "Workout Mix"},
		{ID: "p3", Name: "Road Trip"},
	}

	newResolveEngine := func(aliases map[string]string) *Engine {
		seams := Seams{Playlists: playlistSource{playlists: playlists}}
		if aliases != nil {
			seams.Aliases = &tu.MockAliasStore{Aliases: aliases}
		}
		return newEngine(seams, Options{})
	}

	t.Run("Exact Phrase Auto Accepts", func(t *testing.T) {
		eng := newResolveEngine(nil)

		resolution, err := eng.ResolvePhrase(context.Background(), "chill mix")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resolution.Decision != resolve.AutoAccept {
			t.Fatalf("expected AutoAccept, got %s", resolution.Decision)
		}
		if resolution.Playlist.ID != "p1" {
			t.Errorf("expected p1, got %s", resolution.Playlist.ID)
		}
	})

	t.Run("Shared Word Disambiguates In Order", func(t *testing.T) {
		eng := newResolveEngine(nil)

		resolution, err := eng.ResolvePhrase(context.Background(), "mix")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resolution.Decision != resolve.Disambiguate {
			t.Fatalf("expected Disambiguate, got %s", resolution.Decision)
		}
		if len(resolution.Candidates) != 2 {
			t.Fatalf("expected 2 candidates, got %d", len(resolution.Candidates))
		}
		if resolution.Candidates[0].Playlist.ID != "p1" || resolution.Candidates[1].Playlist.ID != "p2" {
			t.Error("expected tied candidates in catalog order")
		}
	})

	t.Run("Near Miss Phrase Disambiguates", func(t *testing.T) {
		eng := newEngine(Seams{Playlists: playlistSource{playlists: []services.Playlist{
			{ID: "p1", Name: "My Chill Mix"},
			{ID: "p2", Name: "Workout Mix"},
		}}}, Options{})

		resolution, err := eng.ResolvePhrase(context.Background(), "my chill list")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resolution.Decision != resolve.Disambiguate {
			t.Fatalf("expected Disambiguate, got %s", resolution.Decision)
		}
		if resolution.Candidates[0].Playlist.ID != "p1" {
			t.Errorf("expected best candidate p1, got %s", resolution.Candidates[0].Playlist.ID)
		}
	})

	t.Run("Unrelated Phrase Finds Nothing", func(t *testing.T) {
		eng := newResolveEngine(nil)

		resolution, err := eng.ResolvePhrase(context.Background(), "classical piano concertos")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resolution.Decision != resolve.NoMatch {
			t.Errorf("expected NoMatch, got %s", resolution.Decision)
		}
	})

	t.Run("Alias Phrase Auto Accepts Target", func(t *testing.T) {
		eng := newResolveEngine(map[string]string{"gym": "p2"})

		resolution, err := eng.ResolvePhrase(context.Background(), "gym")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if resolution.Decision != resolve.AutoAccept {
			t.Fatalf("expected AutoAccept, got %s", resolution.Decision)
		}
		if resolution.Playlist.ID != "p2" {
			t.Errorf("expected alias target p2, got %s", resolution.Playlist.ID)
		}
	})

	t.Run("Unauthorized", func(t *testing.T) {
		eng := newEngine(Seams{Auth: fakeAuth{false}, Playlists: playlistSource{playlists: playlists}}, Options{})

		if _, err := eng.ResolvePhrase(context.Background(), "chill mix"); !errors.Is(err, shared.ErrUnauthorized) {
			t.Errorf("expected ErrUnauthorized, got %v", err)
		}
	})
}
