// Package catalog holds the in-memory snapshot of the user's playlists
// and the alias table layered on top of it, and builds the candidate
// list the matcher runs against.
package catalog

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/desertthunder/trackdrop/internal/pager"
	"github.com/desertthunder/trackdrop/internal/services"
	"github.com/desertthunder/trackdrop/internal/shared"
)

// Candidate is one matchable entry. Aliases and playlist names are
// indistinguishable to the matcher; both point at a playlist.
type Candidate struct {
	Name       string
	PlaylistID string
	IsAlias    bool
}

// Catalog is a snapshot of playlists plus aliases. Refresh replaces the
// snapshot wholesale; a failed refresh leaves the previous one intact.
type Catalog struct {
	mu        sync.RWMutex
	playlists []services.Playlist
	byID      map[string]services.Playlist
	aliases   map[string]string
}

func NewCatalog() *Catalog {
	return &Catalog{
		byID:    map[string]services.Playlist{},
		aliases: map[string]string{},
	}
}

// Refresh fetches every playlist page and swaps in the new snapshot,
// sorted case-insensitively by trimmed name.
func (c *Catalog) Refresh(ctx context.Context, source services.PlaylistSource, opts pager.Options) error {
	playlists, err := pager.FetchAll[services.Playlist](ctx, source, opts)
	if err != nil {
		return err
	}

	sort.SliceStable(playlists, func(i, j int) bool {
		return strings.ToLower(strings.TrimSpace(playlists[i].Name)) <
			strings.ToLower(strings.TrimSpace(playlists[j].Name))
	})

	byID := make(map[string]services.Playlist, len(playlists))
	for _, pl := range playlists {
		byID[pl.ID] = pl
	}

	c.mu.Lock()
	c.playlists = playlists
	c.byID = byID
	c.mu.Unlock()

	return nil
}

// SetAliases replaces the alias table.
func (c *Catalog) SetAliases(aliases map[string]string) {
	next := make(map[string]string, len(aliases))
	for name, id := range aliases {
		next[shared.NormalizeName(name)] = id
	}

	c.mu.Lock()
	c.aliases = next
	c.mu.Unlock()
}

// LoadAliases pulls the alias table from a store and installs it.
func (c *Catalog) LoadAliases(store services.AliasStore) error {
	aliases, err := store.Load()
	if err != nil {
		return err
	}
	c.SetAliases(aliases)
	return nil
}

// Playlists returns the current snapshot in sorted order.
func (c *Catalog) Playlists() []services.Playlist {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]services.Playlist(nil), c.playlists...)
}

// Candidates builds the match pool fresh from the snapshot: every
// playlist name, then every alias whose target playlist still exists.
// Aliases pointing at deleted playlists are dropped.
func (c *Catalog) Candidates() []Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()

	candidates := make([]Candidate, 0, len(c.playlists)+len(c.aliases))
	for _, pl := range c.playlists {
		candidates = append(candidates, Candidate{Name: pl.Name, PlaylistID: pl.ID})
	}

	aliasNames := make([]string, 0, len(c.aliases))
	for name := range c.aliases {
		aliasNames = append(aliasNames, name)
	}
	sort.Strings(aliasNames)

	for _, name := range aliasNames {
		id := c.aliases[name]
		if _, ok := c.byID[id]; !ok {
			continue
		}
		candidates = append(candidates, Candidate{Name: name, PlaylistID: id, IsAlias: true})
	}

	return candidates
}

// Resolve maps a candidate index back to its playlist. Indexes out of
// range and candidates whose playlist has vanished yield ok=false.
func (c *Catalog) Resolve(index int) (services.Playlist, bool) {
	candidates := c.Candidates()
	if index < 0 || index >= len(candidates) {
		return services.Playlist{}, false
	}
	return c.Lookup(candidates[index].PlaylistID)
}

// Lookup resolves a playlist ID against the snapshot.
func (c *Catalog) Lookup(playlistID string) (services.Playlist, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	pl, ok := c.byID[playlistID]
	return pl, ok
}

// Len reports the number of playlists in the snapshot.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.playlists)
}
