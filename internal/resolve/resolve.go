// Package resolve turns ranked matches into a decision: accept the
// best candidate outright, hand a short list back for disambiguation,
// or report that nothing matched.
package resolve

import (
	"github.com/desertthunder/trackdrop/internal/catalog"
	"github.com/desertthunder/trackdrop/internal/match"
	"github.com/desertthunder/trackdrop/internal/services"
)

// Decision classifies a resolution outcome.
type Decision int

const (
	// NoMatch means no candidate scored under the match threshold.
	NoMatch Decision = iota
	// AutoAccept means the best candidate scored under the accept
	// threshold and won without user input.
	AutoAccept
	// Disambiguate means one or more candidates qualified but none
	// was confident enough to accept automatically.
	Disambiguate
)

func (d Decision) String() string {
	switch d {
	case AutoAccept:
		return "auto-accept"
	case Disambiguate:
		return "disambiguate"
	default:
		return "no match"
	}
}

// RankedCandidate pairs a catalog candidate with its playlist and score.
type RankedCandidate struct {
	Candidate catalog.Candidate
	Playlist  services.Playlist
	Score     float64
}

// Resolution is the outcome of resolving a phrase. Playlist is set
// when Decision is AutoAccept; Candidates carries the ranked short
// list when Decision is Disambiguate.
type Resolution struct {
	Decision   Decision
	Playlist   services.Playlist
	Candidates []RankedCandidate
}

// Policy holds the auto-accept threshold. Decide assumes the matcher
// already excluded candidates at or above the match threshold.
type Policy struct {
	// Accept auto-accepts the best candidate when it scores under
	// this value.
	Accept float64
}

func NewPolicy(accept float64) Policy {
	return Policy{Accept: accept}
}

// Decide maps match results onto catalog candidates and classifies the
// outcome. Candidates whose playlist has vanished from the catalog are
// skipped.
func (p Policy) Decide(matches []match.Match, candidates []catalog.Candidate, lookup func(string) (services.Playlist, bool)) Resolution {
	ranked := make([]RankedCandidate, 0, len(matches))
	for _, m := range matches {
		if m.Index < 0 || m.Index >= len(candidates) {
			continue
		}
		cand := candidates[m.Index]
		pl, ok := lookup(cand.PlaylistID)
		if !ok {
			continue
		}
		ranked = append(ranked, RankedCandidate{Candidate: cand, Playlist: pl, Score: m.Score})
	}

	if len(ranked) == 0 {
		return Resolution{Decision: NoMatch}
	}

	if ranked[0].Score < p.Accept {
		return Resolution{Decision: AutoAccept, Playlist: ranked[0].Playlist, Candidates: ranked}
	}

	return Resolution{Decision: Disambiguate, Candidates: ranked}
}
