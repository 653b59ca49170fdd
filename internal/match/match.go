// Package match scores spoken phrases against candidate names.
//
// Scores are normalized to [0, 1] where 0 is an exact match after
// normalization. A phrase is scored two ways and takes the better of
// the two: whole-string edit distance, and token alignment. Token
// alignment lets a single spoken word like "mix" land near every
// candidate containing that word instead of being drowned by the
// characters it omits.
package match

import (
	"sort"

	"github.com/desertthunder/trackdrop/internal/shared"
	"github.com/hbollon/go-edlib"
)

// unmatchedTokenPenalty weights candidate tokens the phrase never
// touched. Kept below the coverage term so omitting words costs less
// than garbling them.
const unmatchedTokenPenalty = 0.3

// Match is one scored candidate. Index refers to the caller's
// candidate slice.
type Match struct {
	Index int
	Score float64
}

// Matcher ranks candidates below a score threshold.
type Matcher struct {
	// Threshold excludes candidates scoring at or above it.
	Threshold float64
}

func NewMatcher(threshold float64) Matcher {
	return Matcher{Threshold: threshold}
}

// Search scores every candidate against the phrase and returns the
// ones under the threshold, best first. Ties keep candidate order.
func (m Matcher) Search(phrase string, candidates []string) ([]Match, error) {
	query := shared.NormalizeName(phrase)
	if query == "" {
		return nil, nil
	}

	var matches []Match
	for i, candidate := range candidates {
		score, err := Score(query, shared.NormalizeName(candidate))
		if err != nil {
			return nil, err
		}
		if score >= m.Threshold {
			continue
		}
		matches = append(matches, Match{Index: i, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score < matches[j].Score
	})

	return matches, nil
}

// Score computes the distance between two normalized names. Lower is
// better; identical names score 0.
func Score(query, candidate string) (float64, error) {
	if query == candidate {
		return 0, nil
	}
	if query == "" || candidate == "" {
		return 1, nil
	}

	whole, err := distance(query, candidate)
	if err != nil {
		return 0, err
	}

	token, err := tokenScore(query, candidate)
	if err != nil {
		return 0, err
	}

	if token < whole {
		return token, nil
	}
	return whole, nil
}

// distance is the normalized edit distance between two strings.
func distance(a, b string) (float64, error) {
	similarity, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0, err
	}
	return 1 - float64(similarity), nil
}

// tokenScore aligns each query token with its closest candidate token,
// then charges for candidate tokens no query token claimed.
func tokenScore(query, candidate string) (float64, error) {
	queryTokens := shared.Tokens(query)
	candidateTokens := shared.Tokens(candidate)
	if len(queryTokens) == 0 || len(candidateTokens) == 0 {
		return 1, nil
	}

	claimed := make([]bool, len(candidateTokens))
	var totalSimilarity float64
	for _, qt := range queryTokens {
		best := -1.0
		bestIdx := 0
		for j, ct := range candidateTokens {
			d, err := distance(qt, ct)
			if err != nil {
				return 0, err
			}
			if sim := 1 - d; sim > best {
				best = sim
				bestIdx = j
			}
		}
		totalSimilarity += best
		claimed[bestIdx] = true
	}

	unclaimed := 0
	for _, c := range claimed {
		if !c {
			unclaimed++
		}
	}

	coverage := 1 - totalSimilarity/float64(len(queryTokens))
	penalty := unmatchedTokenPenalty * float64(unclaimed) / float64(len(candidateTokens))

	return coverage + penalty, nil
}
