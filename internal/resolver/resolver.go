// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package resolver fuzzy-matches free-text movie references against the
// catalog. Matching runs in three tiers per title variant: literal
// substring (scored by length surplus), wildcard match within a length-gap
// threshold (same score), and Levenshtein edit distance (scored at four
// times the edit count). Lower distances are better.
package resolver

import (
	"regexp"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/cinechat/cinechat/internal/catalog"
)

const (
	// EditLimit is the maximum accepted Levenshtein distance.
	EditLimit = 3

	// Threshold is the maximum accepted candidate distance. Edit-distance
	// matches score editDistance*4, so the worst accepted edit match ties
	// the threshold exactly.
	Threshold = 4 * EditLimit

	// MaxCandidates caps the disambiguation list surfaced to the user.
	MaxCandidates = 5

	// noMatch is the distance sentinel for titles that match no tier.
	noMatch = 111
)

// Candidate is a catalog movie with its match distance for one query.
type Candidate struct {
	Movie    *catalog.Movie
	Distance int
}

// Resolver matches queries against a fixed catalog.
type Resolver struct {
	cat *catalog.Catalog
}

// New creates a resolver over the given catalog.
func New(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat}
}

// buildWildcard compiles a case-insensitive pattern from the query with
// spaces matching anything, so "harry potter" matches
// "harry potter and the ...". Literal regex metacharacters in the query
// are quoted.
func buildWildcard(query string) *regexp.Regexp {
	parts := strings.Split(strings.ToLower(query), " ")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(strings.Join(parts, ".*"))
}

// stringDistance scores one title form against the query.
func stringDistance(title, query string, wildcard *regexp.Regexp) int {
	if strings.Contains(title, query) {
		return len(title) - len(query)
	}
	if len(title)-len(query) <= Threshold {
		lower := strings.ToLower(title)
		if wildcard.MatchString(lower) {
			return len(title) - len(query)
		}
		if d := levenshtein.ComputeDistance(lower, strings.ToLower(query)); d <= EditLimit {
			return d * 4
		}
	}
	return noMatch
}

// titleDistance scores a title variant against the query, retrying with
// year-suffixed forms when the year is known and keeping the minimum.
func titleDistance(title, query, year string, wildcard *regexp.Regexp) int {
	best := stringDistance(title, query, wildcard)
	if year != "" {
		if d := stringDistance(title+" "+year, query, wildcard); d < best {
			best = d
		}
		if d := stringDistance(title+" ("+year+")", query, wildcard); d < best {
			best = d
		}
	}
	return best
}

// ResolveCandidates returns the movies matching the query, sorted by
// ascending distance with movie ID as the tie-break, deduplicated and
// capped at MaxCandidates. When the best candidate scores exactly zero
// and is strictly ahead of the runner-up, the list collapses to it alone.
func (r *Resolver) ResolveCandidates(query string) []Candidate {
	if query == "" {
		return nil
	}
	wildcard := buildWildcard(query)

	candidates := make([]Candidate, 0, 8)
	for _, movie := range r.cat.Movies {
		best := noMatch
		for _, title := range movie.Titles {
			if d := titleDistance(title, query, movie.Year, wildcard); d < best {
				best = d
			}
		}
		if best <= Threshold {
			candidates = append(candidates, Candidate{Movie: movie, Distance: best})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Distance != candidates[j].Distance {
			return candidates[i].Distance < candidates[j].Distance
		}
		return candidates[i].Movie.ID < candidates[j].Movie.ID
	})

	if len(candidates) > 1 && candidates[0].Distance == 0 && candidates[1].Distance > 0 {
		candidates = candidates[:1]
	}
	if len(candidates) > MaxCandidates {
		candidates = candidates[:MaxCandidates]
	}
	return candidates
}

// Adopt applies the auto-commit policy to a candidate list: greedy mode
// takes the front-runner whenever one exists; otherwise a sole candidate
// is adopted only when its distance is below 2. A nil return means the
// list must be surfaced to the user for disambiguation.
func Adopt(candidates []Candidate, greedy bool) *catalog.Movie {
	if len(candidates) == 0 {
		return nil
	}
	if greedy {
		return candidates[0].Movie
	}
	if len(candidates) == 1 && candidates[0].Distance < 2 {
		return candidates[0].Movie
	}
	return nil
}
