// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package resolver

import (
	"testing"

	"github.com/cinechat/cinechat/internal/catalog"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]catalog.Row{
		{Title: "The Notebook (2004)", Genres: "Drama|Romance"},
		{Title: "Titanic (1997)", Genres: "Drama|Romance"},
		{Title: "Titan A.E. (2000)", Genres: "Animation|Sci-Fi"},
		{Title: "Scream (1996)", Genres: "Horror"},
		{Title: "Scream 2 (1997)", Genres: "Horror"},
		{Title: "Scream 3 (2000)", Genres: "Horror"},
		{Title: "American President, The (1995)", Genres: "Comedy|Drama|Romance"},
	})
}

func TestResolveExactTitle(t *testing.T) {
	t.Parallel()

	r := New(testCatalog())

	cands := r.ResolveCandidates("Titanic")
	if len(cands) != 1 {
		t.Fatalf("got %d candidates, want 1 (exact match collapses)", len(cands))
	}
	if cands[0].Movie.ID != 1 || cands[0].Distance != 0 {
		t.Errorf("got movie %d at distance %d, want movie 1 at 0", cands[0].Movie.ID, cands[0].Distance)
	}
}

func TestResolveExactTitleWithYear(t *testing.T) {
	t.Parallel()

	r := New(testCatalog())

	cands := r.ResolveCandidates("Titanic (1997)")
	if len(cands) == 0 {
		t.Fatal("no candidates for year-qualified query")
	}
	if cands[0].Movie.ID != 1 || cands[0].Distance != 0 {
		t.Errorf("got movie %d at distance %d, want movie 1 at 0", cands[0].Movie.ID, cands[0].Distance)
	}
}

func TestResolveRotatedArticle(t *testing.T) {
	t.Parallel()

	r := New(testCatalog())

	cands := r.ResolveCandidates("The American President")
	if len(cands) != 1 || cands[0].Movie.ID != 6 {
		t.Fatalf("candidates = %v, want sole match on movie 6", cands)
	}
	if cands[0].Distance != 0 {
		t.Errorf("distance = %d, want 0 via rotated title variant", cands[0].Distance)
	}
}

func TestResolveSubstringOrdering(t *testing.T) {
	t.Parallel()

	r := New(testCatalog())

	// "Titan" is a prefix of both movies; the shorter surplus ranks first.
	cands := r.ResolveCandidates("Titan")
	if len(cands) != 2 {
		t.Fatalf("got %d candidates, want 2", len(cands))
	}
	if cands[0].Movie.ID != 1 || cands[1].Movie.ID != 2 {
		t.Errorf("order = [%d %d], want [1 2]", cands[0].Movie.ID, cands[1].Movie.ID)
	}
	if cands[0].Distance >= cands[1].Distance {
		t.Errorf("distances not ascending: %d, %d", cands[0].Distance, cands[1].Distance)
	}
}

func TestResolveTypoWithinEditLimit(t *testing.T) {
	t.Parallel()

	r := New(testCatalog())

	cands := r.ResolveCandidates("Sceam")
	if len(cands) != 3 {
		t.Fatalf("got %d candidates, want all three Scream movies", len(cands))
	}
	if cands[0].Movie.ID != 3 {
		t.Errorf("front-runner = movie %d, want 3", cands[0].Movie.ID)
	}
	// The sequels tie; the tie breaks by ID.
	if cands[1].Movie.ID != 4 || cands[2].Movie.ID != 5 {
		t.Errorf("tie order = [%d %d], want [4 5]", cands[1].Movie.ID, cands[2].Movie.ID)
	}
}

func TestResolveNoMatch(t *testing.T) {
	t.Parallel()

	r := New(testCatalog())
	if cands := r.ResolveCandidates("Completely Unrelated Query String"); len(cands) != 0 {
		t.Errorf("got %d candidates, want 0", len(cands))
	}
	if cands := r.ResolveCandidates(""); cands != nil {
		t.Errorf("empty query returned %v, want nil", cands)
	}
}

func TestResolveWildcardGap(t *testing.T) {
	t.Parallel()

	r := New(testCatalog())

	// Lowercased queries match through the case-insensitive wildcard tier.
	cands := r.ResolveCandidates("american president")
	if len(cands) == 0 {
		t.Fatal("no candidates for wildcard query")
	}
	if cands[0].Movie.ID != 6 {
		t.Errorf("front-runner = movie %d, want 6", cands[0].Movie.ID)
	}
}

func TestAdoptPolicy(t *testing.T) {
	t.Parallel()

	cat := testCatalog()
	near := Candidate{Movie: cat.Movies[3], Distance: 1}
	far := Candidate{Movie: cat.Movies[4], Distance: 8}

	tests := []struct {
		name   string
		cands  []Candidate
		greedy bool
		want   int // movie ID, -1 for nil
	}{
		{"empty list", nil, false, -1},
		{"empty list greedy", nil, true, -1},
		{"greedy takes front-runner", []Candidate{far, near}, true, 4},
		{"sole near candidate adopted", []Candidate{near}, false, 3},
		{"sole far candidate surfaced", []Candidate{far}, false, -1},
		{"multiple candidates surfaced", []Candidate{near, far}, false, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Adopt(tt.cands, tt.greedy)
			if tt.want == -1 {
				if got != nil {
					t.Errorf("Adopt() = movie %d, want nil", got.ID)
				}
				return
			}
			if got == nil || got.ID != tt.want {
				t.Errorf("Adopt() = %v, want movie %d", got, tt.want)
			}
		})
	}
}
