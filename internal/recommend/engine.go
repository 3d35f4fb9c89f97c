// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package recommend

import (
	"sort"

	"github.com/cinechat/cinechat/internal/catalog"
)

// Engine scores candidate movies against a preference profile. The catalog
// and ratings matrix are read-only and shared; all per-conversation state
// (profile, already-recommended set) is passed in per call, so one engine
// serves every conversation.
type Engine struct {
	cat     *catalog.Catalog
	ratings [][]float64
}

// New creates an engine over the catalog and its ratings matrix. The
// matrix rows are indexed by movie ID; columns are historical users.
func New(cat *catalog.Catalog, ratings [][]float64) *Engine {
	return &Engine{cat: cat, ratings: ratings}
}

// excluded reports whether a movie must be kept out of candidate pools:
// anything already profiled or already recommended this conversation.
func excluded(movieID int, profile *Profile, recommended map[int]struct{}) bool {
	if profile != nil && profile.Has(movieID) {
		return true
	}
	_, done := recommended[movieID]
	return done
}

// GenreScores aggregates profiled sentiment by genre and projects it onto
// unrated movies sharing those genres. Unavailable (nil) until the profile
// reaches MinProfileSize.
func (e *Engine) GenreScores(profile *Profile, recommended map[int]struct{}) map[int]float64 {
	if profile.Len() < MinProfileSize {
		return nil
	}

	genrePrefs := make(map[string]float64)
	profile.Each(func(movieID int, sentiment float64) {
		if m := e.cat.ByID(movieID); m != nil {
			for _, g := range m.Genres {
				genrePrefs[g] += sentiment
			}
		}
	})

	scores := make(map[int]float64)
	for _, m := range e.cat.Movies {
		if excluded(m.ID, profile, recommended) {
			continue
		}
		var score float64
		for _, g := range m.Genres {
			score += genrePrefs[g]
		}
		scores[m.ID] = score
	}
	return scores
}

// CollaborativeScores runs user-user collaborative filtering: center each
// historical user's column by subtracting its sum, build a query vector
// from the transformed profile sentiments, weight each qualifying user by
// the L1-product similarity coefficient, and average their centered
// ratings per candidate. Falls back to GenreScores when no user qualifies.
func (e *Engine) CollaborativeScores(profile *Profile, recommended map[int]struct{}) map[int]float64 {
	nMovies := e.cat.Len()
	if nMovies == 0 || len(e.ratings) == 0 || len(e.ratings[0]) == 0 {
		return e.GenreScores(profile, recommended)
	}
	nUsers := len(e.ratings[0])

	colSums := make([]float64, nUsers)
	for _, row := range e.ratings {
		for j, v := range row {
			colSums[j] += v
		}
	}
	centered := make([][]float64, len(e.ratings))
	for i, row := range e.ratings {
		c := make([]float64, nUsers)
		for j, v := range row {
			c[j] = v - colSums[j]
		}
		centered[i] = c
	}

	query := make([]float64, nMovies)
	profile.Each(func(movieID int, sentiment float64) {
		if movieID >= 0 && movieID < nMovies {
			query[movieID] = transformSentiment(sentiment)
		}
	})

	// Coefficient per historical user; only strictly positive ones count.
	coeffs := make(map[int]float64)
	var coeffSum float64
	column := make([]float64, len(centered))
	for j := 0; j < nUsers; j++ {
		for i := range centered {
			column[i] = centered[i][j]
		}
		if c := Similarity(column, query); c > 0 {
			coeffs[j] = c
			coeffSum += c
		}
	}
	if coeffSum == 0 {
		return e.GenreScores(profile, recommended)
	}

	scores := make(map[int]float64)
	for _, m := range e.cat.Movies {
		if excluded(m.ID, profile, recommended) {
			continue
		}
		if m.ID >= len(centered) || query[m.ID] != 0 {
			continue
		}
		var rating float64
		for j, c := range coeffs {
			rating += c * centered[m.ID][j]
		}
		scores[m.ID] = rating / coeffSum
	}
	return scores
}

// transformSentiment maps conversational sentiment (roughly -5..5) onto
// the 1..5 rating scale of the historical matrix.
func transformSentiment(sentiment float64) float64 {
	return (sentiment+3)/2 + 1
}

// Recommend merges the two scorers and returns the argmax candidate, or
// nil when neither scorer produced anything.
func (e *Engine) Recommend(profile *Profile, recommended map[int]struct{}) *catalog.Movie {
	merged := Merge(
		e.GenreScores(profile, recommended),
		e.CollaborativeScores(profile, recommended),
	)
	id, ok := ArgMax(merged)
	if !ok {
		return nil
	}
	return e.cat.ByID(id)
}

// Merge sums score maps entry-wise, treating missing entries as zero.
func Merge(maps ...map[int]float64) map[int]float64 {
	merged := make(map[int]float64)
	for _, m := range maps {
		for id, score := range m {
			merged[id] += score
		}
	}
	return merged
}

// ArgMax returns the movie ID with the highest score. Ties break toward
// the lowest ID so ranking is deterministic regardless of map order.
func ArgMax(scores map[int]float64) (int, bool) {
	if len(scores) == 0 {
		return 0, false
	}
	ids := make([]int, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	best := ids[0]
	for _, id := range ids[1:] {
		if scores[id] > scores[best] {
			best = id
		}
	}
	return best, true
}
