// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package recommend

// Popularity scorers back the explicit "recommend me something popular"
// request path. They need no preference profile: scores come straight
// from the historical matrix.

// BestOverall scores every candidate movie by the average of its strictly
// positive historical ratings. Movies with no positive ratings score zero.
func (e *Engine) BestOverall(profile *Profile, recommended map[int]struct{}) map[int]float64 {
	scores := make(map[int]float64)
	for _, m := range e.cat.Movies {
		if excluded(m.ID, profile, recommended) {
			continue
		}
		if m.ID >= len(e.ratings) {
			continue
		}
		var total float64
		var n int
		for _, v := range e.ratings[m.ID] {
			if v > 0 {
				total += v
				n++
			}
		}
		if n > 0 {
			scores[m.ID] = total / float64(n)
		} else {
			scores[m.ID] = total
		}
	}
	return scores
}

// BestInGenre filters BestOverall down to movies carrying the genre.
func (e *Engine) BestInGenre(genre string, profile *Profile, recommended map[int]struct{}) map[int]float64 {
	scores := make(map[int]float64)
	for id, score := range e.BestOverall(profile, recommended) {
		if m := e.cat.ByID(id); m != nil && m.HasGenre(genre) {
			scores[id] = score
		}
	}
	return scores
}
