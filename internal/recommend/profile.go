// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package recommend scores unrated movies for a conversation's preference
// profile. Two independent scorers — genre-preference aggregation and
// user-user collaborative filtering over the historical ratings matrix —
// are merged by summed score, and the argmax becomes the recommendation.
package recommend

// MinProfileSize is the number of committed preferences required before
// profile-driven recommendation becomes available.
const MinProfileSize = 4

// Profile accumulates one sentiment value per movie the user has discussed,
// in insertion order. Re-committing a movie overwrites its value without
// disturbing its position.
type Profile struct {
	order  []int
	scores map[int]float64
}

// NewProfile creates an empty preference profile.
func NewProfile() *Profile {
	return &Profile{scores: make(map[int]float64)}
}

// Set records a sentiment for a movie, overwriting any previous value.
func (p *Profile) Set(movieID int, sentiment float64) {
	if _, ok := p.scores[movieID]; !ok {
		p.order = append(p.order, movieID)
	}
	p.scores[movieID] = sentiment
}

// Len returns the number of profiled movies.
func (p *Profile) Len() int {
	return len(p.order)
}

// Has reports whether the movie has been profiled.
func (p *Profile) Has(movieID int) bool {
	_, ok := p.scores[movieID]
	return ok
}

// Get returns the recorded sentiment for a movie.
func (p *Profile) Get(movieID int) (float64, bool) {
	s, ok := p.scores[movieID]
	return s, ok
}

// Each visits every profiled movie in insertion order.
func (p *Profile) Each(fn func(movieID int, sentiment float64)) {
	for _, id := range p.order {
		fn(id, p.scores[id])
	}
}
