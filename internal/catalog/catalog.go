// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package catalog holds the canonical movie records the rest of the system
// resolves against. The catalog is built once at startup from the raw
// dataset rows and is immutable afterwards, so it can be shared read-only
// across any number of conversations.
package catalog

import (
	"fmt"
	"sort"
)

// Movie is a single catalog entry. Identity is by ID, which doubles as the
// row index into the ratings matrix. Titles holds the canonical title plus
// every derived variant (article-rotated forms, a.k.a. titles, translations)
// the resolver iterates over.
type Movie struct {
	ID     int
	Name   string
	Titles []string
	Year   string // 4-digit year, or "" when unknown
	Genres []string
}

// DisplayTitle returns the canonical presentation form of the movie.
func (m *Movie) DisplayTitle() string {
	if len(m.Titles) > 0 {
		return m.Titles[0]
	}
	return m.Name
}

// DisplayTitleWithYear returns "Title (Year)" when the year is known.
func (m *Movie) DisplayTitleWithYear() string {
	if len(m.Year) == 4 {
		return fmt.Sprintf("%s (%s)", m.DisplayTitle(), m.Year)
	}
	return m.DisplayTitle()
}

// HasGenre reports whether the movie carries the given genre.
func (m *Movie) HasGenre(genre string) bool {
	for _, g := range m.Genres {
		if g == genre {
			return true
		}
	}
	return false
}

// Row is one raw catalog record as supplied by the dataset:
// a title (possibly carrying a trailing year and parenthesized alternates)
// and a pipe-delimited genre list.
type Row struct {
	Title  string
	Genres string
}

// Catalog is the immutable set of movies plus the derived genre universe.
type Catalog struct {
	Movies []*Movie

	// Genres is the sorted union of every movie's genres, computed once
	// when the catalog is built.
	Genres []string
}

// New builds a catalog from raw dataset rows. The movie ID is the row index,
// matching the ratings matrix layout.
func New(rows []Row) *Catalog {
	movies := make([]*Movie, 0, len(rows))
	genreSet := make(map[string]struct{})

	for i, row := range rows {
		m := buildMovie(i, row.Title, row.Genres)
		for _, g := range m.Genres {
			genreSet[g] = struct{}{}
		}
		movies = append(movies, m)
	}

	genres := make([]string, 0, len(genreSet))
	for g := range genreSet {
		genres = append(genres, g)
	}
	sort.Strings(genres)

	return &Catalog{Movies: movies, Genres: genres}
}

// Len returns the number of movies in the catalog.
func (c *Catalog) Len() int {
	return len(c.Movies)
}

// ByID returns the movie with the given ID, or nil when out of range.
func (c *Catalog) ByID(id int) *Movie {
	if id < 0 || id >= len(c.Movies) {
		return nil
	}
	return c.Movies[id]
}
