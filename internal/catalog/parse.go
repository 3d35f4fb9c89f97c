// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package catalog

import (
	"regexp"
	"strings"
)

// Dataset titles arrive as e.g.
//
//	Shawshank Redemption, The (1994)
//	City of Lost Children, The (Cité des enfants perdus, La) (1995)
//	Léon: The Professional (a.k.a. The Professional) (Léon) (1994)
//
// A trailing "(YYYY)" is the release year. Text inside the remaining
// parentheses contributes alternate titles. Comma-separated phrases encode
// article rotation: "Shawshank Redemption, The" also yields
// "The Shawshank Redemption".

var (
	yearSuffixRe = regexp.MustCompile(`\s*\((\d{4})\)\s*$`)
	akaRe        = regexp.MustCompile(`\(a\.k\.a\. (.*?)\)`)
	parentheticalRe = regexp.MustCompile(`\(([^\d]+?)\)`)
)

// leading articles recognized during article rotation.
var articles = map[string]struct{}{
	"The": {}, "A": {}, "An": {}, "Le": {}, "La": {}, "Les": {}, "L'": {},
}

// splitTitleYear strips a trailing exactly-4-digit year from a raw title.
func splitTitleYear(raw string) (title, year string) {
	if m := yearSuffixRe.FindStringSubmatch(raw); m != nil {
		return raw[:len(raw)-len(m[0])], m[1]
	}
	return raw, ""
}

// titleAndPhrases drops parenthesized spans from s and splits the remainder
// on commas into trimmed phrases. The returned title keeps the commas; the
// phrases do not.
func titleAndPhrases(s string) (title string, phrases []string) {
	var titleB, phraseB strings.Builder
	depth := 0
	for _, c := range s {
		switch {
		case c == '(':
			depth++
		case c == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			titleB.WriteRune(c)
			if c == ',' {
				phrases = append(phrases, strings.TrimSpace(phraseB.String()))
				phraseB.Reset()
			} else {
				phraseB.WriteRune(c)
			}
		}
	}
	if p := strings.TrimSpace(phraseB.String()); p != "" {
		phrases = append(phrases, p)
	}
	return titleB.String(), phrases
}

// titlesFromPhrases reconstructs stylistic title variants from the phrase
// list. Each prefix of the phrase chain is emitted as a variant; a phrase
// that is a bare leading article is rotated to the front instead of being
// appended, so "Shawshank Redemption, The" yields both the comma form and
// "The Shawshank Redemption".
func titlesFromPhrases(phrases []string) []string {
	var build string
	titles := make([]string, 0, len(phrases))
	for _, phrase := range phrases {
		if _, ok := articles[phrase]; ok {
			build = phrase + " " + build
		} else if build != "" {
			build = build + ", " + phrase
		} else {
			build = phrase
		}
		titles = append(titles, build)
	}
	return titles
}

// buildMovie parses one raw dataset row into a Movie with all derived
// title variants populated.
func buildMovie(id int, titleRaw, genrePipe string) *Movie {
	base, year := splitTitleYear(titleRaw)

	title, phrases := titleAndPhrases(base)
	variants := titlesFromPhrases(phrases)

	// Alternate titles: prefer explicit "(a.k.a. ...)" parentheticals,
	// fall back to any non-digit parenthetical.
	akaMatches := akaRe.FindAllStringSubmatch(base, -1)
	if len(akaMatches) == 0 {
		akaMatches = parentheticalRe.FindAllStringSubmatch(base, -1)
	}
	for _, m := range akaMatches {
		_, akaPhrases := titleAndPhrases(m[1])
		variants = append(variants, titlesFromPhrases(akaPhrases)...)
	}

	name := strings.TrimSpace(title)
	if len(variants) == 0 {
		variants = []string{name}
	}

	return &Movie{
		ID:     id,
		Name:   name,
		Titles: variants,
		Year:   year,
		Genres: splitGenres(genrePipe),
	}
}

// splitGenres splits a pipe-delimited genre list into a deduplicated slice.
func splitGenres(genrePipe string) []string {
	seen := make(map[string]struct{})
	var genres []string
	for _, g := range strings.Split(genrePipe, "|") {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		genres = append(genres, g)
	}
	return genres
}
