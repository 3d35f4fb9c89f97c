// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package dialogue

import (
	"regexp"
	"strings"
)

// SplitThreshold is the quote-character count at which a turn is treated
// as naming multiple movies (two quoted spans).
const SplitThreshold = 4

// entityPattern pairs a conjunction regex with the polarity each captured
// title receives: true keeps the sentence sentiment, false negates it.
// Patterns are tried strictly in order and the first match wins, so the
// more specific conjunctions shadow the generic two-span fallback.
type entityPattern struct {
	name     string
	re       *regexp.Regexp
	polarity []bool
}

const quoted = `"(.*?)"`

var entityPatterns = []entityPattern{
	// "neither A nor B": the sentence sentiment already carries the flip
	// from the "neither" negator, and both entities share the inverted
	// polarity.
	{"neither-nor", regexp.MustCompile(`neither ` + quoted + `,? nor ` + quoted), []bool{false, false}},
	// "I liked A but hated B": the first slot keeps the sentence
	// sentiment, the contrasted slot inverts it.
	{"but-contrast", regexp.MustCompile(quoted + `[^"]*,? but [^"]*` + quoted), []bool{true, false}},
	// "A ... and B" chains: every entity shares the sentence sentiment.
	{"and-chain", regexp.MustCompile(quoted + `(?:[^"]* and ` + quoted + `)+`), []bool{true, true}},
	// "either A or B": first keeps, second inverts.
	{"either-or", regexp.MustCompile(`either ` + quoted + `,? or ` + quoted), []bool{true, false}},
	// Fallback: any two quoted spans, both keeping the sentence sentiment.
	{"two-span", regexp.MustCompile(quoted + `[^"]+` + quoted), []bool{true, true}},
}

// SplitEntities extracts the quoted movie titles from a multi-entity
// sentence along with each title's polarity relative to the sentence
// sentiment. The boolean result is false when no pattern matched.
func SplitEntities(input string) (titles []string, keepPolarity []bool, ok bool) {
	for _, p := range entityPatterns {
		m := p.re.FindStringSubmatch(input)
		if m == nil {
			continue
		}
		for i, title := range m[1:] {
			titles = append(titles, title)
			keepPolarity = append(keepPolarity, p.polarity[i])
		}
		return titles, keepPolarity, true
	}
	return nil, nil, false
}

// IsMultiEntity reports whether the input holds at least two quoted spans.
func IsMultiEntity(input string) bool {
	return strings.Count(input, `"`) >= SplitThreshold
}
