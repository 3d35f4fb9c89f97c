// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package sentiment scores free text for polarity against the stemmed
// lexicon, with negation, intensifier, elongation and discourse-contrast
// handling. A text with no lexicon hits yields no score at all rather
// than a zero, so callers can distinguish "neutral" from "silent".
package sentiment

import (
	"regexp"
	"strings"

	"github.com/cinechat/cinechat/internal/lexicon"
)

// boost is the base multiplier applied by intensifiers, ALL-CAPS tokens
// and elongation patterns.
const boost = 1.2

// punctuation stripped from non-quoted text before tokenizing. Apostrophes
// survive so contracted negatives stay intact.
const punctuation = `!@#$%^&*()_+}{][\|;:.,></?`

// negators flip the polarity of every subsequent token and are themselves
// skipped. Contracted negatives appear with and without the apostrophe.
var negators = map[string]struct{}{
	"though": {}, "although": {}, "scarcely": {}, "barely": {}, "hardly": {},
	"nor": {}, "not": {}, "neither": {}, "none": {}, "nobody": {},
	"nope": {}, "nah": {}, "never": {},
	"shouldnt": {}, "couldnt": {}, "werent": {}, "wasnt": {}, "doesnt": {},
	"isnt": {}, "arent": {}, "didnt": {}, "dont": {}, "cant": {}, "wont": {},
	"shouldn't": {}, "couldn't": {}, "weren't": {}, "wasn't": {}, "doesn't": {},
	"isn't": {}, "aren't": {}, "didn't": {}, "don't": {}, "can't": {}, "won't": {},
}

// focusWords square the focus factor for all subsequent sentiment hits,
// modeling the added weight of a contrastive clause. Matched on the raw
// lowercased token, not the stem.
var focusWords = map[string]struct{}{
	"but": {}, "however": {}, "although": {}, "therefore": {}, "thus": {}, "hence": {},
}

// intensifierStems multiply the current token's weight. Populated from the
// unstemmed word list at init so the stems track the stemmer.
var intensifierStems = make(map[string]struct{})

// elongationPatterns match a known intensifier with any letters repeated,
// e.g. "rea+lly+" matching "reaaally". Each pattern is the word expanded
// per letter into "c+".
var elongationPatterns []*regexp.Regexp

func init() {
	for _, w := range []string{"love", "hate", "favorite", "disgusting"} {
		intensifierStems[lexicon.Stem(w)] = struct{}{}
	}
	for _, w := range []string{"really", "very", "absolutely", "extremely", "quite", "rather", "terribly", "too"} {
		var b strings.Builder
		for _, c := range w {
			b.WriteRune(c)
			b.WriteByte('+')
		}
		elongationPatterns = append(elongationPatterns, regexp.MustCompile(b.String()))
	}
}

// StripQuoted removes quoted spans and the fixed punctuation set from a
// line, so movie titles inside quotes do not pollute sentiment tokens.
func StripQuoted(line string) string {
	var b strings.Builder
	inQuote := false
	for _, c := range line {
		if c == '"' {
			inQuote = !inQuote
			continue
		}
		if !inQuote && !strings.ContainsRune(punctuation, c) {
			b.WriteRune(c)
		}
	}
	return b.String()
}

// Analyzer scores text against a lexicon.
type Analyzer struct {
	lex *lexicon.Lexicon
}

// New creates an analyzer over the given lexicon.
func New(lex *lexicon.Lexicon) *Analyzer {
	return &Analyzer{lex: lex}
}

// HasPolarity reports whether a raw word carries lexicon polarity.
func (a *Analyzer) HasPolarity(word string) bool {
	_, ok := a.lex.LookupWord(word)
	return ok
}

// Score computes the sentiment of text. The second return value is false
// when no token matched the lexicon; the score is then meaningless.
//
// Positive scores mean positive sentiment, higher is stronger; negative
// scores mirror that; zero means balanced.
func (a *Analyzer) Score(text string) (float64, bool) {
	exclamations := strings.Count(text, "!")
	tokens := strings.Fields(StripQuoted(text))

	var positive, negative float64
	hit := false
	negated := false
	focus := 1.0
	mult := 1.0

	for _, token := range tokens {
		lower := strings.ToLower(token)
		if _, ok := negators[lower]; ok {
			negated = !negated
			continue
		}

		stem := lexicon.Stem(lower)
		if token == strings.ToUpper(token) {
			mult *= boost
		}
		if _, ok := focusWords[lower]; ok {
			focus = boost * boost
		}
		if _, ok := intensifierStems[stem]; ok {
			mult *= boost
		}

		if p, ok := a.lex.Lookup(stem); ok {
			positiveHit := p == lexicon.Positive
			if negated {
				positiveHit = !positiveHit
			}
			if positiveHit {
				positive += mult * focus
			} else {
				negative += mult * focus
			}
			hit = true
		}

		// Elongated intensifiers weight the following token.
		mult = 1.0
		for _, re := range elongationPatterns {
			if re.MatchString(lower) {
				mult *= boost
				if token == strings.ToUpper(token) {
					mult *= boost
				}
			}
		}
	}

	if !hit {
		return 0, false
	}
	return (positive - negative) * (1 + float64(exclamations)/2), true
}
