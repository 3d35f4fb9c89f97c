// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package lexicon provides the stemmed sentiment lexicon: a fixed mapping
// from word stems to polarity, built once at startup. Lookups of absent
// keys return an explicit neutral result, never an error.
package lexicon

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/kljensen/snowball/english"
)

// Polarity is the sentiment orientation of a lexicon entry.
type Polarity int8

const (
	// Neutral is the zero value returned for words the lexicon does not know.
	Neutral Polarity = iota
	// Positive marks a positive-sentiment word.
	Positive
	// Negative marks a negative-sentiment word.
	Negative
)

// Stem reduces a word to its lookup stem. Both lexicon keys and query
// tokens must pass through the same stemmer for matching to work.
func Stem(word string) string {
	return english.Stem(strings.ToLower(word), false)
}

// Entry is one raw lexicon record: a word and its polarity tag.
type Entry struct {
	Word     string
	Polarity Polarity
}

// Lexicon maps word stems to polarity.
type Lexicon struct {
	entries map[string]Polarity
}

// New builds a lexicon from raw entries, stemming every key.
func New(entries []Entry) *Lexicon {
	m := make(map[string]Polarity, len(entries))
	for _, e := range entries {
		m[Stem(e.Word)] = e.Polarity
	}
	return &Lexicon{entries: m}
}

// Len returns the number of distinct stems in the lexicon.
func (l *Lexicon) Len() int {
	return len(l.entries)
}

// Lookup returns the polarity for an already-stemmed token. The second
// return value is false when the stem is unknown; the polarity is then
// Neutral.
func (l *Lexicon) Lookup(stem string) (Polarity, bool) {
	p, ok := l.entries[stem]
	return p, ok
}

// LookupWord stems a raw word and looks it up.
func (l *Lexicon) LookupWord(word string) (Polarity, bool) {
	return l.Lookup(Stem(word))
}

// Load reads the lexicon CSV: one record per word with two fields,
// word and "pos" or "neg". Any other polarity tag is a data error.
func Load(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lexicon file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse lexicon file %s: %w", path, err)
	}

	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		if len(rec) < 2 {
			return nil, fmt.Errorf("lexicon file %s: record %d has %d fields, want 2", path, i+1, len(rec))
		}
		var p Polarity
		switch rec[1] {
		case "pos":
			p = Positive
		case "neg":
			p = Negative
		default:
			return nil, fmt.Errorf("lexicon file %s: record %d has polarity %q, want pos or neg", path, i+1, rec[1])
		}
		entries = append(entries, Entry{Word: rec[0], Polarity: p})
	}
	return New(entries), nil
}
