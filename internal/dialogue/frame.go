// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package dialogue implements the turn-based conversation state machine:
// slot-filling frames, multi-entity sentence splitting, per-turn dispatch
// and response templating. One Session owns all mutable state for one
// conversation; everything it reads through the resolver, analyzer and
// engine is shared and immutable.
package dialogue

import (
	"github.com/cinechat/cinechat/internal/catalog"
	"github.com/cinechat/cinechat/internal/resolver"
)

// State is the conversation mode driving per-turn dispatch.
type State int

const (
	// StateAwaitingMovie is the initial state: the bot is collecting
	// movie opinions.
	StateAwaitingMovie State = iota

	// StateAwaitingChoice means the last turn presented a numbered
	// disambiguation list.
	StateAwaitingChoice

	// StateAwaitingFeedback means the last turn issued a recommendation.
	StateAwaitingFeedback
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateAwaitingMovie:
		return "awaiting_movie"
	case StateAwaitingChoice:
		return "awaiting_choice"
	case StateAwaitingFeedback:
		return "awaiting_feedback"
	default:
		return "unknown"
	}
}

// Frame is the slot-filling record for the movie currently under
// discussion. HasSentiment distinguishes a real (possibly zero) score from
// the no-sentiment sentinel. Committed marks a frame whose sentiment has
// already been recorded into the preference profile.
type Frame struct {
	MovieQuery   string
	Movie        *catalog.Movie
	Sentiment    float64
	HasSentiment bool
	Candidates   []resolver.Candidate
	Committed    bool
}

// Reset clears every slot back to its initial value.
func (f *Frame) Reset() {
	*f = Frame{}
}

// Complete reports whether the frame has both a resolved movie and a
// sentiment, i.e. is ready to commit.
func (f *Frame) Complete() bool {
	return f.Movie != nil && f.HasSentiment
}
