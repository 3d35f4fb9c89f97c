// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package dialogue

import (
	"fmt"
	"strings"

	"github.com/cinechat/cinechat/internal/catalog"
)

// All phrasing is template selection, never generation. Pools are picked
// from with the session's injected RNG so test runs are reproducible.

var smallTalkPool = []string{
	"Let's talk about movies. There are so many good ones in my catalog!",
	"Did you know the first animated feature with synchronized sound was Steamboat Willie, back in 1928?",
	"Sometimes my creators leave me with nothing useful to say, so: seen anything good lately?",
	"I only know about movies, but I know a lot about movies.",
	"I occasionally feel like I'm only being used for recommendations. That's okay, it's what I'm for.",
	"My catalog doesn't grow on its own, but there's plenty in it already. Ask away.",
	"I can only say what my templates tell me to say. You humans and your free expression...",
	"Fun fact: I rank movies with two different scorers and add the results together.",
}

var suggestMoviePool = []string{
	"Why don't we start with discussing a movie you have seen?",
	"Tell me about a movie you saw recently?",
	"What movies have been interesting to you in the past?",
	"If I'm having trouble understanding your movies, please put the titles in quotes (\"\"). Now, any movies you want to discuss?",
	"The next thing I need is for you to tell me which movies you like.",
	"I want to get a sense of which movies you have seen. Tell me a little about your movie taste and some of your favorites!",
}

var positiveCommentPool = []string{
	"I'm glad to hear that you liked %s. Tell me more.\n",
	"That movie was great! I loved %s too. Tell me a little more about some other movies.",
	"I loved all the wonderful <genre> scenes in that movie! Tell me about more movies like %s that you liked.",
	"I really enjoyed the cinematic experience that was %s. Glad you liked it too!",
}

var negativeCommentPool = []string{
	"I'm sorry you had to sit through that. With me, you won't have to go through movies like %s again.\n",
	"I can see why you feel that way about %s.\nI especially disliked that whole <genre> part they put into it.",
	"I really couldn't agree more about your opinion on %s. Now tell me about something you enjoyed!",
	"Hopefully I can recommend movies better than %s. What a waste of your time!",
	"I guarantee I can come up with better recommendations than %s.",
	"Noted: fewer movies like %s. Tell me about another one.",
}

var neutralCommentPool = []string{
	"I found %s rather okay-ish myself. I have a bunch of other movies you might like!\n",
	"%s was so-so to me as well. Let's talk about some other movies you've enjoyed!",
	"I'm never sure how I feel about %s. Some good and some bad throughout; I imagine you feel the same way.",
}

var recommendationPool = []string{
	"I have a feeling... I think you'd like %s.",
	"Given what I've learned from you, you may enjoy %s!",
	"%s is a solid choice for your next movie.",
	"I'd definitely get started on %s.",
	"Everything you've told me points at %s.",
	"My scorers agree for once: %s.",
}

const (
	greetingSuffix = "\nMy job is to help you find some awesome movies! How can I help you?"

	farewellLine = "Have a nice day, and I hope you consider some of the recommendations I provided!"

	waitingLine = "I'm waiting..."

	unknownMovieLine = "I'm sorry, I don't know much about that movie.\n"

	choiceRetryLine = "Oops, sorry, I don't know much about the movie you were looking for.\nWhy don't we try again with a movie, and hopefully this time it's in my catalog.\n"

	choiceUnknownLine = "I don't know which movie you are talking about. Can you tell me again?\n"

	choiceUnparsedLine = "I couldn't clearly understand which option you were referring to.\n"

	needMorePreferencesLine = "I need to hear about a few more movies you've seen before I can recommend anything. Tell me about a movie you liked (or hated)!"

	describeText = `I'm a chatbot that recommends movies.
Tell me which movies you liked or disliked, briefly, and I'll come up with
something for your watch list.

What I can do:
  - Figure out which movie you're talking about if you put the title in
    quotes (and, in many cases, without them).
  - Figure out how you felt about a movie, and ask again if I didn't get
    a good read on your opinion.
  - Keep track of every movie you've told me about.
  - Handle two movies in one sentence ("I liked X but hated Y").
  - Notice when you've already seen something I recommended.
  - Recommend the most popular movies overall, or within a genre.

Once I know about four of your movies, I'll start recommending, mixing a
genre-preference model with user-user collaborative filtering.`
)

// pick selects a template at random from a pool.
func (s *Session) pick(pool []string) string {
	return pool[s.rng.Intn(len(pool))]
}

// smallTalk returns an off-topic filler line.
func (s *Session) smallTalk() string {
	return s.pick(smallTalkPool)
}

// suggestMovieTalk prompts the user to bring up a movie.
func (s *Session) suggestMovieTalk() string {
	return s.pick(suggestMoviePool)
}

// commentOnMovie acknowledges a committed sentiment with a flavor line.
// Some templates carry a <genre> slot filled from the movie's own genres.
func (s *Session) commentOnMovie(sentiment float64, movie *catalog.Movie) string {
	var pool []string
	switch {
	case sentiment > 0:
		pool = positiveCommentPool
	case sentiment < 0:
		pool = negativeCommentPool
	default:
		pool = neutralCommentPool
	}

	line := s.pick(pool)
	if strings.Contains(line, "<genre>") {
		line = strings.ReplaceAll(line, "<genre>", s.randomGenre(movie))
	}
	return fmt.Sprintf(line, movie.DisplayTitle())
}

// recommendationTalk renders a recommendation line for a movie.
func (s *Session) recommendationTalk(movie *catalog.Movie) string {
	return fmt.Sprintf(s.pick(recommendationPool), `"`+movie.DisplayTitleWithYear()+`"`)
}

// randomGenre picks one of the movie's genres, lowercased, for template
// interpolation.
func (s *Session) randomGenre(movie *catalog.Movie) string {
	if len(movie.Genres) == 0 {
		return "story"
	}
	return strings.ToLower(movie.Genres[s.rng.Intn(len(movie.Genres))])
}
