// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package dialogue

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinechat/cinechat/internal/catalog"
	"github.com/cinechat/cinechat/internal/lexicon"
	"github.com/cinechat/cinechat/internal/recommend"
	"github.com/cinechat/cinechat/internal/resolver"
	"github.com/cinechat/cinechat/internal/sentiment"
)

func testSession(t *testing.T) *Session {
	t.Helper()

	cat := catalog.New([]catalog.Row{
		{Title: "The Notebook (2004)", Genres: "Romance"},
		{Title: "Titanic (1997)", Genres: "Drama|Romance"},
		{Title: "Snow White and the Seven Dwarfs (1937)", Genres: "Animation|Children|Musical"},
		{Title: "The Lion King (1994)", Genres: "Animation|Children|Musical"},
		{Title: "Scream (1996)", Genres: "Horror"},
		{Title: "Scream 2 (1997)", Genres: "Horror"},
		{Title: "Scream 3 (2000)", Genres: "Horror"},
		{Title: "Blacksnake (1973)", Genres: "Drama"},
	})
	lex := lexicon.New([]lexicon.Entry{
		{Word: "like", Polarity: lexicon.Positive},
		{Word: "love", Polarity: lexicon.Positive},
		{Word: "great", Polarity: lexicon.Positive},
		{Word: "hate", Polarity: lexicon.Negative},
		{Word: "terrible", Polarity: lexicon.Negative},
	})

	ratings := make([][]float64, cat.Len())
	for i := range ratings {
		ratings[i] = make([]float64, 3)
	}

	return NewSession(
		cat,
		resolver.New(cat),
		sentiment.New(lex),
		recommend.New(cat, ratings),
		rand.New(rand.NewSource(1)),
		zerolog.Nop(),
	)
}

func TestGreetingAndFarewell(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	if got := s.Greeting(); !strings.Contains(got, "How can I help you?") {
		t.Errorf("Greeting() = %q, missing help prompt", got)
	}
	if got := s.Farewell(); got == "" {
		t.Error("Farewell() is empty")
	}
}

func TestProcessEmptyInput(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	if got := s.Process("   "); got != waitingLine {
		t.Errorf("Process(blank) = %q, want %q", got, waitingLine)
	}
}

func TestProcessSingleMovieWithSentiment(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	got := s.Process(`I loved "The Notebook"`)

	if !strings.Contains(got, "The Notebook") {
		t.Errorf("response %q does not acknowledge the movie", got)
	}
	if s.ProfileSize() != 1 {
		t.Errorf("profile size = %d, want 1", s.ProfileSize())
	}
	if s.State() != StateAwaitingMovie {
		t.Errorf("state = %v, want StateAwaitingMovie", s.State())
	}
}

func TestProcessAsksForMissingSentiment(t *testing.T) {
	t.Parallel()

	s := testSession(t)

	got := s.Process(`"Titanic"`)
	if !strings.Contains(got, "How did you like Titanic?") {
		t.Errorf("response = %q, want sentiment prompt", got)
	}
	if s.ProfileSize() != 0 {
		t.Errorf("profile size = %d, want 0 before sentiment arrives", s.ProfileSize())
	}

	got = s.Process("I loved it")
	if !strings.Contains(got, "Titanic") {
		t.Errorf("response = %q, want commitment comment for Titanic", got)
	}
	if s.ProfileSize() != 1 {
		t.Errorf("profile size = %d, want 1 after sentiment", s.ProfileSize())
	}
}

func TestProcessUnquotedCapitalizedTitle(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	got := s.Process("I loved The Lion King")

	if !strings.Contains(got, "Lion King") {
		t.Errorf("response %q does not acknowledge the inferred title", got)
	}
	if s.ProfileSize() != 1 {
		t.Errorf("profile size = %d, want 1", s.ProfileSize())
	}
}

func TestProcessUnknownMovie(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	got := s.Process(`I liked "Zorblax Prime"`)

	if got != unknownMovieLine {
		t.Errorf("response = %q, want %q", got, unknownMovieLine)
	}
	if s.ProfileSize() != 0 {
		t.Errorf("profile size = %d, want 0", s.ProfileSize())
	}
}

func TestProcessMultiEntity(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	s.Process(`I liked "The Notebook" and "Titanic"`)

	if s.ProfileSize() != 2 {
		t.Errorf("profile size = %d, want 2", s.ProfileSize())
	}
	if s.State() != StateAwaitingMovie {
		t.Errorf("state = %v, want StateAwaitingMovie", s.State())
	}
}

func TestFourCommitsTriggerRecommendation(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	s.Process(`I liked "The Notebook"`)
	s.Process(`I liked "Titanic"`)
	s.Process(`I liked "The Lion King"`)
	got := s.Process(`I liked "Scream"`)

	if s.ProfileSize() != 4 {
		t.Fatalf("profile size = %d, want 4", s.ProfileSize())
	}
	if !strings.Contains(got, "Snow White and the Seven Dwarfs (1937)") {
		t.Errorf("response %q does not carry the expected recommendation", got)
	}
	if s.State() != StateAwaitingFeedback {
		t.Errorf("state = %v, want StateAwaitingFeedback", s.State())
	}
}

func TestFeedbackAfterRecommendation(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	s.Process(`I liked "The Notebook"`)
	s.Process(`I liked "Titanic"`)
	s.Process(`I liked "The Lion King"`)
	s.Process(`I liked "Scream"`)
	if s.State() != StateAwaitingFeedback {
		t.Fatalf("state = %v, want StateAwaitingFeedback", s.State())
	}

	got := s.Process("I loved it")
	if !strings.Contains(got, "Snow White") {
		t.Errorf("response %q does not fold feedback into the recommended movie", got)
	}
	if s.ProfileSize() != 5 {
		t.Errorf("profile size = %d, want 5", s.ProfileSize())
	}
}

func TestDisambiguationList(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	got := s.Process(`I liked "Sceam"`)

	if s.State() != StateAwaitingChoice {
		t.Fatalf("state = %v, want StateAwaitingChoice", s.State())
	}
	for _, want := range []string{
		"1. Scream (1996)",
		"2. Scream 2 (1997)",
		"3. Scream 3 (2000)",
		"4. None of the above",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("response %q missing %q", got, want)
		}
	}
}

func TestDisambiguationChoiceSelects(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	s.Process(`I liked "Sceam"`)

	got := s.Process("1")
	if !strings.Contains(got, "Scream") {
		t.Errorf("response %q does not commit the chosen movie", got)
	}
	if s.ProfileSize() != 1 {
		t.Errorf("profile size = %d, want 1", s.ProfileSize())
	}
	if s.State() != StateAwaitingMovie {
		t.Errorf("state = %v, want StateAwaitingMovie", s.State())
	}
}

func TestDisambiguationNoneOfTheAbove(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	s.Process(`I liked "Sceam"`)

	got := s.Process("4")
	if got != choiceRetryLine {
		t.Errorf("response = %q, want retry line", got)
	}
	if s.State() != StateAwaitingMovie {
		t.Errorf("state = %v, want StateAwaitingMovie after reset", s.State())
	}
	if s.ProfileSize() != 0 {
		t.Errorf("profile size = %d, want 0", s.ProfileSize())
	}
}

func TestDisambiguationUnparsableChoice(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	s.Process(`I liked "Sceam"`)

	if got := s.Process("the second one maybe"); got != choiceUnparsedLine {
		t.Errorf("response = %q, want unparsed line", got)
	}
	if s.State() != StateAwaitingChoice {
		t.Errorf("state = %v, want to stay in StateAwaitingChoice", s.State())
	}
}

func TestExplicitRecommendationRequests(t *testing.T) {
	t.Parallel()

	t.Run("popularity", func(t *testing.T) {
		t.Parallel()

		s := testSession(t)
		got := s.Process("Can you recommend the best movie?")
		if !strings.Contains(got, "The Notebook (2004)") {
			t.Errorf("response %q does not recommend the top movie", got)
		}
		if s.State() != StateAwaitingFeedback {
			t.Errorf("state = %v, want StateAwaitingFeedback", s.State())
		}
	})

	t.Run("genre", func(t *testing.T) {
		t.Parallel()

		s := testSession(t)
		got := s.Process("Please suggest a horror movie")
		if !strings.Contains(got, "Scream (1996)") {
			t.Errorf("response %q does not recommend within the genre", got)
		}
	})

	t.Run("insufficient profile", func(t *testing.T) {
		t.Parallel()

		s := testSession(t)
		if got := s.Process("recommend me something"); got != needMorePreferencesLine {
			t.Errorf("response = %q, want %q", got, needMorePreferencesLine)
		}
	})
}

func TestRecommendationsNeverRepeat(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	seen := make(map[string]bool)
	// Horror has three movies; three requests must yield three
	// distinct titles.
	for i := 0; i < 3; i++ {
		got := s.Process("recommend a horror movie")
		for _, title := range []string{"Scream (1996)", "Scream 2 (1997)", "Scream 3 (2000)"} {
			if strings.Contains(got, title) {
				if seen[title] {
					t.Fatalf("title %q recommended twice", title)
				}
				seen[title] = true
			}
		}
	}
	if len(seen) != 3 {
		t.Errorf("distinct recommendations = %d, want 3", len(seen))
	}
}

func TestExclamationsAmplifyCommittedSentiment(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	s.Process(`I loved "The Notebook"!!`)

	got, ok := s.profile.Get(0)
	if !ok {
		t.Fatal("The Notebook was not committed")
	}
	// "loved" scores 1.2 with the intensifier; two exclamation marks
	// double it. Stripping happens inside the analyzer, after counting.
	if got != 2.4 {
		t.Errorf("committed sentiment = %v, want 2.4", got)
	}

	s = testSession(t)
	s.Process(`I liked "The Notebook" and "Titanic"!!`)
	for _, id := range []int{0, 1} {
		if got, ok := s.profile.Get(id); !ok || got != 2 {
			t.Errorf("movie %d committed %v (ok=%v), want 2", id, got, ok)
		}
	}
}

func TestInferQuotedTitlePreservesLeadingWord(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"not The Lion King material", `not "The Lion King" material`},
		{"I loved The Lion King", `I loved "The Lion King"`},
		{`I loved "Titanic"`, `I loved "Titanic"`},
		{"no capitals anywhere", "no capitals anywhere"},
	}
	for _, tt := range tests {
		if got := inferQuotedTitle(tt.in); got != tt.want {
			t.Errorf("inferQuotedTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLeadingNegatorFlipsCommittedSentiment(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	s.Process("not a movie I loved, The Lion King")

	got, ok := s.profile.Get(3)
	if !ok {
		t.Fatal("The Lion King was not committed")
	}
	if got >= 0 {
		t.Errorf("committed sentiment = %v, want negative", got)
	}
	if got != -1.2 {
		t.Errorf("committed sentiment = %v, want -1.2", got)
	}
}

func TestDisambiguationListOmitsMissingYear(t *testing.T) {
	t.Parallel()

	cat := catalog.New([]catalog.Row{
		{Title: "Alien", Genres: "Horror|Sci-Fi"},
		{Title: "Aliens", Genres: "Horror|Sci-Fi"},
	})
	lex := lexicon.New([]lexicon.Entry{{Word: "like", Polarity: lexicon.Positive}})
	s := NewSession(
		cat,
		resolver.New(cat),
		sentiment.New(lex),
		recommend.New(cat, [][]float64{{0}, {0}}),
		rand.New(rand.NewSource(1)),
		zerolog.Nop(),
	)

	got := s.Process(`I liked "Alein"`)
	if s.State() != StateAwaitingChoice {
		t.Fatalf("state = %v, want StateAwaitingChoice", s.State())
	}
	for _, want := range []string{"1. Alien\n", "2. Aliens\n"} {
		if !strings.Contains(got, want) {
			t.Errorf("response %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "()") {
		t.Errorf("response %q renders an empty year", got)
	}
}

func TestExhaustedGenreRequestFallsThrough(t *testing.T) {
	t.Parallel()

	s := testSession(t)
	for i := 0; i < 3; i++ {
		s.Process("recommend a horror movie")
	}

	// All horror titles are spoken for; without a superlative the
	// request lands on the profile path.
	if got := s.Process("recommend a horror movie"); got != needMorePreferencesLine {
		t.Errorf("response = %q, want %q", got, needMorePreferencesLine)
	}

	// With one, general popularity takes over.
	got := s.Process("recommend the best horror movie")
	if !strings.Contains(got, "The Notebook (2004)") {
		t.Errorf("response %q does not fall back to overall popularity", got)
	}
	if s.State() != StateAwaitingFeedback {
		t.Errorf("state = %v, want StateAwaitingFeedback", s.State())
	}
}

func TestFrameResetRoundTrip(t *testing.T) {
	t.Parallel()

	f := Frame{
		MovieQuery:   "Titanic",
		Sentiment:    2,
		HasSentiment: true,
		Committed:    true,
	}
	f.Reset()
	if f.MovieQuery != "" || f.Movie != nil || f.Sentiment != 0 ||
		f.HasSentiment || f.Candidates != nil || f.Committed {
		t.Errorf("Reset() left residue: %+v", f)
	}
}
