// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package dialogue

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/cinechat/cinechat/internal/catalog"
	"github.com/cinechat/cinechat/internal/metrics"
	"github.com/cinechat/cinechat/internal/recommend"
	"github.com/cinechat/cinechat/internal/resolver"
	"github.com/cinechat/cinechat/internal/sentiment"
)

var (
	quotedTitleRe = regexp.MustCompile(`"(.*?)"`)
	digitRunRe    = regexp.MustCompile(`\d+`)

	// capitalizedSpanRe infers an unquoted title: a span starting and
	// ending with a capitalized word, e.g. the "The Lion King" in
	// "i adored The Lion King honestly".
	capitalizedSpanRe = regexp.MustCompile(`[A-Z]\w+\s.*[A-Z]\w+`)
)

// recommendationVerbs mark an explicit request for a recommendation.
var recommendationVerbs = map[string]struct{}{
	"recommend":       {},
	"recommendation":  {},
	"recommendations": {},
	"suggest":         {},
	"suggestion":      {},
	"suggestions":     {},
}

// popularityWords steer an explicit request toward catalog-wide
// popularity instead of the per-user model.
var popularityWords = map[string]struct{}{
	"best":     {},
	"popular":  {},
	"most":     {},
	"trending": {},
	"highest":  {},
}

// Session is one user's conversation: the dialogue state, the movie
// currently under discussion, the accumulated preference profile, and
// everything already recommended. Sessions are not safe for concurrent
// use; callers serialize turns per user.
type Session struct {
	cat    *catalog.Catalog
	res    *resolver.Resolver
	an     *sentiment.Analyzer
	eng    *recommend.Engine
	rng    *rand.Rand
	logger zerolog.Logger

	state   State
	frame   Frame
	profile *recommend.Profile

	recommended    []*catalog.Movie
	recommendedIDs map[int]struct{}
}

// NewSession creates a fresh conversation. The RNG drives template
// selection and the spontaneous-recommendation coin flips.
func NewSession(cat *catalog.Catalog, res *resolver.Resolver, an *sentiment.Analyzer, eng *recommend.Engine, rng *rand.Rand, logger zerolog.Logger) *Session {
	return &Session{
		cat:            cat,
		res:            res,
		an:             an,
		eng:            eng,
		rng:            rng,
		logger:         logger,
		state:          StateAwaitingMovie,
		profile:        recommend.NewProfile(),
		recommendedIDs: make(map[int]struct{}),
	}
}

// State reports the current dialogue state.
func (s *Session) State() State { return s.state }

// ProfileSize reports how many movies the user has rated so far.
func (s *Session) ProfileSize() int { return s.profile.Len() }

// Greeting opens the conversation.
func (s *Session) Greeting() string {
	return s.smallTalk() + greetingSuffix
}

// Farewell closes the conversation.
func (s *Session) Farewell() string {
	return farewellLine
}

// Describe explains what the bot can do.
func (s *Session) Describe() string {
	return describeText
}

// coin is a fair flip off the session RNG.
func (s *Session) coin() bool {
	return s.rng.Intn(2) == 1
}

// Process advances the conversation by one user turn and returns the
// bot's reply.
func (s *Session) Process(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return waitingLine
	}

	s.logger.Debug().Str("state", s.state.String()).Str("input", input).Msg("processing turn")

	if reply, ok := s.handleRecommendationRequest(input); ok {
		return reply
	}

	var handled bool
	var response string

	switch s.state {
	case StateAwaitingChoice:
		response, handled = s.handleChoice(input)
	case StateAwaitingFeedback:
		response, handled = s.handleFeedback(input)
	}

	if !handled {
		if IsMultiEntity(input) {
			response = s.processMultiMovie(input)
		} else {
			response = s.processSingleMovie(input)
		}
	}

	if response == "" {
		response = s.smallTalk()
	}
	return response
}

// handleRecommendationRequest short-circuits turns that explicitly ask
// for a recommendation instead of describing a movie.
func (s *Session) handleRecommendationRequest(input string) (string, bool) {
	words := strings.Fields(strings.ToLower(sentiment.StripQuoted(input)))

	asked := false
	for _, w := range words {
		if _, ok := recommendationVerbs[w]; ok {
			asked = true
			break
		}
	}
	if !asked {
		return "", false
	}

	// A named genre wins over general popularity. An exhausted genre
	// falls through to the broader paths instead of dead-ending.
	for _, genre := range s.cat.Genres {
		lower := strings.ToLower(genre)
		for _, w := range words {
			if w == lower {
				if scores := s.eng.BestInGenre(genre, s.profile, s.recommendedIDs); len(scores) > 0 {
					return s.recommendFromScores(scores, "genre"), true
				}
			}
		}
	}

	for _, w := range words {
		if _, ok := popularityWords[w]; ok {
			if scores := s.eng.BestOverall(s.profile, s.recommendedIDs); len(scores) > 0 {
				return s.recommendFromScores(scores, "popular"), true
			}
			break
		}
	}

	if s.profile.Len() >= recommend.MinProfileSize {
		return s.fullRecommendation(), true
	}
	return needMorePreferencesLine, true
}

// handleChoice consumes a numeric answer to a disambiguation list. The
// first digit run in the input selects the 1-based list position; the
// position one past the list means none of the candidates matched.
func (s *Session) handleChoice(input string) (string, bool) {
	digits := digitRunRe.FindString(input)
	if digits == "" {
		return choiceUnparsedLine, true
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return choiceUnparsedLine, true
	}

	idx := n - 1
	switch {
	case idx >= 0 && idx < len(s.frame.Candidates):
		s.frame.Movie = s.frame.Candidates[idx].Movie
		s.frame.Committed = false
		s.state = StateAwaitingMovie
		return s.completeSingleMovie(), true
	case idx == len(s.frame.Candidates):
		s.frame.Reset()
		s.state = StateAwaitingMovie
		return choiceRetryLine, true
	default:
		return choiceUnknownLine, true
	}
}

// handleFeedback inspects the turn after a recommendation for signs the
// user has already seen the recommended movie, and if so folds their
// reaction into the profile.
func (s *Session) handleFeedback(input string) (string, bool) {
	s.state = StateAwaitingMovie
	if len(s.recommended) == 0 {
		return "", false
	}
	last := s.recommended[len(s.recommended)-1]

	lower := strings.ToLower(input)
	words := strings.Fields(lower)

	seen := false
	for _, w := range words {
		if strings.Contains(w, "already") {
			seen = true
			break
		}
	}
	if !seen && strings.Contains(lower, strings.ToLower(last.DisplayTitle())) {
		seen = true
	}
	if !seen {
		// An opinion word next to an anaphor also counts: "loved it",
		// "it was great".
		for i, w := range words {
			if !s.an.HasPolarity(w) {
				continue
			}
			if i+1 < len(words) {
				switch words[i+1] {
				case "this", "it", "the", "that":
					seen = true
				}
			}
			if !seen && i > 0 {
				switch words[i-1] {
				case "was", "is":
					seen = true
				}
			}
			if seen {
				break
			}
		}
	}
	if !seen {
		return "", false
	}

	s.frame.Reset()
	s.frame.Movie = last
	s.frame.MovieQuery = last.DisplayTitle()
	if score, ok := s.an.Score(input); ok {
		s.frame.Sentiment = score
		s.frame.HasSentiment = true
	}
	return s.completeSingleMovie(), true
}

// inferQuotedTitle rewrites an unquoted title mention into quoted form
// so downstream extraction stays uniform. A short leading word is skipped
// for span matching only ("I adored ..." keeps "adored" from matching as
// a title start) but stays in the returned text: negators like "not"
// must still reach the analyzer.
func inferQuotedTitle(input string) string {
	if quotedTitleRe.MatchString(input) {
		return input
	}
	search := input
	offset := 0
	if i := strings.IndexByte(input, ' '); i > 0 && i <= 3 {
		search = input[i+1:]
		offset = i + 1
	}
	loc := capitalizedSpanRe.FindStringIndex(search)
	if loc == nil {
		return input
	}
	start, end := offset+loc[0], offset+loc[1]
	return input[:start] + `"` + input[start:end] + `"` + input[end:]
}

// processMultiMovie handles a turn naming several quoted movies at
// once, splitting the sentence into per-movie frames that share one
// sentiment read.
func (s *Session) processMultiMovie(input string) string {
	score, scoreOK := s.an.Score(input)

	titles, keepPolarity, ok := SplitEntities(input)
	if !ok {
		// Fall back to per-quote extraction with uniform polarity.
		titles = nil
		for _, m := range quotedTitleRe.FindAllStringSubmatch(input, -1) {
			titles = append(titles, m[1])
		}
		keepPolarity = make([]bool, len(titles))
		for i := range keepPolarity {
			keepPolarity[i] = true
		}
	}

	var parts []string
	for i, title := range titles {
		s.frame = Frame{MovieQuery: title}
		if scoreOK {
			if keepPolarity[i] {
				s.frame.Sentiment = score
			} else {
				s.frame.Sentiment = -score
			}
			s.frame.HasSentiment = true
		}
		s.updateFrame(true)
		parts = append(parts, s.completeSingleMovie())
		if s.state != StateAwaitingMovie {
			// Disambiguation or a recommendation interrupted the batch.
			break
		}
	}
	return strings.Join(parts, "\n ")
}

// processSingleMovie handles the ordinary one-movie turn.
func (s *Session) processSingleMovie(input string) string {
	input = inferQuotedTitle(input)

	if m := quotedTitleRe.FindStringSubmatch(input); m != nil && m[1] != s.frame.MovieQuery {
		s.frame.MovieQuery = m[1]
		s.updateFrame(false)
	}

	// Score sees the raw turn: it strips quoted spans itself and the
	// exclamation count must survive.
	if score, ok := s.an.Score(input); ok {
		s.frame.Sentiment = score
		s.frame.HasSentiment = true
		s.frame.Committed = false
	}

	return s.completeSingleMovie()
}

// updateFrame re-resolves the frame's query against the catalog and
// applies the adoption policy.
func (s *Session) updateFrame(greedy bool) {
	if s.frame.MovieQuery == "" {
		return
	}
	candidates := s.res.ResolveCandidates(s.frame.MovieQuery)
	if len(candidates) > 0 {
		s.frame.Candidates = candidates
	}
	if movie := resolver.Adopt(candidates, greedy); movie != nil {
		if s.frame.Movie == nil || s.frame.Movie.ID != movie.ID {
			s.frame.Committed = false
		}
		s.frame.Movie = movie
	} else {
		s.frame.Movie = nil
		s.frame.Committed = false
	}
}

// completeSingleMovie drives the frame toward commitment: ask for a
// missing movie or sentiment, or commit the pair to the profile and
// possibly recommend.
func (s *Session) completeSingleMovie() string {
	f := &s.frame

	if f.Movie == nil {
		if len(f.Candidates) == 0 {
			if len(f.MovieQuery) < 2 {
				return s.suggestMovieTalk()
			}
			return unknownMovieLine
		}
		var b strings.Builder
		b.WriteString("Which movie did you mean?")
		for i, c := range f.Candidates {
			fmt.Fprintf(&b, "\n\t%d. %s", i+1, c.Movie.DisplayTitleWithYear())
		}
		fmt.Fprintf(&b, "\n\t%d. None of the above", len(f.Candidates)+1)
		s.state = StateAwaitingChoice
		return b.String()
	}

	if !f.HasSentiment {
		return fmt.Sprintf("How did you like %s?\n", f.Movie.DisplayTitle())
	}

	if !f.Committed {
		s.profile.Set(f.Movie.ID, f.Sentiment)
		f.Committed = true
		response := s.commentOnMovie(f.Sentiment, f.Movie)

		size := s.profile.Len()
		if size == recommend.MinProfileSize || (size > recommend.MinProfileSize && (s.coin() || s.coin())) {
			response += "\n\n" + s.fullRecommendation()
		}
		f.Reset()
		return response
	}

	f.Reset()
	return ""
}

// fullRecommendation merges both scoring models and recommends the
// winner.
func (s *Session) fullRecommendation() string {
	scores := recommend.Merge(
		s.eng.GenreScores(s.profile, s.recommendedIDs),
		s.eng.CollaborativeScores(s.profile, s.recommendedIDs),
	)
	return s.recommendFromScores(scores, "merged")
}

// recommendFromScores picks the top-scoring movie, records it, and
// switches the dialogue into feedback mode.
func (s *Session) recommendFromScores(scores map[int]float64, source string) string {
	id, ok := recommend.ArgMax(scores)
	if !ok {
		return needMorePreferencesLine
	}
	movie := s.cat.ByID(id)
	if movie == nil {
		return needMorePreferencesLine
	}

	s.recommended = append(s.recommended, movie)
	s.recommendedIDs[movie.ID] = struct{}{}
	s.state = StateAwaitingFeedback
	s.frame.Reset()
	metrics.Recommendations.WithLabelValues(source).Inc()

	s.logger.Debug().Int("movie_id", movie.ID).Str("title", movie.DisplayTitle()).Msg("recommending")
	return s.recommendationTalk(movie)
}
