// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Command server runs the Cinechat webhook service: it loads the
// movie catalog, ratings matrix and sentiment lexicon, then serves
// conversations over the webhook surface.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/cinechat/cinechat/internal/api"
	"github.com/cinechat/cinechat/internal/catalog"
	"github.com/cinechat/cinechat/internal/config"
	"github.com/cinechat/cinechat/internal/dialogue"
	"github.com/cinechat/cinechat/internal/events"
	"github.com/cinechat/cinechat/internal/lexicon"
	"github.com/cinechat/cinechat/internal/logging"
	"github.com/cinechat/cinechat/internal/messenger"
	"github.com/cinechat/cinechat/internal/recommend"
	"github.com/cinechat/cinechat/internal/resolver"
	"github.com/cinechat/cinechat/internal/sentiment"
	"github.com/cinechat/cinechat/internal/session"
	"github.com/cinechat/cinechat/internal/supervisor"
	"github.com/cinechat/cinechat/internal/todo"
)

func main() {
	configPath := flag.String("config", "", "path to config file (overrides default search)")
	flag.Parse()

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	// Malformed datasets are fatal at startup.
	rows, err := catalog.LoadRows(cfg.Data.MoviesPath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Data.MoviesPath).Msg("Failed to load movie catalog")
	}
	cat := catalog.New(rows)

	ratings, err := catalog.LoadRatings(cfg.Data.RatingsPath, cat.Len())
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Data.RatingsPath).Msg("Failed to load ratings matrix")
	}

	lex, err := lexicon.Load(cfg.Data.LexiconPath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", cfg.Data.LexiconPath).Msg("Failed to load sentiment lexicon")
	}

	logging.Info().
		Int("movies", cat.Len()).
		Int("lexicon_entries", lex.Len()).
		Int("rating_users", ratingUsers(ratings)).
		Msg("Datasets loaded")

	res := resolver.New(cat)
	analyzer := sentiment.New(lex)
	engine := recommend.New(cat, ratings)

	var todos *todo.Store
	if cfg.Todo.Enabled {
		todos, err = todo.Open(cfg.Todo.DBPath)
		if err != nil {
			logging.Fatal().Err(err).Str("path", cfg.Todo.DBPath).Msg("Failed to open todo store")
		}
		defer todos.Close()
	}

	var sender messenger.Sender
	if cfg.Messenger.SendURL != "" {
		sender = messenger.NewClient(messenger.Config{
			SendURL:     cfg.Messenger.SendURL,
			AccessToken: cfg.Messenger.AccessToken,
			Timeout:     cfg.Messenger.Timeout,
			RateLimit:   cfg.Messenger.RateLimit,
			RateBurst:   cfg.Messenger.RateBurst,
		})
	} else {
		logging.Warn().Msg("No send URL configured, replies go to the log")
		sender = messenger.LogSender{}
	}

	seed := cfg.Bot.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// Each conversation gets its own RNG stream so per-sender behavior
	// stays reproducible under a fixed seed regardless of arrival order.
	var sessionCount atomic.Int64
	registry := session.NewRegistry(func(senderID string) *dialogue.Session {
		n := sessionCount.Add(1)
		rng := rand.New(rand.NewSource(seed + n))
		logger := logging.With().Str("sender", senderID).Logger()
		return dialogue.NewSession(cat, res, analyzer, engine, rng, logger)
	})

	processor, err := events.NewProcessor(registry, todos, sender)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build event processor")
	}

	handlers := api.NewHandlers(processor, cfg.Messenger.VerifyToken)
	httpServer := api.NewServer(cfg.Server, api.NewRouter(cfg.Server, handlers))

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddMessagingService(processor)
	tree.AddAPIService(httpServer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Cinechat starting")
	if err := tree.Serve(ctx); err != nil && ctx.Err() == nil {
		logging.Fatal().Err(err).Msg("Supervisor tree exited")
	}
	logging.Info().Msg("Cinechat stopped")
}

func ratingUsers(ratings [][]float64) int {
	if len(ratings) == 0 {
		return 0
	}
	return len(ratings[0])
}
