// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cinechat/cinechat/internal/config"
	"github.com/cinechat/cinechat/internal/logging"
)

// NewRouter assembles the HTTP surface: the webhook pair, liveness and
// Prometheus metrics.
func NewRouter(cfg config.ServerConfig, handlers *Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.Timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(httprate.Limit(cfg.RateLimit, cfg.RatePeriod,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	))

	r.Get("/webhook", handlers.VerifyWebhook)
	r.Post("/webhook", handlers.ReceiveWebhook)
	r.Get("/healthz", handlers.Healthz)
	r.Handle("/metrics", promhttp.Handler())

	return r
}

// Server runs the HTTP listener as a supervised service.
type Server struct {
	addr    string
	handler http.Handler
}

// NewServer binds the router to the configured address.
func NewServer(cfg config.ServerConfig, handler http.Handler) *Server {
	return &Server{
		addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		handler: handler,
	}
}

// Serve runs the listener until the context is cancelled. It satisfies
// suture.Service.
func (s *Server) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", s.addr).Msg("[API] HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return ctx.Err()
	}
}

// String names the service in supervisor logs.
func (s *Server) String() string { return "http-server" }
