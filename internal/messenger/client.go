// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package messenger delivers outbound chat messages to the configured
// relay endpoint. Deliveries run through a rate limiter and a circuit
// breaker so a struggling relay degrades sends instead of piling up
// goroutines.
package messenger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/cinechat/cinechat/internal/logging"
	"github.com/cinechat/cinechat/internal/metrics"
)

// Sender delivers a reply to one recipient.
type Sender interface {
	Send(ctx context.Context, recipientID, text string) error
}

// Config shapes the outbound client.
type Config struct {
	SendURL     string
	AccessToken string
	Timeout     time.Duration
	RateLimit   float64
	RateBurst   int
}

type outboundMessage struct {
	Recipient struct {
		ID string `json:"id"`
	} `json:"recipient"`
	Message struct {
		Text string `json:"text"`
	} `json:"message"`
}

// Client posts messages to a Messenger-style send API.
type Client struct {
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[struct{}]
}

// NewClient builds the outbound client. The breaker opens after a 60%
// failure rate over at least 10 requests and probes again after 30
// seconds.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 10
	}
	if cfg.RateBurst <= 0 {
		cfg.RateBurst = 5
	}

	cbName := "messenger-send"
	breaker := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", from.String()).Str("to", to.String()).Msg("[MESSENGER] Circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst),
		breaker: breaker,
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Send delivers one text message, blocking on the rate limiter first.
func (c *Client) Send(ctx context.Context, recipientID, text string) error {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.SendFailures.WithLabelValues("rate_limit").Inc()
		return fmt.Errorf("rate limit wait: %w", err)
	}

	_, err := c.breaker.Execute(func() (struct{}, error) {
		return struct{}{}, c.post(ctx, recipientID, text)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.SendFailures.WithLabelValues("circuit_open").Inc()
			logging.Warn().Err(err).Msg("[MESSENGER] Send rejected by circuit breaker")
			return err
		}
		metrics.SendFailures.WithLabelValues("request").Inc()
		return err
	}

	metrics.MessagesSent.Inc()
	return nil
}

func (c *Client) post(ctx context.Context, recipientID, text string) error {
	var msg outboundMessage
	msg.Recipient.ID = recipientID
	msg.Message.Text = text

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}

	url := c.cfg.SendURL
	if c.cfg.AccessToken != "" {
		url += "?access_token=" + c.cfg.AccessToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("send API returned status %d", resp.StatusCode)
	}
	return nil
}

// LogSender is the Sender used when no relay URL is configured. Replies
// land in the log, which keeps local runs and tests self-contained.
type LogSender struct{}

// Send logs the reply instead of delivering it.
func (LogSender) Send(_ context.Context, recipientID, text string) error {
	logging.Info().Str("recipient", recipientID).Str("text", text).Msg("[MESSENGER] Outbound message (log only)")
	return nil
}
