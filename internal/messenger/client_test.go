// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package messenger

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

func TestClientSendPostsEnvelope(t *testing.T) {
	t.Parallel()

	var gotBody atomic.Value
	var gotToken atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody.Store(string(body))
		gotToken.Store(r.URL.Query().Get("access_token"))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(Config{
		SendURL:     srv.URL,
		AccessToken: "tok123",
		Timeout:     5 * time.Second,
		RateLimit:   100,
		RateBurst:   10,
	})

	if err := c.Send(context.Background(), "u1", "hello there"); err != nil {
		t.Fatalf("Send() error: %v", err)
	}

	if token := gotToken.Load(); token != "tok123" {
		t.Errorf("access_token = %v, want tok123", token)
	}

	var envelope struct {
		Recipient struct {
			ID string `json:"id"`
		} `json:"recipient"`
		Message struct {
			Text string `json:"text"`
		} `json:"message"`
	}
	if err := json.Unmarshal([]byte(gotBody.Load().(string)), &envelope); err != nil {
		t.Fatalf("decode posted body: %v", err)
	}
	if envelope.Recipient.ID != "u1" || envelope.Message.Text != "hello there" {
		t.Errorf("posted envelope = %+v", envelope)
	}
}

func TestClientSendNon2xx(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(Config{SendURL: srv.URL, RateLimit: 100, RateBurst: 10})

	err := c.Send(context.Background(), "u1", "hello")
	if err == nil {
		t.Fatal("Send() succeeded against a 502 relay")
	}
	if !strings.Contains(err.Error(), "502") {
		t.Errorf("error %q does not carry the status", err)
	}
}

func TestClientBreakerOpensUnderFailures(t *testing.T) {
	t.Parallel()

	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(Config{SendURL: srv.URL, RateLimit: 1000, RateBurst: 100})

	// Drive enough failures to trip the 60%-over-10 threshold, then
	// verify the breaker rejects without reaching the relay.
	for i := 0; i < 12; i++ {
		c.Send(context.Background(), "u1", "x")
	}
	before := requests.Load()
	err := c.Send(context.Background(), "u1", "x")
	if err == nil {
		t.Fatal("Send() succeeded with the breaker open")
	}
	if requests.Load() != before {
		t.Error("open breaker still forwarded the request")
	}
}

func TestClientSendContextCancelled(t *testing.T) {
	t.Parallel()

	// Burst 1 with a slow refill: the second Wait blocks until the
	// context gives up.
	c := NewClient(Config{SendURL: "http://127.0.0.1:0", RateLimit: 0.001, RateBurst: 1})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Send(ctx, "u1", "hello"); err == nil {
		t.Error("Send() with a cancelled context succeeded")
	}
}

func TestLogSender(t *testing.T) {
	t.Parallel()

	if err := (LogSender{}).Send(context.Background(), "u1", "hello"); err != nil {
		t.Errorf("LogSender.Send() error: %v", err)
	}
}
