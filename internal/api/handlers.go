// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/cinechat/cinechat/internal/events"
	"github.com/cinechat/cinechat/internal/logging"
	"github.com/cinechat/cinechat/internal/metrics"
)

// Publisher enqueues inbound chat messages for asynchronous
// processing.
type Publisher interface {
	Publish(msg events.ChatMessage) error
}

// Handlers serves the webhook endpoints.
type Handlers struct {
	publisher   Publisher
	verifyToken string
}

// NewHandlers builds the webhook handler set.
func NewHandlers(publisher Publisher, verifyToken string) *Handlers {
	return &Handlers{publisher: publisher, verifyToken: verifyToken}
}

// webhookPayload mirrors the Messenger-style delivery envelope. Only
// the fields the service reads are declared.
type webhookPayload struct {
	Entry []struct {
		Messaging []struct {
			Sender struct {
				ID string `json:"id"`
			} `json:"sender"`
			Message *struct {
				IsEcho bool   `json:"is_echo"`
				Text   string `json:"text"`
			} `json:"message"`
		} `json:"messaging"`
	} `json:"entry"`
}

// VerifyWebhook answers the subscription handshake: when hub.mode is
// "subscribe" and the verify token matches, the challenge is echoed
// back as plain text. Mismatches still return 200 with an empty body,
// which is what the relay expects.
func (h *Handlers) VerifyWebhook(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("hub.mode") == "subscribe" && q.Get("hub.verify_token") == h.verifyToken {
		metrics.WebhookRequests.WithLabelValues(http.MethodGet, "verified").Inc()
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(q.Get("hub.challenge")))
		return
	}

	metrics.WebhookRequests.WithLabelValues(http.MethodGet, "rejected").Inc()
	logging.Warn().Str("mode", q.Get("hub.mode")).Msg("[WEBHOOK] Invalid verification request")
	w.WriteHeader(http.StatusOK)
}

// ReceiveWebhook accepts a delivery batch and enqueues every text
// message in it. Echoes and non-text attachments are skipped. The
// batch is acknowledged as soon as everything is enqueued; replies go
// out asynchronously.
func (h *Handlers) ReceiveWebhook(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		metrics.WebhookRequests.WithLabelValues(http.MethodPost, "bad_payload").Inc()
		WriteError(w, http.StatusBadRequest, ErrCodeBadRequest, "undecodable webhook payload")
		return
	}

	enqueued := 0
	for _, entry := range payload.Entry {
		for _, event := range entry.Messaging {
			msg := event.Message
			if msg == nil || msg.IsEcho || msg.Text == "" {
				continue
			}
			if err := h.publisher.Publish(events.ChatMessage{
				SenderID: event.Sender.ID,
				Text:     msg.Text,
			}); err != nil {
				metrics.WebhookRequests.WithLabelValues(http.MethodPost, "publish_failed").Inc()
				logging.Error().Err(err).Str("sender", event.Sender.ID).Msg("[WEBHOOK] Failed to enqueue message")
				WriteError(w, http.StatusInternalServerError, ErrCodeInternalError, "failed to enqueue message")
				return
			}
			enqueued++
		}
	}

	metrics.WebhookRequests.WithLabelValues(http.MethodPost, "accepted").Inc()
	WriteSuccess(w, map[string]int{"enqueued": enqueued})
}

// Healthz reports liveness.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, map[string]string{"status": "ok"})
}
