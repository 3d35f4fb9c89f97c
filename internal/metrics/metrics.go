// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package metrics registers the service's Prometheus instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhookRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinechat_webhook_requests_total",
			Help: "Total webhook requests received, by method and outcome",
		},
		[]string{"method", "outcome"},
	)

	MessagesReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinechat_messages_received_total",
			Help: "Total inbound chat messages, by routing (dialogue or todo)",
		},
		[]string{"route"},
	)

	TurnDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cinechat_turn_duration_seconds",
			Help:    "Time spent processing one conversational turn",
			Buckets: prometheus.DefBuckets,
		},
	)

	SendFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinechat_send_failures_total",
			Help: "Outbound message deliveries that failed, by reason",
		},
		[]string{"reason"},
	)

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cinechat_messages_sent_total",
			Help: "Outbound messages delivered successfully",
		},
	)

	ActiveConversations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "cinechat_active_conversations",
			Help: "Number of conversations currently tracked",
		},
	)

	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cinechat_recommendations_total",
			Help: "Recommendations issued, by scorer source",
		},
		[]string{"source"}, // "merged", "popular", "genre"
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cinechat_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)
)

// ObserveTurn records the wall time of one processed turn.
func ObserveTurn(start time.Time) {
	TurnDuration.Observe(time.Since(start).Seconds())
}
