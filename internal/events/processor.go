// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package events routes inbound chat messages from the webhook to the
// dialogue layer over an in-process watermill pub/sub. The webhook
// acknowledges deliveries immediately; turns are processed and replied
// to asynchronously, one handler invocation per message.
package events

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	json "github.com/goccy/go-json"

	"github.com/cinechat/cinechat/internal/logging"
	"github.com/cinechat/cinechat/internal/messenger"
	"github.com/cinechat/cinechat/internal/metrics"
	"github.com/cinechat/cinechat/internal/session"
	"github.com/cinechat/cinechat/internal/todo"
)

// TopicInbound carries user messages from the webhook into the
// processor.
const TopicInbound = "chat.inbound"

// ChatMessage is one inbound user message.
type ChatMessage struct {
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
}

// Processor consumes inbound chat messages, runs the per-sender turn,
// and delivers the reply.
type Processor struct {
	pubsub   *gochannel.GoChannel
	router   *message.Router
	registry *session.Registry
	todos    *todo.Store
	sender   messenger.Sender
}

// NewProcessor wires the pub/sub, the router and the turn handler.
// The todo store may be nil to disable the todo feature.
func NewProcessor(registry *session.Registry, todos *todo.Store, sender messenger.Sender) (*Processor, error) {
	wmLogger := NewLoggerAdapter(logging.Logger())

	pubsub := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: 64,
	}, wmLogger)

	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: 15 * time.Second,
	}, wmLogger)
	if err != nil {
		return nil, fmt.Errorf("create message router: %w", err)
	}

	router.AddMiddleware(middleware.Recoverer)
	retry := middleware.Retry{
		MaxRetries:      2,
		InitialInterval: 100 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2,
		Logger:          wmLogger,
	}
	router.AddMiddleware(retry.Middleware)

	p := &Processor{
		pubsub:   pubsub,
		router:   router,
		registry: registry,
		todos:    todos,
		sender:   sender,
	}

	router.AddConsumerHandler("chat-turn", TopicInbound, pubsub, p.handle)
	return p, nil
}

// Publish enqueues an inbound message for processing.
func (p *Processor) Publish(msg ChatMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal chat message: %w", err)
	}
	wm := message.NewMessage(watermill.NewUUID(), payload)
	if err := p.pubsub.Publish(TopicInbound, wm); err != nil {
		return fmt.Errorf("publish chat message: %w", err)
	}
	return nil
}

// handle runs one conversational turn and sends the reply.
func (p *Processor) handle(wm *message.Message) error {
	var msg ChatMessage
	if err := json.Unmarshal(wm.Payload, &msg); err != nil {
		// Undecodable payloads cannot succeed on retry.
		logging.Error().Err(err).Str("message_uuid", wm.UUID).Msg("[EVENTS] Dropping undecodable chat message")
		return nil
	}

	ctx := wm.Context()
	start := time.Now()
	defer metrics.ObserveTurn(start)

	conv, created := p.registry.Get(msg.SenderID)
	if created {
		metrics.ActiveConversations.Set(float64(p.registry.Len()))
		greeting := conv.Greeting()
		if p.todos != nil {
			greeting += "\n\n" + todo.Tutorial()
		}
		if err := p.sender.Send(ctx, msg.SenderID, greeting); err != nil {
			logging.Warn().Err(err).Str("sender", msg.SenderID).Msg("[EVENTS] Greeting delivery failed")
		}
	}

	var reply string
	if p.todos != nil && todo.IsCommand(msg.Text) {
		metrics.MessagesReceived.WithLabelValues("todo").Inc()
		var err error
		reply, err = p.todos.Handle(ctx, msg.SenderID, msg.Text)
		if err != nil {
			return fmt.Errorf("todo command: %w", err)
		}
	} else {
		metrics.MessagesReceived.WithLabelValues("dialogue").Inc()
		reply = conv.Process(msg.Text)
	}

	if err := p.sender.Send(ctx, msg.SenderID, reply); err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	return nil
}

// Serve runs the router until the context is cancelled. It satisfies
// suture.Service.
func (p *Processor) Serve(ctx context.Context) error {
	defer p.pubsub.Close()
	return p.router.Run(ctx)
}

// String names the service in supervisor logs.
func (p *Processor) String() string { return "event-processor" }
