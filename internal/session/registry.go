// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

// Package session maps external sender identifiers to live dialogue
// sessions and serializes turns per sender.
package session

import (
	"sync"

	"github.com/google/uuid"

	"github.com/cinechat/cinechat/internal/dialogue"
)

// Factory builds a fresh dialogue session for a new sender.
type Factory func(senderID string) *dialogue.Session

// Conversation is one sender's session plus the lock serializing their
// turns. Concurrent webhook deliveries for the same sender queue here
// instead of interleaving inside the state machine.
type Conversation struct {
	ID       uuid.UUID
	SenderID string

	mu  sync.Mutex
	bot *dialogue.Session
}

// Process runs one user turn under the conversation lock.
func (c *Conversation) Process(input string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bot.Process(input)
}

// Greeting returns the session's opening line under the lock.
func (c *Conversation) Greeting() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bot.Greeting()
}

// Describe returns the capability blurb under the lock.
func (c *Conversation) Describe() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bot.Describe()
}

// Registry tracks conversations by sender ID.
type Registry struct {
	mu      sync.Mutex
	factory Factory
	active  map[string]*Conversation
}

// NewRegistry creates an empty registry backed by the factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		factory: factory,
		active:  make(map[string]*Conversation),
	}
}

// Get returns the sender's conversation, creating one on first contact.
// The second return reports whether this call created it.
func (r *Registry) Get(senderID string) (*Conversation, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.active[senderID]; ok {
		return c, false
	}
	c := &Conversation{
		ID:       uuid.New(),
		SenderID: senderID,
		bot:      r.factory(senderID),
	}
	r.active[senderID] = c
	return c, true
}

// Len reports the number of active conversations.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.active)
}
