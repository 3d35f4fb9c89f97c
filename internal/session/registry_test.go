// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package session

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/cinechat/cinechat/internal/catalog"
	"github.com/cinechat/cinechat/internal/dialogue"
	"github.com/cinechat/cinechat/internal/lexicon"
	"github.com/cinechat/cinechat/internal/recommend"
	"github.com/cinechat/cinechat/internal/resolver"
	"github.com/cinechat/cinechat/internal/sentiment"
)

func testFactory() Factory {
	cat := catalog.New([]catalog.Row{
		{Title: "Titanic (1997)", Genres: "Drama|Romance"},
	})
	lex := lexicon.New([]lexicon.Entry{{Word: "love", Polarity: lexicon.Positive}})
	ratings := [][]float64{{0, 0}}

	return func(string) *dialogue.Session {
		return dialogue.NewSession(
			cat,
			resolver.New(cat),
			sentiment.New(lex),
			recommend.New(cat, ratings),
			rand.New(rand.NewSource(1)),
			zerolog.Nop(),
		)
	}
}

func TestRegistryGetCreatesOnce(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testFactory())

	first, created := r.Get("sender-1")
	if !created {
		t.Error("first Get() did not report creation")
	}
	second, created := r.Get("sender-1")
	if created {
		t.Error("second Get() reported creation")
	}
	if first != second {
		t.Error("same sender produced different conversations")
	}
	if first.SenderID != "sender-1" {
		t.Errorf("SenderID = %q, want sender-1", first.SenderID)
	}

	if _, created := r.Get("sender-2"); !created {
		t.Error("new sender did not create a conversation")
	}
	if r.Len() != 2 {
		t.Errorf("Len() = %d, want 2", r.Len())
	}
}

func TestRegistryConcurrentGet(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testFactory())

	var wg sync.WaitGroup
	conversations := make([]*Conversation, 16)
	for i := range conversations {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			conversations[i], _ = r.Get("shared")
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(conversations); i++ {
		if conversations[i] != conversations[0] {
			t.Fatal("concurrent Get() produced distinct conversations for one sender")
		}
	}
	if r.Len() != 1 {
		t.Errorf("Len() = %d, want 1", r.Len())
	}
}

func TestConversationProcessSerialized(t *testing.T) {
	t.Parallel()

	r := NewRegistry(testFactory())
	conv, _ := r.Get("sender")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if reply := conv.Process(`I loved "Titanic"`); reply == "" {
				t.Error("empty reply")
			}
		}()
	}
	wg.Wait()
}
