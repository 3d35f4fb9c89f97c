// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package todo

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// commandWords are the verbs that route a message into the todo
// handler instead of the movie dialogue. Matching is exact on the
// first word; '$n' index commands are recognized by prefix.
var commandWords = map[string]struct{}{
	"help":    {},
	"list":    {},
	"ls":      {},
	"display": {},
	"clear":   {},
	"erase":   {},
	"search":  {},
	"add":     {},
	"insert":  {},
	"input":   {},
}

const invalidCommandLine = "Invalid command. To view all commands, type 'help'"

// Tutorial is the command reference sent to first-time senders.
func Tutorial() string {
	var b strings.Builder
	b.WriteString("Here is a list of todo commands you can use alongside the movie chat:")
	b.WriteString("\n- 'help' will display this tutorial")
	b.WriteString("\n- 'list' will print out your current todo list")
	b.WriteString("\n- 'list complete' will print out your list of completed tasks")
	b.WriteString("\n- 'add str' will create a new todo item with the label str")
	b.WriteString("\n- 'search str' will list all todos, completed or not, containing str")
	b.WriteString("\n- '$n finish' will mark the todo item with index n as complete")
	b.WriteString("\n- '$n edit str' will change the todo item with index n to have a new label str")
	b.WriteString("\n- '$n delete' will delete the todo item with index n")
	b.WriteString("\n- 'clear [completed|todo]' will clear the chosen list, or both")
	return b.String()
}

// wordHas reports whether any of the matches occurs inside word.
func wordHas(word string, matches ...string) bool {
	lower := strings.ToLower(word)
	for _, m := range matches {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// IsCommand reports whether the message should be routed to the todo
// handler rather than the movie dialogue.
func IsCommand(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(fields[0])
	if strings.HasPrefix(first, "$") {
		return true
	}
	_, ok := commandWords[first]
	return ok
}

// Handle executes one todo command for the sender and returns the
// reply text. Storage failures surface as errors so the caller can log
// them; user mistakes come back as reply text.
func (s *Store) Handle(ctx context.Context, senderID, text string) (string, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return invalidCommandLine, nil
	}
	first := strings.ToLower(fields[0])

	switch {
	case wordHas(first, "help"):
		return Tutorial(), nil

	case wordHas(first, "list", "ls", "display") && wordHas(text, "done", "complete"):
		return s.renderList(ctx, senderID, true)

	case wordHas(first, "list", "ls", "display"):
		return s.renderList(ctx, senderID, false)

	case wordHas(first, "clear", "delete", "remove", "erase") && wordHas(text, "all", "complete", "finish", "todo"):
		return s.handleClear(ctx, senderID, text)

	case len(fields) > 1 && wordHas(first, "search"):
		return s.handleSearch(ctx, senderID, strings.Join(fields[1:], " "))

	case len(fields) > 1 && wordHas(first, "add", "insert", "input"):
		label := strings.Join(fields[1:], " ")
		if err := s.Add(ctx, senderID, label); err != nil {
			return "", err
		}
		return "To-do item '" + label + "' added to list.", nil

	case strings.HasPrefix(first, "$"):
		return s.handleIndexed(ctx, senderID, fields)
	}

	return invalidCommandLine, nil
}

func (s *Store) renderList(ctx context.Context, senderID string, done bool) (string, error) {
	items, err := s.List(ctx, senderID, done)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		if done {
			return "No tasks completed yet!", nil
		}
		return "No tasks todo!", nil
	}

	var b strings.Builder
	if done {
		b.WriteString("Completed Tasks:")
	} else {
		b.WriteString("Tasks Todo:")
	}
	for i, it := range items {
		fmt.Fprintf(&b, "\n#%d: %s", i+1, it.Text)
	}
	return b.String(), nil
}

func (s *Store) handleClear(ctx context.Context, senderID, text string) (string, error) {
	clearDone := wordHas(text, " complete", " finish")
	clearOpen := wordHas(text, " incomplete", " todo")
	if !clearDone && !clearOpen {
		clearDone, clearOpen = true, true
	}

	if err := s.Clear(ctx, senderID, clearOpen, clearDone); err != nil {
		return "", err
	}

	reply := "Clearing tasks:"
	if clearDone {
		reply += "\n\tCleared completed tasks"
	}
	if clearOpen {
		reply += "\n\tCleared todo tasks"
	}
	return reply, nil
}

func (s *Store) handleSearch(ctx context.Context, senderID, query string) (string, error) {
	items, err := s.All(ctx, senderID)
	if err != nil {
		return "", err
	}

	var matches []string
	for _, it := range items {
		if !strings.Contains(it.Text, query) {
			continue
		}
		suffix := " (Incomplete)"
		if it.Done() {
			suffix = " (Finished)"
		}
		matches = append(matches, it.Text+suffix)
	}
	if len(matches) == 0 {
		return "No matches found for search", nil
	}

	reply := fmt.Sprintf("Found %d results: ", len(matches))
	for _, m := range matches {
		reply += "\n\t" + m
	}
	return reply, nil
}

// handleIndexed dispatches '$n finish', '$n edit str' and '$n delete'.
// Indexes are 1-based positions in the open list.
func (s *Store) handleIndexed(ctx context.Context, senderID string, fields []string) (string, error) {
	if len(fields) < 2 {
		return invalidCommandLine, nil
	}
	n, err := strconv.Atoi(strings.TrimPrefix(fields[0], "$"))
	if err != nil || n < 1 {
		return invalidCommandLine, nil
	}

	open, err := s.List(ctx, senderID, false)
	if err != nil {
		return "", err
	}
	if n > len(open) {
		return "A task with this index does not exist", nil
	}
	item := open[n-1]
	verb := fields[1]

	switch {
	case wordHas(verb, "finish", "done", "complete"):
		if err := s.Complete(ctx, item.ID); err != nil {
			return "", err
		}
		return "Finished " + fields[0] + ": " + item.Text, nil

	case len(fields) > 2 && wordHas(verb, "edit", "modify", "change"):
		label := strings.Join(fields[2:], " ")
		if err := s.Edit(ctx, item.ID, label); err != nil {
			return "", err
		}
		return "Updated " + fields[0] + ": " + label, nil

	case wordHas(verb, "remove", "delete", "clear", "erase"):
		if err := s.Delete(ctx, item.ID); err != nil {
			return "", err
		}
		return "Deleted " + fields[0] + ": " + item.Text, nil
	}

	return invalidCommandLine, nil
}
