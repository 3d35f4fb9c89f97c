// Cinechat - Conversational Movie Recommendation Service
// Copyright 2026 Cinechat Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinechat/cinechat

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSlogHandlerBridgesToZerolog(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})

	logger := NewSlogLogger()
	logger.Info("service started", "component", "supervisor", "restarts", int64(3))

	out := buf.String()
	if !strings.Contains(out, `"message":"service started"`) {
		t.Errorf("message missing: %q", out)
	}
	if !strings.Contains(out, `"component":"supervisor"`) {
		t.Errorf("string attr missing: %q", out)
	}
	if !strings.Contains(out, `"restarts":3`) {
		t.Errorf("int attr missing: %q", out)
	}
}

func TestSlogHandlerGroups(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "debug", Format: "json", Output: &buf})

	logger := NewSlogLogger().WithGroup("tree").With("layer", "messaging")
	logger.Warn("service restarted")

	if !strings.Contains(buf.String(), `"tree.layer":"messaging"`) {
		t.Errorf("grouped attr missing: %q", buf.String())
	}
}

func TestSlogHandlerLevels(t *testing.T) {
	defer Init(DefaultConfig())

	var buf bytes.Buffer
	Init(Config{Level: "warn", Format: "json", Output: &buf})

	logger := NewSlogLogger()
	logger.Info("quiet")
	logger.Error("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Errorf("info leaked past warn level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Errorf("error missing: %q", out)
	}
}
