// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"testing"

	"github.com/jeranaias/nanochat-tui/internal/ui/styles"
)

func TestFormatUsage(t *testing.T) {
	tests := []struct {
		name  string
		usage map[string]int
		want  string
	}{
		{
			"known keys ordered",
			map[string]int{"completion_tokens": 48, "prompt_tokens": 12},
			"prompt 12 · completion 48 tokens",
		},
		{
			"total only",
			map[string]int{"total_tokens": 60},
			"total 60 tokens",
		},
		{
			"unknown key passthrough",
			map[string]int{"cached_tokens": 7},
			"cached_tokens 7 tokens",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatUsage(tt.usage); got != tt.want {
				t.Errorf("formatUsage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderMarkdownNilRendererFallback(t *testing.T) {
	got := renderMarkdown(nil, "**bold** text")
	if got != "**bold** text" {
		t.Errorf("nil renderer must return the raw text, got %q", got)
	}
}

func TestRenderEntryUser(t *testing.T) {
	theme := styles.NewTheme("dark")
	out := renderEntry(theme, nil, Entry{Role: RoleUser, Content: "hello"}, false, false)
	if !strings.Contains(out, "you") || !strings.Contains(out, "hello") {
		t.Errorf("user entry = %q", out)
	}
}

func TestRenderEntryAssistantLabel(t *testing.T) {
	theme := styles.NewTheme("dark")

	out := renderEntry(theme, nil, Entry{Role: RoleAssistant, Content: "hi", Model: "llama3.2"}, false, false)
	if !strings.Contains(out, "llama3.2") {
		t.Errorf("assistant entry must carry the model label, got %q", out)
	}

	out = renderEntry(theme, nil, Entry{Role: RoleAssistant, Content: "hi"}, false, false)
	if !strings.Contains(out, "assistant") {
		t.Errorf("entry without a model falls back to a generic label, got %q", out)
	}
}

func TestRenderEntryUsageVisibility(t *testing.T) {
	theme := styles.NewTheme("dark")
	e := Entry{Role: RoleAssistant, Content: "hi", Usage: map[string]int{"total_tokens": 9}}

	if out := renderEntry(theme, nil, e, false, true); !strings.Contains(out, "total 9 tokens") {
		t.Errorf("usage line missing with showTokens on: %q", out)
	}
	if out := renderEntry(theme, nil, e, false, false); strings.Contains(out, "tokens") {
		t.Errorf("usage line must be hidden with showTokens off: %q", out)
	}
}
