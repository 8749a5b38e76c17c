// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/nanochat-tui/internal/ui/styles"
	"github.com/jeranaias/nanochat-tui/internal/util"
)

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Role identifies who produced a transcript entry.
type Role int

const (
	RoleUser Role = iota
	RoleAssistant
	RoleSystem
	RoleError
)

// Entry is one line of the conversation transcript.
type Entry struct {
	Role    Role
	Content string
	Model   string
	Usage   map[string]int
	Time    time.Time
}

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// newMarkdownRenderer builds a glamour renderer for the theme, or nil when
// initialization fails; rendering then falls back to plain text.
func newMarkdownRenderer(mode string, width int) *glamour.TermRenderer {
	style := glamour.WithStandardStyle("dark")
	if mode == "light" {
		style = glamour.WithStandardStyle("light")
	}
	if width < 20 {
		width = 80
	}
	r, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown renders content as markdown, falling back to the raw text.
func renderMarkdown(r *glamour.TermRenderer, content string) string {
	if r == nil {
		return content
	}
	rendered, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(rendered, "\n")
}

// =============================================================================
// ENTRY RENDERING
// =============================================================================

// renderEntry renders one transcript entry for the viewport.
func renderEntry(theme *styles.Theme, r *glamour.TermRenderer, e Entry, markdown bool, showTokens bool) string {
	var b strings.Builder

	switch e.Role {
	case RoleUser:
		b.WriteString(theme.UserLabel.Render("you"))
		b.WriteString("\n")
		b.WriteString(theme.UserText.Render(e.Content))

	case RoleAssistant:
		label := "assistant"
		if e.Model != "" {
			label = e.Model
		}
		b.WriteString(theme.AssistantLabel.Render(label))
		b.WriteString("\n")
		if markdown {
			b.WriteString(renderMarkdown(r, e.Content))
		} else {
			b.WriteString(theme.AssistantText.Render(e.Content))
		}
		if showTokens && len(e.Usage) > 0 {
			b.WriteString("\n")
			b.WriteString(theme.UsageNote.Render(formatUsage(e.Usage)))
		}

	case RoleError:
		b.WriteString(theme.ErrorNote.Render(e.Content))

	default:
		b.WriteString(theme.SystemNote.Render(e.Content))
	}

	return b.String()
}

// formatUsage renders a usage map as "prompt 12 · completion 48 tokens".
func formatUsage(usage map[string]int) string {
	// Stable order, known keys first.
	keys := []string{"prompt_tokens", "completion_tokens", "total_tokens"}
	labels := map[string]string{
		"prompt_tokens":     "prompt",
		"completion_tokens": "completion",
		"total_tokens":      "total",
	}

	var parts []string
	for _, k := range keys {
		if v, ok := usage[k]; ok {
			parts = append(parts, labels[k]+" "+util.IntToString(v))
		}
	}
	if len(parts) == 0 {
		for k, v := range usage {
			parts = append(parts, k+" "+util.IntToString(v))
		}
	}
	return strings.Join(parts, " · ") + " tokens"
}
