// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nanochat-tui/internal/ui/styles"
	"github.com/jeranaias/nanochat-tui/internal/util"
)

// =============================================================================
// STATUS BAR
// =============================================================================

// StatusState holds what the status bar displays.
type StatusState struct {
	SessionID    string
	MessageCount int
	Temperature  float64
	MaxTokens    int
	Custom       bool
	Busy         bool
}

// Shortcut is one key hint in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// DefaultShortcuts are the hints shown when space allows.
var DefaultShortcuts = []Shortcut{
	{"ctrl+n", "new"},
	{"ctrl+p", "models"},
	{"/help", "commands"},
	{"ctrl+c", "quit"},
}

// RenderStatusBar renders the bottom status line.
func RenderStatusBar(theme *styles.Theme, state StatusState, width int) string {
	var left []string

	if state.Busy {
		left = append(left, theme.StatusCustom.Render("thinking"))
	}

	session := strings.TrimPrefix(state.SessionID, "playground:")
	if session != "" {
		left = append(left, session)
	}
	left = append(left, util.IntToString(state.MessageCount)+" msgs")
	left = append(left, "t="+util.FloatToString(state.Temperature))

	mode := theme.StatusModel.Render("built-in")
	if state.Custom {
		mode = theme.StatusCustom.Render("custom")
	}
	left = append(left, mode)

	leftStr := strings.Join(left, "  ")

	// Shortcuts fill the right side only when they fit.
	var rightStr string
	if theme.GetLayoutMode() != styles.LayoutNarrow {
		var parts []string
		for _, s := range DefaultShortcuts {
			parts = append(parts, theme.ShortcutKey.Render(s.Key)+" "+theme.ShortcutDesc.Render(s.Desc))
		}
		rightStr = strings.Join(parts, "  ")
	}

	gap := width - lipgloss.Width(leftStr) - lipgloss.Width(rightStr) - 2
	if gap < 1 {
		gap = 1
		rightStr = ""
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return theme.StatusBar.Width(width).Render(leftStr + spacer + rightStr)
}
