// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nanochat-tui/internal/ui/styles"
	"github.com/jeranaias/nanochat-tui/internal/util"
)

// =============================================================================
// HEADER
// =============================================================================

// HeaderState holds what the header line displays.
type HeaderState struct {
	Model    string
	Provider string
	Custom   bool
	Session  string
}

// RenderHeader renders the one-line application header.
func RenderHeader(theme *styles.Theme, state HeaderState, width int) string {
	title := theme.HeaderTitle.Render("nanochat")

	model := state.Model
	if model == "" {
		model = "no model"
	}
	provider := state.Provider
	if state.Custom {
		provider = "custom endpoint"
	}

	// Model IDs like "anthropic/claude-sonnet-4" eat narrow terminals.
	maxModel := width / 3
	if maxModel > 0 && maxModel < 12 {
		maxModel = 12
	}
	if maxModel > 0 {
		model = util.TruncateWidth(model, maxModel)
	}

	right := theme.HeaderModel.Render(model)
	if provider != "" {
		right += " " + theme.HeaderProvider.Render("("+provider+")")
	}

	gap := width - lipgloss.Width(title) - lipgloss.Width(right) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return theme.Header.Width(width).Render(title + spacer + right)
}
