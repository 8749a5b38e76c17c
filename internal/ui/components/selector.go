// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nanochat-tui/internal/ui/styles"
)

// =============================================================================
// SELECTOR
// =============================================================================

// SelectorItem is one selectable row. Group rows render as headers and
// cannot be selected.
type SelectorItem struct {
	ID    string
	Label string
	Meta  string
	Group bool
}

// Selector is a keyboard-driven picker overlay used for models, providers,
// and endpoint presets.
type Selector struct {
	Title  string
	items  []SelectorItem
	cursor int
}

// NewSelector creates a selector with the cursor on the first selectable row.
func NewSelector(title string, items []SelectorItem) *Selector {
	s := &Selector{Title: title, items: items}
	s.cursor = s.nextSelectable(-1, 1)
	return s
}

// nextSelectable finds the next non-group row from start in direction dir.
// Returns start when nothing is selectable.
func (s *Selector) nextSelectable(start, dir int) int {
	for i := start + dir; i >= 0 && i < len(s.items); i += dir {
		if !s.items[i].Group {
			return i
		}
	}
	return start
}

// MoveUp moves the cursor to the previous selectable row.
func (s *Selector) MoveUp() {
	if next := s.nextSelectable(s.cursor, -1); next >= 0 {
		s.cursor = next
	}
}

// MoveDown moves the cursor to the next selectable row.
func (s *Selector) MoveDown() {
	s.cursor = s.nextSelectable(s.cursor, 1)
}

// Selected returns the item under the cursor.
func (s *Selector) Selected() (SelectorItem, bool) {
	if s.cursor < 0 || s.cursor >= len(s.items) || s.items[s.cursor].Group {
		return SelectorItem{}, false
	}
	return s.items[s.cursor], true
}

// SelectID moves the cursor to the row with the given ID.
func (s *Selector) SelectID(id string) {
	for i, item := range s.items {
		if !item.Group && item.ID == id {
			s.cursor = i
			return
		}
	}
}

// Len returns the number of selectable rows.
func (s *Selector) Len() int {
	n := 0
	for _, item := range s.items {
		if !item.Group {
			n++
		}
	}
	return n
}

// Render renders the selector box.
func (s *Selector) Render(theme *styles.Theme, width int) string {
	var b strings.Builder
	b.WriteString(theme.SelectorTitle.Render(s.Title))
	b.WriteString("\n\n")

	// Keep the window around the cursor on tall lists.
	const maxRows = 12
	start, end := 0, len(s.items)
	if end > maxRows {
		start = s.cursor - maxRows/2
		if start < 0 {
			start = 0
		}
		end = start + maxRows
		if end > len(s.items) {
			end = len(s.items)
			start = end - maxRows
		}
	}

	for i := start; i < end; i++ {
		item := s.items[i]
		switch {
		case item.Group:
			b.WriteString(theme.SelectorGroup.Render(item.Label))
		case i == s.cursor:
			line := "› " + item.Label
			if item.Meta != "" {
				line += "  " + item.Meta
			}
			b.WriteString(theme.SelectorSelected.Render(line))
		default:
			line := "  " + item.Label
			b.WriteString(theme.SelectorItem.Render(line))
			if item.Meta != "" {
				b.WriteString(theme.SelectorMeta.Render("  " + item.Meta))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(theme.ShortcutDesc.Render("↑/↓ move  enter select  esc cancel"))

	box := theme.SelectorBox.Render(b.String())
	if width > 0 {
		return lipgloss.Place(width, lipgloss.Height(box), lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
