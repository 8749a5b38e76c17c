// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import "testing"

func testItems() []SelectorItem {
	return []SelectorItem{
		{Label: "Ollama", Group: true},
		{ID: "llama3.2", Label: "llama3.2"},
		{ID: "qwen3", Label: "qwen3"},
		{Label: "OpenRouter", Group: true},
		{ID: "openai/gpt-4o-mini", Label: "gpt-4o-mini"},
	}
}

func TestSelectorSkipsGroups(t *testing.T) {
	s := NewSelector("Models", testItems())

	// Cursor starts on the first selectable row, not the group header.
	sel, ok := s.Selected()
	if !ok || sel.ID != "llama3.2" {
		t.Errorf("initial selection = %+v", sel)
	}

	s.MoveDown()
	if sel, _ := s.Selected(); sel.ID != "qwen3" {
		t.Errorf("after down = %q", sel.ID)
	}

	// Next down jumps over the OpenRouter header.
	s.MoveDown()
	if sel, _ := s.Selected(); sel.ID != "openai/gpt-4o-mini" {
		t.Errorf("after second down = %q", sel.ID)
	}

	// Down at the bottom stays put.
	s.MoveDown()
	if sel, _ := s.Selected(); sel.ID != "openai/gpt-4o-mini" {
		t.Errorf("at bottom = %q", sel.ID)
	}

	s.MoveUp()
	if sel, _ := s.Selected(); sel.ID != "qwen3" {
		t.Errorf("after up = %q", sel.ID)
	}
}

func TestSelectorSelectID(t *testing.T) {
	s := NewSelector("Models", testItems())
	s.SelectID("openai/gpt-4o-mini")
	if sel, _ := s.Selected(); sel.ID != "openai/gpt-4o-mini" {
		t.Errorf("selected = %q", sel.ID)
	}

	// Unknown IDs leave the cursor alone.
	s.SelectID("nope")
	if sel, _ := s.Selected(); sel.ID != "openai/gpt-4o-mini" {
		t.Errorf("selected = %q", sel.ID)
	}
}

func TestSelectorEmpty(t *testing.T) {
	s := NewSelector("Empty", nil)
	if _, ok := s.Selected(); ok {
		t.Error("empty selector must have no selection")
	}
	if s.Len() != 0 {
		t.Errorf("len = %d", s.Len())
	}
	// Movement on an empty selector must not panic.
	s.MoveDown()
	s.MoveUp()
}

func TestSelectorLen(t *testing.T) {
	s := NewSelector("Models", testItems())
	if s.Len() != 3 {
		t.Errorf("len = %d, want 3 selectable rows", s.Len())
	}
}
