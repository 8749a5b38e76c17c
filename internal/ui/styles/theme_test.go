// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "testing"

func TestPaletteFor(t *testing.T) {
	if p := PaletteFor("light"); p != LightPalette {
		t.Error("PaletteFor(light) must return the light palette")
	}
	if p := PaletteFor("dark"); p != DarkPalette {
		t.Error("PaletteFor(dark) must return the dark palette")
	}
	// Unknown names fall back to dark.
	if p := PaletteFor("solarized"); p != DarkPalette {
		t.Error("unknown theme must fall back to dark")
	}
}

func TestNewTheme(t *testing.T) {
	dark := NewTheme("dark")
	light := NewTheme("light")

	if dark.Mode != "dark" || light.Mode != "light" {
		t.Errorf("modes = %q/%q", dark.Mode, light.Mode)
	}
	if dark.Palette == light.Palette {
		t.Error("dark and light themes must differ")
	}
}

func TestGetLayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutNarrow},
		{59, LayoutNarrow},
		{60, LayoutMedium},
		{99, LayoutMedium},
		{100, LayoutWide},
		{200, LayoutWide},
	}

	theme := NewTheme("dark")
	for _, tt := range tests {
		theme.SetSize(tt.width, 24)
		if got := theme.GetLayoutMode(); got != tt.want {
			t.Errorf("width %d: mode = %v, want %v", tt.width, got, tt.want)
		}
	}
}
