// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import "github.com/charmbracelet/lipgloss"

// Palette holds the color set for one theme mode.
type Palette struct {
	// Primary accents
	Accent    lipgloss.Color // brand, commands, user highlights
	AccentAlt lipgloss.Color // assistant messages, selections

	// Semantic
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Surfaces
	Surface    lipgloss.Color // main background
	SurfaceDim lipgloss.Color // headers, footers
	Overlay    lipgloss.Color // borders, separators

	// Text
	TextPrimary   lipgloss.Color
	TextSecondary lipgloss.Color
	TextMuted     lipgloss.Color
	TextInverse   lipgloss.Color
}

// DarkPalette is the default color set (Catppuccin Mocha derived).
var DarkPalette = Palette{
	Accent:    lipgloss.Color("#22D3EE"),
	AccentAlt: lipgloss.Color("#A78BFA"),

	Success: lipgloss.Color("#34D399"),
	Warning: lipgloss.Color("#FBBF24"),
	Error:   lipgloss.Color("#FB7185"),

	Surface:    lipgloss.Color("#1E1E2E"),
	SurfaceDim: lipgloss.Color("#181825"),
	Overlay:    lipgloss.Color("#313244"),

	TextPrimary:   lipgloss.Color("#CDD6F4"),
	TextSecondary: lipgloss.Color("#A6ADC8"),
	TextMuted:     lipgloss.Color("#6C7086"),
	TextInverse:   lipgloss.Color("#1E1E2E"),
}

// LightPalette is the light-terminal color set (Catppuccin Latte derived).
var LightPalette = Palette{
	Accent:    lipgloss.Color("#0891B2"),
	AccentAlt: lipgloss.Color("#7C3AED"),

	Success: lipgloss.Color("#059669"),
	Warning: lipgloss.Color("#D97706"),
	Error:   lipgloss.Color("#E11D48"),

	Surface:    lipgloss.Color("#FFFFFF"),
	SurfaceDim: lipgloss.Color("#F5F5F5"),
	Overlay:    lipgloss.Color("#E5E5E5"),

	TextPrimary:   lipgloss.Color("#1F2937"),
	TextSecondary: lipgloss.Color("#6B7280"),
	TextMuted:     lipgloss.Color("#9CA3AF"),
	TextInverse:   lipgloss.Color("#FFFFFF"),
}

// PaletteFor returns the palette for a theme name, defaulting to dark.
func PaletteFor(theme string) Palette {
	if theme == "light" {
		return LightPalette
	}
	return DarkPalette
}
