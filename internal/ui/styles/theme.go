// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
type Theme struct {
	// Active mode: "dark" or "light"
	Mode         string
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	Palette Palette

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderModel    lipgloss.Style
	HeaderProvider lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserLabel      lipgloss.Style
	AssistantLabel lipgloss.Style
	UserText       lipgloss.Style
	AssistantText  lipgloss.Style
	SystemNote     lipgloss.Style
	ErrorNote      lipgloss.Style
	UsageNote      lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar    lipgloss.Style
	StatusModel  lipgloss.Style
	StatusCustom lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SELECTOR STYLES (model and endpoint pickers)
	// ==========================================================================

	SelectorBox      lipgloss.Style
	SelectorTitle    lipgloss.Style
	SelectorItem     lipgloss.Style
	SelectorSelected lipgloss.Style
	SelectorGroup    lipgloss.Style
	SelectorMeta     lipgloss.Style

	// ==========================================================================
	// TOAST STYLES
	// ==========================================================================

	ToastInfo    lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastWarning lipgloss.Style
	ToastError   lipgloss.Style

	// ==========================================================================
	// SPINNER STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
}

// NewTheme creates a theme for the given mode ("dark" or "light").
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		Mode:         mode,
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		Palette:      PaletteFor(mode),
	}
	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles from the palette.
func (t *Theme) initStyles() {
	p := t.Palette

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	t.HeaderModel = lipgloss.NewStyle().
		Foreground(p.AccentAlt).
		Bold(true)

	t.HeaderProvider = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Messages
	t.UserLabel = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.AssistantLabel = lipgloss.NewStyle().
		Foreground(p.AccentAlt).
		Bold(true)

	t.UserText = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	t.AssistantText = lipgloss.NewStyle().
		Foreground(p.TextPrimary)

	t.SystemNote = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	t.ErrorNote = lipgloss.NewStyle().
		Foreground(p.Error)

	t.UsageNote = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(p.Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(p.SurfaceDim).
		Foreground(p.TextSecondary).
		Padding(0, 1)

	t.StatusModel = lipgloss.NewStyle().
		Foreground(p.Success).
		Bold(true)

	t.StatusCustom = lipgloss.NewStyle().
		Foreground(p.Warning).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(p.TextMuted)

	// Selectors
	t.SelectorBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.AccentAlt).
		Padding(1, 2)

	t.SelectorTitle = lipgloss.NewStyle().
		Foreground(p.AccentAlt).
		Bold(true)

	t.SelectorItem = lipgloss.NewStyle().
		Foreground(p.TextPrimary).
		Padding(0, 1)

	t.SelectorSelected = lipgloss.NewStyle().
		Background(p.AccentAlt).
		Foreground(p.TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SelectorGroup = lipgloss.NewStyle().
		Foreground(p.Accent).
		Bold(true)

	t.SelectorMeta = lipgloss.NewStyle().
		Foreground(p.TextMuted).
		Italic(true)

	// Toasts
	t.ToastInfo = lipgloss.NewStyle().
		Foreground(p.Accent).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(0, 1)

	t.ToastSuccess = lipgloss.NewStyle().
		Foreground(p.Success).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Success).
		Padding(0, 1)

	t.ToastWarning = lipgloss.NewStyle().
		Foreground(p.Warning).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Warning).
		Padding(0, 1)

	t.ToastError = lipgloss.NewStyle().
		Foreground(p.Error).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(p.Error).
		Padding(0, 1)

	// Spinner
	t.Spinner = lipgloss.NewStyle().
		Foreground(p.AccentAlt)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(p.TextSecondary)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// LayoutMode represents the current responsive layout mode.
type LayoutMode int

const (
	LayoutNarrow LayoutMode = iota // < 60 columns
	LayoutMedium                   // 60-100 columns
	LayoutWide                     // > 100 columns
)

// GetLayoutMode returns the current layout mode based on width.
func (t *Theme) GetLayoutMode() LayoutMode {
	if t.Width < 60 {
		return LayoutNarrow
	}
	if t.Width < 100 {
		return LayoutMedium
	}
	return LayoutWide
}
