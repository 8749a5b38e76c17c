// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nanochat-tui/internal/ui/components"
)

// View renders the full chat screen.
func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}

	snap := m.bind.Snapshot()

	header := components.RenderHeader(m.theme, components.HeaderState{
		Model:    snap.ModelID,
		Provider: snap.Provider,
		Custom:   snap.Custom != nil,
		Session:  m.sessions.ID(),
	}, m.width)

	body := m.viewport.View()
	if overlay := m.renderOverlay(); overlay != "" {
		body = overlay
	}

	input := m.renderInput()

	status := components.RenderStatusBar(m.theme, components.StatusState{
		SessionID:    m.sessions.ID(),
		MessageCount: m.sessions.Current().MessageCount,
		Temperature:  snap.Temperature,
		MaxTokens:    snap.MaxTokens,
		Custom:       snap.Custom != nil,
		Busy:         m.busy,
	}, m.width)

	sections := []string{header, body, input, status}
	if m.toasts.HasToasts() {
		sections = append(sections, components.RenderToastStack(m.theme, m.toasts.Toasts(), m.width, 0))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// refreshViewport re-renders the transcript into the viewport.
func (m *Model) refreshViewport() {
	if m.viewport.Width == 0 {
		return
	}
	var blocks []string
	for _, e := range m.entries {
		blocks = append(blocks, renderEntry(m.theme, m.renderer, e, m.cfg.UI.Markdown, m.cfg.UI.ShowTokens))
	}
	m.viewport.SetContent(strings.Join(blocks, "\n\n"))
}

// renderInput renders the input line, with the spinner while busy.
func (m Model) renderInput() string {
	prompt := m.theme.InputPrompt.Render("› ")
	if m.busy {
		prompt = m.spin.View() + " "
	}
	return m.theme.InputContainer.Width(m.width).Render(prompt + m.input.View())
}

// =============================================================================
// OVERLAYS
// =============================================================================

func (m Model) renderOverlay() string {
	switch m.overlay {
	case OverlayModels, OverlayPresets:
		if m.selector != nil {
			return m.selector.Render(m.theme, m.width)
		}
	case OverlayEndpoint:
		return m.renderEndpointForm()
	case OverlaySessions:
		return m.renderSessionList()
	case OverlayHelp:
		return m.renderHelp()
	}
	return ""
}

func (m Model) renderEndpointForm() string {
	var b strings.Builder
	title := "Custom endpoint"
	if m.formPreset != "" {
		title += " (" + m.formPreset + ")"
	}
	b.WriteString(m.theme.SelectorTitle.Render(title))
	b.WriteString("\n\n")

	labels := []string{"API base URL", "API key", "Model"}
	for i, input := range m.formInputs {
		b.WriteString(m.theme.SelectorGroup.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ShortcutDesc.Render("tab next field  enter bind  esc cancel"))

	box := m.theme.SelectorBox.Render(b.String())
	return lipgloss.Place(m.width, lipgloss.Height(box), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderSessionList() string {
	var b strings.Builder
	b.WriteString(m.theme.SelectorTitle.Render("Stored sessions"))
	b.WriteString("\n\n")

	if len(m.sessionList) == 0 {
		b.WriteString(m.theme.SelectorMeta.Render("none"))
	}
	for _, s := range m.sessionList {
		line := s.Key
		if s.UpdatedAt != "" {
			line += "  " + s.UpdatedAt
		}
		marker := "  "
		if s.Key == m.sessions.ID() {
			marker = "› "
		}
		b.WriteString(m.theme.SelectorItem.Render(marker + line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ShortcutDesc.Render("any key to close"))

	box := m.theme.SelectorBox.Render(b.String())
	return lipgloss.Place(m.width, lipgloss.Height(box), lipgloss.Center, lipgloss.Center, box)
}

func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.SelectorTitle.Render("Commands"))
	b.WriteString("\n\n")

	for _, cmd := range slashCommands {
		b.WriteString(m.theme.ShortcutKey.Render(padCommand(cmd.usage)))
		b.WriteString(m.theme.ShortcutDesc.Render(cmd.desc))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.SelectorGroup.Render("Keys"))
	b.WriteString("\n")
	for _, s := range []struct{ k, d string }{
		{"ctrl+n", "new session"},
		{"ctrl+p", "model picker"},
		{"ctrl+e", "endpoint form"},
		{"pgup/pgdn", "scroll transcript"},
		{"ctrl+c", "quit"},
	} {
		b.WriteString(m.theme.ShortcutKey.Render(padCommand(s.k)))
		b.WriteString(m.theme.ShortcutDesc.Render(s.d))
		b.WriteString("\n")
	}

	box := m.theme.SelectorBox.Render(b.String())
	return lipgloss.Place(m.width, lipgloss.Height(box), lipgloss.Center, lipgloss.Center, box)
}

func padCommand(s string) string {
	const width = 22
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
