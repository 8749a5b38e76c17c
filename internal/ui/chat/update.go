// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nanochat-tui/internal/exchange"
	"github.com/jeranaias/nanochat-tui/internal/session"
	"github.com/jeranaias/nanochat-tui/internal/ui/components"
)

// Update is the Bubble Tea update loop.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case ConfigLoadedMsg:
		return m.handleConfigLoaded(msg)

	case ConfigReloadedMsg:
		return m.handleConfigReloaded(msg)

	case ModelSwitchedMsg:
		return m.handleModelSwitched(msg)

	case EndpointBoundMsg:
		return m.handleEndpointBound(msg)

	case EndpointClearedMsg:
		if msg.Err != nil {
			m.toasts.AddError(msg.Err)
			return m, nil
		}
		snap := m.bind.Snapshot()
		if snap.ModelID != "" {
			m.systemNote("Custom endpoint cleared, back on " + snap.ModelID)
		} else {
			m.systemNote("Custom endpoint cleared; pick a model with /model")
		}
		return m, nil

	case ReplyMsg:
		return m.handleReply(msg)

	case SessionResetMsg:
		return m.handleSessionReset(msg)

	case SessionsMsg:
		return m.handleSessions(msg)
	}

	return m.updateComponents(msg)
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		return m, tea.Quit
	}

	if m.overlay != OverlayNone {
		return m.handleOverlayKey(msg)
	}

	switch {
	case key.Matches(msg, m.keyMap.Submit):
		return m.submitInput()

	case key.Matches(msg, m.keyMap.NewSession):
		return m, m.resetSessionCmd()

	case key.Matches(msg, m.keyMap.Models):
		if m.ready {
			m.openModelPicker()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Endpoint):
		m.openEndpointForm("")
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.ScrollDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submitInput sends the input line as a command or a chat message.
func (m Model) submitInput() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}

	if name, args, ok := parseCommand(text); ok {
		m.input.SetValue("")
		cmd := m.dispatchCommand(name, args)
		return m, cmd
	}

	if !m.ready {
		m.toasts.Add(components.ToastWarning, "Backend not connected; retrying")
		return m, m.loadConfigCmd()
	}

	if m.busy {
		m.toasts.Add(components.ToastInfo, "Still waiting on the previous reply")
		return m, nil
	}

	m.input.SetValue("")
	m.busy = true
	m.appendEntry(Entry{Role: RoleUser, Content: text})
	return m, m.sendCmd(text)
}

// handleOverlayKey routes keys while an overlay is open.
func (m Model) handleOverlayKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Cancel) {
		m.closeOverlay()
		return m, nil
	}

	switch m.overlay {
	case OverlayModels, OverlayPresets:
		return m.handleSelectorKey(msg)
	case OverlayEndpoint:
		return m.handleFormKey(msg)
	default:
		// Help and session list close on any key.
		m.closeOverlay()
		return m, nil
	}
}

func (m Model) handleSelectorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		m.selector.MoveUp()
	case "down", "j":
		m.selector.MoveDown()
	case "enter":
		item, ok := m.selector.Selected()
		if !ok {
			m.closeOverlay()
			return m, nil
		}
		picking := m.overlay
		m.closeOverlay()
		if picking == OverlayModels {
			return m, m.selectModelCmd(item.ID)
		}
		m.openEndpointForm(item.ID)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		m.focusFormField((m.formFocus + 1) % len(m.formInputs))
		return m, nil
	case "shift+tab", "up":
		m.focusFormField((m.formFocus + len(m.formInputs) - 1) % len(m.formInputs))
		return m, nil
	case "enter":
		url := strings.TrimSpace(m.formInputs[0].Value())
		apiKey := strings.TrimSpace(m.formInputs[1].Value())
		modelID := strings.TrimSpace(m.formInputs[2].Value())
		preset := m.formPreset
		m.closeOverlay()
		return m, m.bindEndpointCmd(url, apiKey, modelID, preset)
	}

	var cmd tea.Cmd
	m.formInputs[m.formFocus], cmd = m.formInputs[m.formFocus].Update(msg)
	return m, cmd
}

func (m *Model) focusFormField(i int) {
	m.formInputs[m.formFocus].Blur()
	m.formFocus = i
	m.formInputs[i].Focus()
}

func (m *Model) closeOverlay() {
	m.overlay = OverlayNone
	m.selector = nil
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	m.input.Focus()
}

// =============================================================================
// BACKEND MESSAGE HANDLING
// =============================================================================

func (m Model) handleConfigLoaded(msg ConfigLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.AddError(msg.Err)
		m.systemNote("Backend unavailable. Chat and pickers are disabled until it comes back; sending a message retries the connection, /quit to exit.")
		return m, nil
	}

	m.ready = true
	snap := m.bind.Snapshot()
	note := "Connected. Active model: " + snap.ModelID
	if saved, ok := m.bind.SavedEndpoint(); ok {
		note += ". A saved custom endpoint for " + saved.ModelID + " is available via /endpoint."
	}
	m.systemNote(note)

	if m.initialModel != "" && m.initialModel != snap.ModelID {
		target := m.initialModel
		m.initialModel = ""
		return m, m.selectModelCmd(target)
	}
	m.initialModel = ""
	return m, nil
}

// handleConfigReloaded applies a changed config file. UI settings and chat
// parameters take effect immediately; a server URL change needs a restart
// because the HTTP client is already wired through the orchestration layers.
func (m Model) handleConfigReloaded(msg ConfigReloadedMsg) (tea.Model, tea.Cmd) {
	if msg.Config == nil {
		return m, nil
	}
	oldURL := m.cfg.Server.URL
	oldTheme := m.cfg.UI.Theme
	*m.cfg = *msg.Config

	if err := m.bind.SetParameters(m.cfg.Chat.Temperature, m.cfg.Chat.MaxTokens); err != nil {
		m.toasts.AddError(err)
	}
	if m.cfg.UI.Theme != oldTheme {
		m.setTheme(m.cfg.UI.Theme)
	} else {
		m.refreshViewport()
	}
	if m.cfg.Server.URL != oldURL {
		m.cfg.Server.URL = oldURL
		m.toasts.Add(components.ToastWarning, "Server URL change requires a restart")
	}
	m.systemNote("Configuration reloaded")
	return m, nil
}

func (m Model) handleModelSwitched(msg ModelSwitchedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.AddError(msg.Err)
		return m, nil
	}
	snap := m.bind.Snapshot()
	m.systemNote("Model: " + snap.ModelID + " (" + snap.Provider + ")")
	return m, nil
}

func (m Model) handleEndpointBound(msg EndpointBoundMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.AddError(msg.Err)
		// Reopen the form so the inputs are not lost on a typo.
		if m.overlay == OverlayNone {
			m.openEndpointForm(m.formPreset)
		}
		return m, nil
	}
	m.systemNote("Custom endpoint bound: " + msg.ModelID)
	return m, nil
}

func (m Model) handleReply(msg ReplyMsg) (tea.Model, tea.Cmd) {
	m.busy = false

	if msg.Err != nil {
		if errors.Is(msg.Err, exchange.ErrStale) {
			// The session was reset while the reply was in flight.
			return m, nil
		}
		m.appendEntry(Entry{Role: RoleError, Content: msg.Err.Error()})
		m.toasts.AddError(msg.Err)
		return m, nil
	}

	m.appendEntry(Entry{
		Role:    RoleAssistant,
		Content: msg.Result.Reply,
		Model:   msg.Result.Model,
		Usage:   msg.Result.Usage,
	})
	return m, nil
}

func (m Model) handleSessionReset(msg SessionResetMsg) (tea.Model, tea.Cmd) {
	m.entries = nil
	m.refreshViewport()
	m.systemNote("New session: " + strings.TrimPrefix(msg.Session.ID, session.Namespace))
	if msg.Err != nil {
		m.toasts.Add(components.ToastWarning, "Server-side clear failed; old session may linger: "+msg.Err.Error())
	}
	return m, nil
}

func (m Model) handleSessions(msg SessionsMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.toasts.AddError(msg.Err)
		return m, nil
	}
	m.sessionList = msg.Sessions
	m.overlay = OverlaySessions
	return m, nil
}

// =============================================================================
// COMPONENT FANOUT
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) Model {
	m.width = msg.Width
	m.height = msg.Height
	m.theme.SetSize(msg.Width, msg.Height)

	headerHeight := 2
	inputHeight := 3
	statusHeight := 1
	vpHeight := msg.Height - headerHeight - inputHeight - statusHeight
	if vpHeight < 3 {
		vpHeight = 3
	}

	if m.viewport.Width == 0 {
		m.viewport = viewport.New(msg.Width, vpHeight)
	} else {
		m.viewport.Width = msg.Width
		m.viewport.Height = vpHeight
	}
	m.input.Width = msg.Width - 6

	m.renderer = newMarkdownRenderer(m.theme.Mode, msg.Width-4)
	m.refreshViewport()
	m.viewport.GotoBottom()
	return m
}

func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}
