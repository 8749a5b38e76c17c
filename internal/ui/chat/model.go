// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/nanochat-tui/internal/backend"
	"github.com/jeranaias/nanochat-tui/internal/binding"
	"github.com/jeranaias/nanochat-tui/internal/config"
	"github.com/jeranaias/nanochat-tui/internal/exchange"
	"github.com/jeranaias/nanochat-tui/internal/session"
	"github.com/jeranaias/nanochat-tui/internal/storage"
	"github.com/jeranaias/nanochat-tui/internal/ui/components"
	"github.com/jeranaias/nanochat-tui/internal/ui/styles"
)

// =============================================================================
// OVERLAYS
// =============================================================================

// Overlay identifies which overlay, if any, covers the transcript.
type Overlay int

const (
	OverlayNone Overlay = iota
	OverlayModels
	OverlayPresets
	OverlayEndpoint
	OverlaySessions
	OverlayHelp
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Styling
	theme    *styles.Theme
	cfg      *config.Config
	renderer *glamour.TermRenderer

	// Dimensions
	width  int
	height int

	// Orchestration
	bind     *binding.Binding
	sessions *session.Manager
	coord    *exchange.Coordinator
	store    *storage.Store

	// Conversation
	entries []Entry

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spin     spinner.Model
	toasts   *components.ToastManager
	keyMap   KeyMap

	// Overlay state
	overlay     Overlay
	selector    *components.Selector
	sessionList []backend.SessionInfo

	// Endpoint form
	formInputs [3]textinput.Model // URL, API key, model
	formFocus  int
	formPreset string

	// Status
	ready        bool   // config loaded, selectors usable
	busy         bool   // exchange in flight
	initialModel string // --model override, applied once after connect
}

// New creates the chat model. The binding, session manager, and coordinator
// are expected to share the same backend client.
func New(cfg *config.Config, bind *binding.Binding, sessions *session.Manager, coord *exchange.Coordinator, store *storage.Store) Model {
	theme := styles.NewTheme(cfg.UI.Theme)

	input := textinput.New()
	input.Placeholder = "Type a message or /help"
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	m := Model{
		theme:    theme,
		cfg:      cfg,
		bind:     bind,
		sessions: sessions,
		coord:    coord,
		store:    store,
		input:    input,
		spin:     sp,
		toasts:   components.NewToastManager(),
		keyMap:   DefaultKeyMap(),
	}

	for i := range m.formInputs {
		m.formInputs[i] = textinput.New()
	}
	m.formInputs[0].Placeholder = "https://api.example.com/v1"
	m.formInputs[1].Placeholder = "API key (optional)"
	m.formInputs[2].Placeholder = "model name"

	m.entries = append(m.entries, Entry{
		Role:    RoleSystem,
		Content: "Connecting to " + cfg.Server.URL + " ...",
		Time:    time.Now(),
	})
	return m
}

// WithInitialModel requests a model switch once the catalog has loaded.
func (m Model) WithInitialModel(modelID string) Model {
	m.initialModel = modelID
	return m
}

// Init kicks off the config load and ambient tickers.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadConfigCmd(),
		m.spin.Tick,
		components.ToastTickCmd(),
		textinput.Blink,
	)
}

// =============================================================================
// BACKEND COMMANDS
// =============================================================================

// controlCtx bounds a control call; the client applies its own HTTP timeout
// but a context keeps a wedged DNS lookup from hanging the command forever.
func (m Model) controlCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), time.Duration(m.cfg.Server.TimeoutSecs+5)*time.Second)
}

func (m Model) loadConfigCmd() tea.Cmd {
	bind := m.bind
	ctxFn := m.controlCtx
	return func() tea.Msg {
		ctx, cancel := ctxFn()
		defer cancel()
		cfg, err := bind.LoadConfiguration(ctx)
		return ConfigLoadedMsg{Config: cfg, Err: err}
	}
}

func (m Model) selectModelCmd(modelID string) tea.Cmd {
	bind := m.bind
	ctxFn := m.controlCtx
	return func() tea.Msg {
		ctx, cancel := ctxFn()
		defer cancel()
		err := bind.SelectModel(ctx, modelID)
		return ModelSwitchedMsg{ModelID: modelID, Err: err}
	}
}

func (m Model) bindEndpointCmd(url, apiKey, modelID, presetID string) tea.Cmd {
	bind := m.bind
	ctxFn := m.controlCtx
	return func() tea.Msg {
		ctx, cancel := ctxFn()
		defer cancel()
		err := bind.ApplyCustomEndpoint(ctx, url, apiKey, modelID, presetID)
		return EndpointBoundMsg{ModelID: modelID, Err: err}
	}
}

func (m Model) clearEndpointCmd() tea.Cmd {
	bind := m.bind
	ctxFn := m.controlCtx
	// Re-derive from whatever provider currently owns the binding's catalog
	// view; with no prior built-in selection the binding stays unbound.
	provider := ""
	if snap := m.bind.Snapshot(); snap.Custom != nil {
		for _, p := range m.bind.Providers() {
			if p.Configured && len(p.Models) > 0 {
				provider = p.Name
				break
			}
		}
	}
	return func() tea.Msg {
		ctx, cancel := ctxFn()
		defer cancel()
		err := bind.ClearCustomEndpoint(ctx, provider)
		return EndpointClearedMsg{Err: err}
	}
}

func (m Model) sendCmd(text string) tea.Cmd {
	coord := m.coord
	timeout := time.Duration(m.cfg.Server.ChatTimeoutSecs+5) * time.Second
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		res, err := coord.Send(ctx, text)
		return ReplyMsg{Result: res, Err: err}
	}
}

func (m Model) resetSessionCmd() tea.Cmd {
	sessions := m.sessions
	ctxFn := m.controlCtx
	return func() tea.Msg {
		ctx, cancel := ctxFn()
		defer cancel()
		s, err := sessions.ClearSession(ctx)
		return SessionResetMsg{Session: s, Err: err}
	}
}

func (m Model) listSessionsCmd() tea.Cmd {
	sessions := m.sessions
	ctxFn := m.controlCtx
	return func() tea.Msg {
		ctx, cancel := ctxFn()
		defer cancel()
		list, err := sessions.ListSessions(ctx)
		return SessionsMsg{Sessions: list, Err: err}
	}
}

// =============================================================================
// HELPERS
// =============================================================================

// appendEntry adds a transcript entry and scrolls to the bottom.
func (m *Model) appendEntry(e Entry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	m.entries = append(m.entries, e)
	m.refreshViewport()
	m.viewport.GotoBottom()
}

// systemNote appends an informational system line.
func (m *Model) systemNote(text string) {
	m.appendEntry(Entry{Role: RoleSystem, Content: text})
}

// setTheme switches the color theme and rebuilds the renderer.
func (m *Model) setTheme(mode string) {
	m.cfg.UI.Theme = mode
	m.theme = styles.NewTheme(mode)
	m.theme.SetSize(m.width, m.height)
	m.spin.Style = m.theme.Spinner
	m.renderer = newMarkdownRenderer(mode, m.viewport.Width)
	m.refreshViewport()

	if m.store != nil {
		if err := m.store.SaveTheme(mode); err != nil {
			m.toasts.Add(components.ToastWarning, "Theme change not persisted: "+err.Error())
		}
	}
}
