// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nanochat-tui/internal/presets"
	"github.com/jeranaias/nanochat-tui/internal/ui/components"
)

// =============================================================================
// SLASH COMMANDS
// =============================================================================

// slashCommand is one /command the input line understands.
type slashCommand struct {
	name    string
	usage   string
	desc    string
	handler func(*Model, []string) tea.Cmd
}

// slashCommands is the registry, in /help display order.
var slashCommands = []slashCommand{
	{"help", "/help", "show available commands", (*Model).cmdHelp},
	{"new", "/new", "start a fresh session", (*Model).cmdNew},
	{"clear", "/clear", "alias for /new", (*Model).cmdNew},
	{"model", "/model [id]", "pick a model, or switch directly", (*Model).cmdModel},
	{"endpoint", "/endpoint [clear]", "bind or drop a custom endpoint", (*Model).cmdEndpoint},
	{"preset", "/preset [id]", "bind a known endpoint preset", (*Model).cmdPreset},
	{"sessions", "/sessions", "list stored sessions", (*Model).cmdSessions},
	{"temp", "/temp <0.0-2.0>", "set sampling temperature", (*Model).cmdTemp},
	{"tokens", "/tokens <n>", "set max completion tokens", (*Model).cmdTokens},
	{"theme", "/theme [dark|light]", "switch the color theme", (*Model).cmdTheme},
	{"quit", "/quit", "exit nanochat", (*Model).cmdQuit},
}

// parseCommand splits a /command input line. ok is false for plain chat text.
func parseCommand(input string) (name string, args []string, ok bool) {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return "", nil, false
	}
	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return "", nil, false
	}
	return strings.ToLower(fields[0]), fields[1:], true
}

// dispatchCommand runs a parsed command, or reports it as unknown.
func (m *Model) dispatchCommand(name string, args []string) tea.Cmd {
	for _, cmd := range slashCommands {
		if cmd.name == name {
			return cmd.handler(m, args)
		}
	}
	m.toasts.Add(components.ToastWarning, "Unknown command /"+name+" (try /help)")
	return nil
}

// =============================================================================
// HANDLERS
// =============================================================================

func (m *Model) cmdHelp(args []string) tea.Cmd {
	m.overlay = OverlayHelp
	return nil
}

func (m *Model) cmdNew(args []string) tea.Cmd {
	return m.resetSessionCmd()
}

func (m *Model) cmdModel(args []string) tea.Cmd {
	if len(args) > 0 {
		return m.selectModelCmd(args[0])
	}
	if !m.ready {
		m.toasts.Add(components.ToastWarning, "Backend configuration not loaded yet")
		return nil
	}
	m.openModelPicker()
	return nil
}

func (m *Model) cmdEndpoint(args []string) tea.Cmd {
	if len(args) > 0 && strings.EqualFold(args[0], "clear") {
		if snap := m.bind.Snapshot(); snap.Custom == nil {
			m.toasts.Add(components.ToastInfo, "No custom endpoint is active")
			return nil
		}
		return m.clearEndpointCmd()
	}
	m.openEndpointForm("")
	return nil
}

func (m *Model) cmdPreset(args []string) tea.Cmd {
	if len(args) > 0 {
		preset, ok := presets.Lookup(args[0])
		if !ok {
			m.toasts.Add(components.ToastWarning, "Unknown preset: "+args[0])
			return nil
		}
		m.openEndpointForm(preset.ID)
		return nil
	}
	m.openPresetPicker()
	return nil
}

func (m *Model) cmdSessions(args []string) tea.Cmd {
	return m.listSessionsCmd()
}

func (m *Model) cmdTemp(args []string) tea.Cmd {
	if len(args) == 0 {
		snap := m.bind.Snapshot()
		m.systemNote("Temperature: " + strconv.FormatFloat(snap.Temperature, 'f', -1, 64))
		return nil
	}
	v, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		m.toasts.Add(components.ToastWarning, "Not a number: "+args[0])
		return nil
	}
	if err := m.bind.SetParameters(v, m.bind.Snapshot().MaxTokens); err != nil {
		m.toasts.AddError(err)
		return nil
	}
	m.systemNote("Temperature set to " + args[0] + " (applies on the next model switch)")
	return nil
}

func (m *Model) cmdTokens(args []string) tea.Cmd {
	if len(args) == 0 {
		snap := m.bind.Snapshot()
		m.systemNote("Max tokens: " + strconv.Itoa(snap.MaxTokens))
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		m.toasts.Add(components.ToastWarning, "Not a number: "+args[0])
		return nil
	}
	if err := m.bind.SetParameters(m.bind.Snapshot().Temperature, n); err != nil {
		m.toasts.AddError(err)
		return nil
	}
	m.systemNote("Max tokens set to " + args[0] + " (applies on the next model switch)")
	return nil
}

func (m *Model) cmdTheme(args []string) tea.Cmd {
	mode := ""
	if len(args) > 0 {
		mode = strings.ToLower(args[0])
	}
	switch mode {
	case "dark", "light":
	case "":
		// Toggle.
		mode = "light"
		if m.theme.Mode == "light" {
			mode = "dark"
		}
	default:
		m.toasts.Add(components.ToastWarning, "Unknown theme: "+mode+" (dark or light)")
		return nil
	}
	m.setTheme(mode)
	m.systemNote("Theme: " + mode)
	return nil
}

func (m *Model) cmdQuit(args []string) tea.Cmd {
	return tea.Quit
}

// =============================================================================
// PICKER CONSTRUCTION
// =============================================================================

// openModelPicker builds the model selector from the provider catalog.
func (m *Model) openModelPicker() {
	var items []components.SelectorItem
	for _, p := range m.bind.Providers() {
		if !p.Configured || len(p.Models) == 0 {
			continue
		}
		name := p.DisplayName
		if name == "" {
			name = p.Name
		}
		items = append(items, components.SelectorItem{Label: name, Group: true})
		for _, model := range p.Models {
			meta := ""
			if p.IsLocal {
				meta = "local"
			}
			items = append(items, components.SelectorItem{ID: model.ID, Label: model.ID, Meta: meta})
		}
	}

	m.selector = components.NewSelector("Select model", items)
	if snap := m.bind.Snapshot(); snap.ModelID != "" {
		m.selector.SelectID(snap.ModelID)
	}
	m.overlay = OverlayModels
}

// openPresetPicker builds the endpoint preset selector.
func (m *Model) openPresetPicker() {
	var items []components.SelectorItem
	for _, p := range presets.All() {
		items = append(items, components.SelectorItem{
			ID:    p.ID,
			Label: p.Name,
			Meta:  p.BaseURL,
		})
	}
	m.selector = components.NewSelector("Endpoint presets", items)
	m.overlay = OverlayPresets
}

// openEndpointForm opens the custom endpoint form, pre-filled from the
// preset when given, otherwise from the persisted endpoint record.
func (m *Model) openEndpointForm(presetID string) {
	m.formPreset = presetID

	url, key, model := "", "", ""
	if preset, ok := presets.Lookup(presetID); ok {
		url = preset.BaseURL
		key = preset.APIKey
		if def, ok := preset.DefaultModel(); ok {
			model = def.ID
		}
	} else if saved, ok := m.bind.SavedEndpoint(); ok {
		url, key, model = saved.BaseURL, saved.APIKey, saved.ModelID
		m.formPreset = saved.PresetID
	}

	m.formInputs[0].SetValue(url)
	m.formInputs[1].SetValue(key)
	m.formInputs[2].SetValue(model)
	m.formFocus = 0
	for i := range m.formInputs {
		m.formInputs[i].Blur()
	}
	m.formInputs[0].Focus()
	m.input.Blur()
	m.overlay = OverlayEndpoint
}
