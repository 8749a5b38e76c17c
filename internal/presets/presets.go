// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package presets provides the built-in custom endpoint preset catalog.
//
// A preset is a pre-filled template for the custom endpoint form: base URL,
// optional credential, and a list of known-good models with a default. The
// catalog is compiled into the client and never mutated at runtime.
package presets

import "github.com/jeranaias/nanochat-tui/internal/backend"

// Preset is a built-in custom endpoint template.
type Preset struct {
	// ID uniquely identifies the preset (stable, persisted alongside the
	// custom endpoint record so the UI can re-select it after restart).
	ID string

	// Name is the human-readable label shown in the selector.
	Name string

	// BaseURL is the OpenAI-compatible API base for this endpoint.
	BaseURL string

	// APIKey is a credential baked into the preset, empty when the user
	// must supply their own.
	APIKey string

	// Models are the known selectable models for this endpoint.
	Models []backend.Model

	// DefaultModelID is the model pre-selected when the preset is chosen.
	DefaultModelID string
}

// catalog holds the presets in display order.
var catalog = []Preset{
	{
		ID:      "openrouter",
		Name:    "OpenRouter",
		BaseURL: "https://openrouter.ai/api/v1",
		Models: []backend.Model{
			{ID: "anthropic/claude-sonnet-4-5", Name: "Claude Sonnet 4.5", Description: "Fast & capable"},
			{ID: "openai/gpt-4o", Name: "GPT-4o", Description: "OpenAI flagship"},
			{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini", Description: "Fast & affordable"},
			{ID: "google/gemini-2.0-flash-001", Name: "Gemini 2.0 Flash", Description: "Google fast model"},
			{ID: "deepseek/deepseek-chat", Name: "DeepSeek Chat", Description: "DeepSeek V3"},
			{ID: "meta-llama/llama-3.3-70b-instruct", Name: "Llama 3.3 70B", Description: "Meta open model"},
		},
		DefaultModelID: "anthropic/claude-sonnet-4-5",
	},
	{
		ID:      "groq",
		Name:    "Groq",
		BaseURL: "https://api.groq.com/openai/v1",
		Models: []backend.Model{
			{ID: "llama-3.3-70b-versatile", Name: "Llama 3.3 70B", Description: "Fast open model"},
			{ID: "mixtral-8x7b-32768", Name: "Mixtral 8x7B", Description: "Long context"},
		},
		DefaultModelID: "llama-3.3-70b-versatile",
	},
	{
		ID:      "pollinations",
		Name:    "Pollinations",
		BaseURL: "https://gen.pollinations.ai/v1",
		Models: []backend.Model{
			{ID: "gemini-fast", Name: "Gemini Fast", Description: "Free tier"},
		},
		DefaultModelID: "gemini-fast",
	},
	{
		ID:      "ollama",
		Name:    "Ollama (local)",
		BaseURL: "http://localhost:11434/v1",
		Models: []backend.Model{
			{ID: "qwen2.5-coder:14b", Name: "Qwen 2.5 Coder 14B", Description: "Local coding model"},
			{ID: "llama3.2", Name: "Llama 3.2", Description: "Local general model"},
		},
		DefaultModelID: "qwen2.5-coder:14b",
	},
}

// index maps preset ID to its catalog position.
var index = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, p := range catalog {
		m[p.ID] = i
	}
	return m
}()

// Lookup returns the preset with the given ID.
func Lookup(id string) (Preset, bool) {
	i, ok := index[id]
	if !ok {
		return Preset{}, false
	}
	return catalog[i], true
}

// All returns the presets in display order. The returned slice is a copy;
// mutating it does not affect the catalog.
func All() []Preset {
	out := make([]Preset, len(catalog))
	copy(out, catalog)
	return out
}

// DefaultModel returns the default model descriptor for a preset, falling
// back to the first model when the configured default is missing.
func (p Preset) DefaultModel() (backend.Model, bool) {
	for _, m := range p.Models {
		if m.ID == p.DefaultModelID {
			return m, true
		}
	}
	if len(p.Models) > 0 {
		return p.Models[0], true
	}
	return backend.Model{}, false
}
