// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the nanobot playground API.
package backend

// =============================================================================
// CATALOG TYPES
// =============================================================================

// Model describes a single selectable model within a provider.
type Model struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Provider describes a built-in provider known to the backend.
//
// Configured reports whether the backend holds credentials for the provider;
// unconfigured providers are listed but cannot be selected.
type Provider struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"displayName"`
	Configured  bool    `json:"configured"`
	IsGateway   bool    `json:"isGateway"`
	IsLocal     bool    `json:"isLocal"`
	Models      []Model `json:"models"`
}

// ConfigResponse is the payload of GET /api/config.
type ConfigResponse struct {
	CurrentModel    string     `json:"currentModel"`
	CurrentProvider string     `json:"currentProvider"`
	Temperature     float64    `json:"temperature"`
	MaxTokens       int        `json:"maxTokens"`
	Providers       []Provider `json:"providers"`
}

// ConfiguredProviders returns the providers the backend can actually serve.
func (r *ConfigResponse) ConfiguredProviders() []Provider {
	out := make([]Provider, 0, len(r.Providers))
	for _, p := range r.Providers {
		if p.Configured {
			out = append(out, p)
		}
	}
	return out
}

// FindProvider returns the provider with the given name, if present.
func (r *ConfigResponse) FindProvider(name string) (Provider, bool) {
	for _, p := range r.Providers {
		if p.Name == name {
			return p, true
		}
	}
	return Provider{}, false
}

// =============================================================================
// MODEL SWITCH
// =============================================================================

// SwitchModelRequest is the payload of POST /api/model.
type SwitchModelRequest struct {
	Model       string  `json:"model"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

// SwitchModelResponse confirms a model switch.
type SwitchModelResponse struct {
	Success  bool   `json:"success"`
	Model    string `json:"model"`
	Provider string `json:"provider"`
}

// =============================================================================
// CUSTOM ENDPOINT
// =============================================================================

// BindEndpointRequest is the payload of POST /api/endpoint.
type BindEndpointRequest struct {
	APIBase string `json:"apiBase"`
	APIKey  string `json:"apiKey"`
	Model   string `json:"model"`
}

// BindEndpointResponse confirms a custom endpoint bind.
type BindEndpointResponse struct {
	Success bool   `json:"success"`
	Model   string `json:"model"`
	APIBase string `json:"apiBase"`
}

// =============================================================================
// CHAT
// =============================================================================

// ChatRequest is the payload of POST /api/chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	Model     string `json:"model,omitempty"`
}

// ChatResponse is a completed chat exchange.
type ChatResponse struct {
	Response string         `json:"response"`
	Model    string         `json:"model"`
	Usage    map[string]int `json:"usage,omitempty"`
}

// =============================================================================
// SESSIONS
// =============================================================================

// SessionInfo summarizes a server-side session.
type SessionInfo struct {
	Key       string `json:"key"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// sessionsResponse is the payload of GET /api/sessions.
type sessionsResponse struct {
	Sessions []SessionInfo `json:"sessions"`
}

// clearSessionRequest is the payload of POST /api/sessions/clear.
type clearSessionRequest struct {
	SessionID string `json:"sessionId"`
}

// ackResponse is a bare success acknowledgement.
type ackResponse struct {
	Success bool `json:"success"`
}

// errorPayload is the backend's explicit rejection shape.
type errorPayload struct {
	Error string `json:"error"`
}
