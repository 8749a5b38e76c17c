// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Bubble Tea message types for the chat view. Every backend round-trip
// reports back through one of these; handlers carry the error rather than
// panicking so a dead server degrades to toasts, not a crash.
package chat

import (
	"github.com/jeranaias/nanochat-tui/internal/backend"
	"github.com/jeranaias/nanochat-tui/internal/config"
	"github.com/jeranaias/nanochat-tui/internal/exchange"
	"github.com/jeranaias/nanochat-tui/internal/session"
)

// ConfigLoadedMsg delivers the provider catalog fetched at startup.
type ConfigLoadedMsg struct {
	Config *backend.ConfigResponse
	Err    error
}

// ConfigReloadedMsg delivers a changed config file picked up by the
// watcher while the program runs.
type ConfigReloadedMsg struct {
	Config *config.Config
}

// ModelSwitchedMsg confirms a model selection commit.
type ModelSwitchedMsg struct {
	ModelID string
	Err     error
}

// EndpointBoundMsg confirms a custom endpoint bind.
type EndpointBoundMsg struct {
	ModelID string
	Err     error
}

// EndpointClearedMsg confirms the custom endpoint was dropped.
type EndpointClearedMsg struct {
	Err error
}

// ReplyMsg delivers the outcome of a chat exchange.
type ReplyMsg struct {
	Result *exchange.Result
	Err    error
}

// SessionResetMsg confirms a session reset.
type SessionResetMsg struct {
	Session session.Session
	Err     error
}

// SessionsMsg delivers the stored session list.
type SessionsMsg struct {
	Sessions []backend.SessionInfo
	Err      error
}
