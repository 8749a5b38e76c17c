// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view for the nanochat TUI.
//
// The view wires the backend binding, the session manager, and the
// exchange coordinator into a Bubble Tea model: a transcript viewport,
// an input line with slash commands, picker overlays for models and
// endpoint presets, and toast notifications for failures.
package chat
