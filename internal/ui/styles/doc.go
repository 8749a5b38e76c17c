// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the nanochat TUI.
//
// Colors are organized as explicit dark and light palettes rather than
// terminal auto-detection, so the /theme command can switch at runtime
// and the choice persists across sessions.
package styles
