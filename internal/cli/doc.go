// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli implements the plain-terminal chat mode.
//
// When stdout is not a TTY, or when --plain is given, nanochat skips the
// Bubble Tea interface and runs a readline-style REPL instead. The REPL
// speaks the same slash commands as the TUI and shares the binding,
// session, and exchange layers with it.
package cli
