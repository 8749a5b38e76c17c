// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for nanochat.
//
// Configuration lives in TOML at ~/.nanochat/config.toml with sensible
// defaults, environment variable overrides, and validation. A watcher can
// reload a running instance when the file changes on disk.
package config
