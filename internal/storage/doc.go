// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable local settings for the nanochat client.
//
// Settings live in a small SQLite database (~/.nanochat/settings.db) as
// namespaced key/value rows. Two namespaces exist today:
//
//   - endpoint/custom: the custom endpoint record {url, key, model, preset}
//   - ui/theme:        the display theme preference
//
// Absence is a normal state, not an error. Reads tolerate a missing or
// corrupted database by reporting "absent" so a broken settings file can
// never take the client down. The persisted API key is sealed at rest with
// AES-256-GCM under a key derived from a machine-local secret file.
package storage
