// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the identity of the current conversation.
//
// A session is an opaque key scoping server-side history. The manager
// creates a fresh key at startup, replaces it (never mutates it) on reset,
// and guarantees process-lifetime uniqueness of generated keys even when
// two sessions are created within the same second.
package session
