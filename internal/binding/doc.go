// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package binding holds the active backend selection for the client.
//
// The binding is the single mutable source of truth for which backend chat
// messages are sent to: either a built-in provider+model pair or an ad-hoc
// custom endpoint, never both. It starts Unbound, becomes BoundBuiltIn
// after the first configuration load, and moves between BoundBuiltIn and
// BoundCustom through the transition operations.
//
// Invariants:
//   - a non-nil custom endpoint implies the provider name "custom"
//   - exactly one backend is active at any time
//   - mutating operations are serialized; a second mutator issued while one
//     is in flight waits, it never interleaves
//   - a failed transition leaves the binding exactly as it was
package binding
