// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package exchange coordinates chat round-trips with the backend.
//
// A Coordinator enforces single-flight sending: while one exchange is in
// flight, further sends are rejected with ErrBusy instead of queueing.
// Each exchange snapshots the active model and session at accept time, so
// a model switch mid-flight never rewrites an earlier request, and a reply
// that lands after the session was reset is discarded as stale rather than
// appended to the wrong transcript.
package exchange
