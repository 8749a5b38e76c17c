// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backend provides the HTTP client for the nanobot playground API.
//
// The playground backend exposes a small REST surface for configuration,
// model switching, custom endpoint binding, chat, and session management.
// All request and response bodies are typed records validated at the
// boundary: a malformed response surfaces as a transport error instead of
// propagating undefined values inward.
//
// Calls consumed:
//   - GET  /api/config          current providers, model, and parameters
//   - POST /api/model           switch the active built-in model
//   - POST /api/endpoint        bind an ad-hoc OpenAI-compatible endpoint
//   - POST /api/chat            send one chat message
//   - GET  /api/sessions        list server-side sessions
//   - POST /api/sessions/clear  drop server-side history for a session
//
// Error payloads are {"error": "..."} and are surfaced verbatim through
// *RemoteError; connection, timeout, and parse failures are reported as
// *ClientError so callers can distinguish rejection from unreachability.
package backend
