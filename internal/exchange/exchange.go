// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/jeranaias/nanochat-tui/internal/backend"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmptyMessage indicates the message was empty or whitespace only.
	ErrEmptyMessage = errors.New("message is empty")

	// ErrBusy indicates an exchange is already in flight.
	ErrBusy = errors.New("an exchange is already in flight")

	// ErrStale indicates the reply arrived after the session it belongs to
	// was reset. The result is discarded.
	ErrStale = errors.New("reply belongs to a reset session")
)

// =============================================================================
// TYPES
// =============================================================================

// Chatter is the subset of the API client the coordinator needs.
type Chatter interface {
	SendChat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error)
}

// Sessions provides the active session ID and its message counter.
type Sessions interface {
	ID() string
	Bump() int
}

// Binder exposes the currently bound model.
type Binder interface {
	ModelID() string
}

// Result is the outcome of a completed exchange.
type Result struct {
	Reply     string
	Model     string
	SessionID string
	Usage     map[string]int
}

// Coordinator serializes chat exchanges against the backend.
type Coordinator struct {
	mu      sync.Mutex
	client  Chatter
	session Sessions
	binding Binder
	pending bool
}

// New creates a coordinator with no exchange in flight.
func New(client Chatter, session Sessions, binding Binder) *Coordinator {
	return &Coordinator{client: client, session: session, binding: binding}
}

// Pending reports whether an exchange is currently in flight.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// =============================================================================
// SEND
// =============================================================================

// Send runs one chat exchange. The message is validated and the model and
// session snapshotted before the request leaves; the pending flag is
// cleared on every outcome. Remote rejections come back as
// *backend.RemoteError with the server's message verbatim.
func (c *Coordinator) Send(ctx context.Context, text string) (*Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.pending {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	c.pending = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
	}()

	// Snapshot at accept time: a model switch or session reset that happens
	// while the request is in flight must not affect this exchange.
	sessionID := c.session.ID()
	model := c.binding.ModelID()
	c.session.Bump()

	resp, err := c.client.SendChat(ctx, backend.ChatRequest{
		Message:   text,
		SessionID: sessionID,
		Model:     model,
	})
	if err != nil {
		return nil, err
	}

	if c.session.ID() != sessionID {
		return nil, ErrStale
	}
	c.session.Bump()

	return &Result{
		Reply:     resp.Response,
		Model:     resp.Model,
		SessionID: sessionID,
		Usage:     resp.Usage,
	}, nil
}
