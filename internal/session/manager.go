// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the identity of the current conversation.
package session

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/nanochat-tui/internal/backend"
)

// Namespace is the key prefix scoping this client's sessions on the
// backend, matching the playground server's default session namespace.
const Namespace = "playground:"

// Backend is the subset of the API client the manager needs.
type Backend interface {
	ClearSession(ctx context.Context, sessionID string) error
	ListSessions(ctx context.Context) ([]backend.SessionInfo, error)
}

// Session is an immutable snapshot of the current conversation identity.
type Session struct {
	ID           string
	CreatedAt    time.Time
	MessageCount int
}

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager tracks the current session and its reset semantics. All state is
// owned here and exposed read-only through value snapshots; the rest of the
// system never mutates session identity directly.
type Manager struct {
	mu      sync.Mutex
	client  Backend
	current Session
	lastID  string
}

// NewManager creates a manager with a fresh session.
func NewManager(client Backend) *Manager {
	m := &Manager{client: client}
	m.current = Session{ID: m.generateID(), CreatedAt: time.Now()}
	return m
}

// Current returns a snapshot of the current session.
func (m *Manager) Current() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// ID returns the current session ID.
func (m *Manager) ID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current.ID
}

// Bump increments the message count and returns the new value. Called once
// per user message the coordinator accepts.
func (m *Manager) Bump() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current.MessageCount++
	return m.current.MessageCount
}

// =============================================================================
// RESET OPERATIONS
// =============================================================================

// NewSession replaces the current session with a fresh one. Pure client-side
// reset: no backend call is made, rendered conversation state is the
// caller's to discard.
func (m *Manager) NewSession() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = Session{ID: m.generateID(), CreatedAt: time.Now()}
	return m.current
}

// ClearSession asks the backend to drop history for the current session ID,
// then resets locally regardless of the outcome. A session the server
// failed to purge is still abandoned client-side: continuing to use a stale
// ID risks leaking prior context into the next turn. The remote error, if
// any, is returned so the caller can surface the discrepancy; it is never
// treated as a reason to keep the old session.
func (m *Manager) ClearSession(ctx context.Context) (Session, error) {
	oldID := m.ID()

	var remoteErr error
	if m.client != nil {
		if remoteErr = m.client.ClearSession(ctx, oldID); remoteErr != nil {
			log.Printf("server-side clear failed for %s (resetting locally anyway): %v", oldID, remoteErr)
		}
	}

	return m.NewSession(), remoteErr
}

// ListSessions returns the server-side sessions in this client's namespace.
func (m *Manager) ListSessions(ctx context.Context) ([]backend.SessionInfo, error) {
	all, err := m.client.ListSessions(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]backend.SessionInfo, 0, len(all))
	for _, s := range all {
		if strings.HasPrefix(s.Key, Namespace) {
			out = append(out, s)
		}
	}
	return out, nil
}

// =============================================================================
// ID GENERATION
// =============================================================================

// generateID creates a session ID unique for the process lifetime.
// Timestamps can collide when sessions are created in the same second, so a
// random suffix disambiguates any ID sharing the previous one's timestamp.
func (m *Manager) generateID() string {
	id := Namespace + "chat_" + time.Now().Format("20060102_150405")
	if strings.HasPrefix(m.lastID, id) {
		id += "_" + uuid.New().String()[:8]
	}
	m.lastID = id
	return id
}
