// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/nanochat-tui/internal/backend"
)

// fakeBackend records session calls for assertions.
type fakeBackend struct {
	clearErr  error
	clearedID string
	sessions  []backend.SessionInfo
	listErr   error
}

func (f *fakeBackend) ClearSession(ctx context.Context, sessionID string) error {
	f.clearedID = sessionID
	return f.clearErr
}

func (f *fakeBackend) ListSessions(ctx context.Context) ([]backend.SessionInfo, error) {
	return f.sessions, f.listErr
}

// =============================================================================
// IDENTITY TESTS
// =============================================================================

func TestNewManager(t *testing.T) {
	m := NewManager(&fakeBackend{})

	s := m.Current()
	if !strings.HasPrefix(s.ID, Namespace+"chat_") {
		t.Errorf("ID = %q, want %q prefix", s.ID, Namespace+"chat_")
	}
	if s.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
	if s.MessageCount != 0 {
		t.Errorf("MessageCount = %d, want 0", s.MessageCount)
	}
}

func TestGenerateID_SameSecondUnique(t *testing.T) {
	m := NewManager(&fakeBackend{})

	// Several resets within one second must all produce distinct IDs.
	seen := map[string]bool{m.ID(): true}
	for i := 0; i < 10; i++ {
		id := m.NewSession().ID
		if seen[id] {
			t.Fatalf("duplicate session ID %q", id)
		}
		seen[id] = true
	}
}

func TestBump(t *testing.T) {
	m := NewManager(&fakeBackend{})

	if n := m.Bump(); n != 1 {
		t.Errorf("Bump = %d, want 1", n)
	}
	if n := m.Bump(); n != 2 {
		t.Errorf("Bump = %d, want 2", n)
	}
	if m.Current().MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", m.Current().MessageCount)
	}
}

// =============================================================================
// RESET TESTS
// =============================================================================

func TestNewSession_ResetsCountAndID(t *testing.T) {
	fb := &fakeBackend{}
	m := NewManager(fb)
	oldID := m.ID()
	m.Bump()

	s := m.NewSession()
	if s.ID == oldID {
		t.Error("NewSession must produce a fresh ID")
	}
	if s.MessageCount != 0 {
		t.Errorf("MessageCount = %d, want 0", s.MessageCount)
	}
	if fb.clearedID != "" {
		t.Error("NewSession must not call the backend")
	}
}

func TestClearSession_RemoteSuccess(t *testing.T) {
	fb := &fakeBackend{}
	m := NewManager(fb)
	oldID := m.ID()

	s, err := m.ClearSession(context.Background())
	if err != nil {
		t.Fatalf("ClearSession error: %v", err)
	}
	if fb.clearedID != oldID {
		t.Errorf("backend cleared %q, want %q", fb.clearedID, oldID)
	}
	if s.ID == oldID {
		t.Error("session must be replaced after clear")
	}
}

func TestClearSession_BestEffort(t *testing.T) {
	fb := &fakeBackend{clearErr: errors.New("server down")}
	m := NewManager(fb)
	oldID := m.ID()

	// Remote failure is reported but the local reset still happens.
	s, err := m.ClearSession(context.Background())
	if err == nil {
		t.Error("remote failure should be reported, not swallowed")
	}
	if s.ID == oldID {
		t.Error("local reset must proceed despite remote failure")
	}
	if m.ID() == oldID {
		t.Error("manager must be on the new session")
	}
}

// =============================================================================
// LISTING TESTS
// =============================================================================

func TestListSessions_FiltersNamespace(t *testing.T) {
	fb := &fakeBackend{sessions: []backend.SessionInfo{
		{Key: Namespace + "chat_1"},
		{Key: "telegram:123"},
		{Key: Namespace + "default"},
	}}
	m := NewManager(fb)

	got, err := m.ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (foreign namespaces filtered)", len(got))
	}
	for _, s := range got {
		if !strings.HasPrefix(s.Key, Namespace) {
			t.Errorf("unexpected key %q", s.Key)
		}
	}
}
