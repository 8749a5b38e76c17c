// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"errors"
	"testing"
	"time"

	"github.com/jeranaias/nanochat-tui/internal/backend"
	"github.com/jeranaias/nanochat-tui/internal/binding"
	"github.com/jeranaias/nanochat-tui/internal/exchange"
)

func TestToastManagerAdd(t *testing.T) {
	m := NewToastManager()

	id1 := m.Add(ToastInfo, "first")
	id2 := m.Add(ToastError, "second")
	if id1 == id2 {
		t.Error("toast IDs must be unique")
	}

	toasts := m.Toasts()
	if len(toasts) != 2 {
		t.Fatalf("toasts = %d, want 2", len(toasts))
	}
	// Newest first.
	if toasts[0].Message != "second" {
		t.Errorf("toasts[0] = %q, want the newest", toasts[0].Message)
	}
}

func TestToastManagerMaxToasts(t *testing.T) {
	m := NewToastManager()
	for i := 0; i < 10; i++ {
		m.Add(ToastInfo, "msg")
	}
	if got := len(m.Toasts()); got != 5 {
		t.Errorf("toasts = %d, want capped at 5", got)
	}
}

func TestToastManagerDismiss(t *testing.T) {
	m := NewToastManager()
	id := m.Add(ToastInfo, "bye")
	m.Add(ToastInfo, "stay")

	m.Dismiss(id)
	toasts := m.Toasts()
	if len(toasts) != 1 || toasts[0].Message != "stay" {
		t.Errorf("toasts = %+v", toasts)
	}
}

func TestToastTickPrunesExpired(t *testing.T) {
	m := NewToastManager()
	m.Add(ToastInfo, "old")

	// Force expiry.
	m.mu.Lock()
	m.toasts[0].CreatedAt = time.Now().Add(-time.Minute)
	m.mu.Unlock()

	if remaining := m.Tick(); len(remaining) != 0 {
		t.Errorf("remaining = %d, want 0", len(remaining))
	}
	if m.HasToasts() {
		t.Error("expired toast still present")
	}
}

func TestToastDurationsByKind(t *testing.T) {
	m := NewToastManager()
	m.Add(ToastError, "e")
	m.Add(ToastWarning, "w")
	m.Add(ToastInfo, "i")

	toasts := m.Toasts()
	byMsg := map[string]time.Duration{}
	for _, toast := range toasts {
		byMsg[toast.Message] = toast.Duration
	}
	if byMsg["e"] != ErrorToastDuration || byMsg["w"] != WarningToastDuration || byMsg["i"] != InfoToastDuration {
		t.Errorf("durations = %v", byMsg)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ToastKind
	}{
		{"remote rejection", &backend.RemoteError{Status: 400, Message: "No model"}, ToastWarning},
		{"validation", binding.ErrValidation, ToastWarning},
		{"busy", exchange.ErrBusy, ToastInfo},
		{"empty message", exchange.ErrEmptyMessage, ToastInfo},
		{"transport", backend.ErrUnreachable, ToastError},
		{"generic", errors.New("boom"), ToastError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify = %v, want %v", got, tt.want)
			}
		})
	}
}
