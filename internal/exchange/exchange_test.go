// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package exchange

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jeranaias/nanochat-tui/internal/backend"
)

type fakeChatter struct {
	mu    sync.Mutex
	fn    func(req backend.ChatRequest) (*backend.ChatResponse, error)
	calls []backend.ChatRequest
}

func (f *fakeChatter) SendChat(ctx context.Context, req backend.ChatRequest) (*backend.ChatResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	if f.fn != nil {
		return f.fn(req)
	}
	return &backend.ChatResponse{Response: "hi", Model: req.Model}, nil
}

type fakeSessions struct {
	mu    sync.Mutex
	id    string
	count int
}

func (f *fakeSessions) ID() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *fakeSessions) Bump() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.count++
	return f.count
}

func (f *fakeSessions) reset(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.id, f.count = id, 0
}

type fakeBinder struct{ model string }

func (f *fakeBinder) ModelID() string { return f.model }

func coordinator() (*Coordinator, *fakeChatter, *fakeSessions) {
	fc := &fakeChatter{}
	fs := &fakeSessions{id: "playground:chat_1"}
	return New(fc, fs, &fakeBinder{model: "llama3.2"}), fc, fs
}

func TestSend(t *testing.T) {
	c, fc, fs := coordinator()

	res, err := c.Send(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if res.Reply != "hi" || res.SessionID != "playground:chat_1" {
		t.Errorf("result = %+v", res)
	}
	if len(fc.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(fc.calls))
	}
	req := fc.calls[0]
	if req.Message != "hello" || req.SessionID != "playground:chat_1" || req.Model != "llama3.2" {
		t.Errorf("request = %+v", req)
	}
	// One bump for the user message, one for the accepted reply.
	if fs.count != 2 {
		t.Errorf("count = %d, want 2", fs.count)
	}
	if c.Pending() {
		t.Error("pending must be cleared after completion")
	}
}

func TestSendEmptyMessage(t *testing.T) {
	c, fc, _ := coordinator()

	for _, msg := range []string{"", "   ", "\n\t"} {
		if _, err := c.Send(context.Background(), msg); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q): err = %v, want ErrEmptyMessage", msg, err)
		}
	}
	if len(fc.calls) != 0 {
		t.Error("empty messages must not reach the network")
	}
}

func TestSendSingleFlight(t *testing.T) {
	c, fc, _ := coordinator()

	started := make(chan struct{})
	release := make(chan struct{})
	var startedOnce sync.Once
	fc.fn = func(req backend.ChatRequest) (*backend.ChatResponse, error) {
		startedOnce.Do(func() { close(started) })
		<-release
		return &backend.ChatResponse{Response: "slow", Model: req.Model}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.Send(context.Background(), "first")
		done <- err
	}()

	<-started
	if _, err := c.Send(context.Background(), "second"); !errors.Is(err, ErrBusy) {
		t.Errorf("err = %v, want ErrBusy", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first send: %v", err)
	}

	// The flag clears once the first exchange completes.
	if _, err := c.Send(context.Background(), "third"); err != nil {
		t.Errorf("send after completion: %v", err)
	}
}

func TestSendRemoteRejection(t *testing.T) {
	c, fc, fs := coordinator()
	fc.fn = func(req backend.ChatRequest) (*backend.ChatResponse, error) {
		return nil, &backend.RemoteError{Status: 400, Message: "No model selected"}
	}

	_, err := c.Send(context.Background(), "hello")
	var remote *backend.RemoteError
	if !errors.As(err, &remote) {
		t.Fatalf("err = %v, want RemoteError", err)
	}
	if remote.Message != "No model selected" {
		t.Errorf("message = %q, want the server text verbatim", remote.Message)
	}
	// The user message was accepted even though the reply failed.
	if fs.count != 1 {
		t.Errorf("count = %d, want 1", fs.count)
	}
	if c.Pending() {
		t.Error("pending must be cleared after a failed exchange")
	}
}

func TestSendStaleAfterReset(t *testing.T) {
	c, fc, fs := coordinator()

	inFlight := make(chan struct{})
	release := make(chan struct{})
	fc.fn = func(req backend.ChatRequest) (*backend.ChatResponse, error) {
		close(inFlight)
		<-release
		return &backend.ChatResponse{Response: "late", Model: req.Model}, nil
	}

	done := make(chan error, 1)
	go func() {
		_, err := c.Send(context.Background(), "hello")
		done <- err
	}()

	<-inFlight
	fs.reset("playground:chat_2")
	close(release)

	if err := <-done; !errors.Is(err, ErrStale) {
		t.Errorf("err = %v, want ErrStale", err)
	}
	// The stale reply must not count against the fresh session.
	if fs.count != 0 {
		t.Errorf("count = %d, want 0", fs.count)
	}
}

func TestSendModelSnapshot(t *testing.T) {
	fc := &fakeChatter{}
	fs := &fakeSessions{id: "playground:chat_1"}
	fb := &fakeBinder{model: "llama3.2"}
	c := New(fc, fs, fb)

	release := make(chan struct{})
	started := make(chan struct{})
	fc.fn = func(req backend.ChatRequest) (*backend.ChatResponse, error) {
		close(started)
		<-release
		return &backend.ChatResponse{Response: "ok", Model: req.Model}, nil
	}

	done := make(chan *Result, 1)
	go func() {
		res, _ := c.Send(context.Background(), "hello")
		done <- res
	}()

	<-started
	fb.model = "qwen3"
	close(release)

	res := <-done
	if res == nil {
		t.Fatal("expected a result")
	}
	if res.Model != "llama3.2" {
		t.Errorf("model = %q, want the model snapshotted at accept time", res.Model)
	}
}

func TestSendContextCancellation(t *testing.T) {
	c, fc, _ := coordinator()
	fc.fn = func(req backend.ChatRequest) (*backend.ChatResponse, error) {
		return nil, context.Canceled
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Send(ctx, "hello")
	if err == nil {
		t.Fatal("expected an error")
	}
	if c.Pending() {
		t.Error("pending must be cleared after cancellation")
	}
}

func TestPendingVisibleDuringFlight(t *testing.T) {
	c, fc, _ := coordinator()

	started := make(chan struct{})
	release := make(chan struct{})
	fc.fn = func(req backend.ChatRequest) (*backend.ChatResponse, error) {
		close(started)
		<-release
		return &backend.ChatResponse{Response: "ok"}, nil
	}

	go func() { _, _ = c.Send(context.Background(), "hello") }()
	<-started
	if !c.Pending() {
		t.Error("Pending() must report true while in flight")
	}
	close(release)

	deadline := time.After(time.Second)
	for c.Pending() {
		select {
		case <-deadline:
			t.Fatal("pending never cleared")
		default:
			time.Sleep(time.Millisecond)
		}
	}
}
