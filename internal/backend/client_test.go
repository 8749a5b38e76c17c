// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// =============================================================================
// CONFIG FETCH TESTS
// =============================================================================

func TestGetConfig(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/config" || r.Method != http.MethodGet {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"currentModel": "gpt-4o",
			"currentProvider": "openai",
			"temperature": 0.7,
			"maxTokens": 8192,
			"providers": [
				{"name": "openai", "displayName": "OpenAI", "configured": true,
				 "models": [{"id": "gpt-4o", "name": "GPT-4o"}]},
				{"name": "anthropic", "displayName": "Anthropic", "configured": false, "models": []}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	cfg, err := client.GetConfig(context.Background())
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}

	if cfg.CurrentModel != "gpt-4o" {
		t.Errorf("CurrentModel = %q, want %q", cfg.CurrentModel, "gpt-4o")
	}
	if cfg.CurrentProvider != "openai" {
		t.Errorf("CurrentProvider = %q, want %q", cfg.CurrentProvider, "openai")
	}
	if len(cfg.Providers) != 2 {
		t.Fatalf("len(Providers) = %d, want 2", len(cfg.Providers))
	}
	if configured := cfg.ConfiguredProviders(); len(configured) != 1 || configured[0].Name != "openai" {
		t.Errorf("ConfiguredProviders = %+v, want just openai", configured)
	}
	if _, ok := cfg.FindProvider("anthropic"); !ok {
		t.Error("FindProvider(anthropic) should succeed")
	}
	if _, ok := cfg.FindProvider("missing"); ok {
		t.Error("FindProvider(missing) should fail")
	}
}

func TestGetConfig_RetriesTransientFailure(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"currentModel": "m", "providers": []}`))
	}))
	defer server.Close()

	cfg, err := NewClient(server.URL).GetConfig(context.Background())
	if err != nil {
		t.Fatalf("GetConfig should succeed after retries: %v", err)
	}
	if cfg.CurrentModel != "m" {
		t.Errorf("CurrentModel = %q", cfg.CurrentModel)
	}
	if calls.Load() != 3 {
		t.Errorf("server saw %d calls, want 3", calls.Load())
	}
}

func TestGetConfig_Unreachable(t *testing.T) {
	// Port from a closed listener: nothing is serving there.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := NewClient(url).GetConfig(context.Background())
	if err == nil {
		t.Fatal("GetConfig should fail against a closed server")
	}
	if !IsTransport(err) {
		t.Errorf("error should be a transport failure, got %T: %v", err, err)
	}
}

// =============================================================================
// ERROR MAPPING TESTS
// =============================================================================

func TestSwitchModel_RemoteRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "No model specified"}`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SwitchModel(context.Background(), SwitchModelRequest{})
	if err == nil {
		t.Fatal("SwitchModel should fail")
	}

	re, ok := AsRemote(err)
	if !ok {
		t.Fatalf("error should be *RemoteError, got %T: %v", err, err)
	}
	// The backend message must survive verbatim.
	if re.Message != "No model specified" {
		t.Errorf("Message = %q, want %q", re.Message, "No model specified")
	}
	if re.Status != http.StatusBadRequest {
		t.Errorf("Status = %d, want 400", re.Status)
	}
	if IsTransport(err) {
		t.Error("a remote rejection is not a transport failure")
	}
}

func TestSendChat_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response": `)) // truncated JSON
	}))
	defer server.Close()

	_, err := NewClient(server.URL).SendChat(context.Background(), ChatRequest{Message: "hi", SessionID: "s"})
	if err == nil {
		t.Fatal("SendChat should fail on malformed body")
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Errorf("error should match ErrInvalidResponse, got %v", err)
	}
}

func TestSendChat_Fields(t *testing.T) {
	var gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"response": "hello there", "model": "gpt-4o", "usage": {"total_tokens": 12}}`))
	}))
	defer server.Close()

	resp, err := NewClient(server.URL).SendChat(context.Background(), ChatRequest{
		Message:   "hello",
		SessionID: "chat_1",
		Model:     "gpt-4o",
	})
	if err != nil {
		t.Fatalf("SendChat failed: %v", err)
	}
	if resp.Response != "hello there" {
		t.Errorf("Response = %q", resp.Response)
	}
	if resp.Usage["total_tokens"] != 12 {
		t.Errorf("Usage = %v", resp.Usage)
	}

	for _, want := range []string{`"message":"hello"`, `"sessionId":"chat_1"`, `"model":"gpt-4o"`} {
		if !strings.Contains(gotBody, want) {
			t.Errorf("request body %q missing %q", gotBody, want)
		}
	}
}

func TestClearSession_Ack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/clear" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"success": true}`))
	}))
	defer server.Close()

	if err := NewClient(server.URL).ClearSession(context.Background(), "chat_1"); err != nil {
		t.Fatalf("ClearSession failed: %v", err)
	}
}

func TestListSessions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sessions": [{"key": "playground:default", "createdAt": "2025-01-01T00:00:00Z"}]}`))
	}))
	defer server.Close()

	sessions, err := NewClient(server.URL).ListSessions(context.Background())
	if err != nil {
		t.Fatalf("ListSessions failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].Key != "playground:default" {
		t.Errorf("sessions = %+v", sessions)
	}
}

// =============================================================================
// TIMEOUT TESTS
// =============================================================================

func TestSendChat_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"response": "late"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.SendChat(ctx, ChatRequest{Message: "hi", SessionID: "s"})
	if err == nil {
		t.Fatal("SendChat should time out")
	}
	if !IsTransport(err) {
		t.Errorf("timeout should be a transport failure, got %v", err)
	}
}
