// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
		want Args
	}{
		{"empty", nil, Args{}},
		{"plain", []string{"--plain"}, Args{Plain: true}},
		{"server spaced", []string{"--server", "http://localhost:9090"}, Args{Server: "http://localhost:9090"}},
		{"server equals", []string{"--server=http://localhost:9090"}, Args{Server: "http://localhost:9090"}},
		{"short model", []string{"-m", "llama3.2"}, Args{Model: "llama3.2"}},
		{"theme", []string{"--theme", "light"}, Args{Theme: "light"}},
		{"combined", []string{"--plain", "-q", "--no-markdown", "--model=gpt-4o"},
			Args{Plain: true, Quiet: true, NoMarkdown: true, Model: "gpt-4o"}},
		{"version", []string{"-v"}, Args{Version: true}},
		{"help", []string{"--help"}, Args{Help: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			if err != nil {
				t.Fatalf("Parse(%v) error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%v) = %+v, want %+v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  []string
	}{
		{"unknown flag", []string{"--bogus"}},
		{"missing value", []string{"--server"}},
		{"value looks like flag", []string{"--model", "--plain"}},
		{"bad theme", []string{"--theme", "solarized"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.raw); err == nil {
				t.Errorf("Parse(%v) expected an error", tt.raw)
			}
		})
	}
}

func TestUsageMentionsAllFlags(t *testing.T) {
	usage := Usage()
	for _, flag := range []string{"--plain", "--server", "--model", "--config", "--theme", "--no-markdown", "--quiet", "--help"} {
		if !strings.Contains(usage, flag) {
			t.Errorf("usage text missing %s", flag)
		}
	}
}

func TestWrapText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		maxLine  int
		wantSame bool
	}{
		{"short line untouched", "hello world", 40, 38, true},
		{"long line wrapped", strings.Repeat("word ", 30), 40, 38, false},
		{"preserves newlines", "a\nb\nc", 40, 38, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WrapText(tt.text, tt.width)
			if tt.wantSame && got != tt.text {
				t.Errorf("WrapText changed text that fits: %q", got)
			}
			for _, line := range strings.Split(got, "\n") {
				if len(line) > tt.maxLine {
					t.Errorf("line exceeds width %d: %q", tt.maxLine, line)
				}
			}
		})
	}
}
