// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package presets

import "testing"

func TestLookup(t *testing.T) {
	p, ok := Lookup("openrouter")
	if !ok {
		t.Fatal("Lookup(openrouter) should succeed")
	}
	if p.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("BaseURL = %q", p.BaseURL)
	}
	if len(p.Models) == 0 {
		t.Error("preset should have models")
	}

	if _, ok := Lookup("nope"); ok {
		t.Error("Lookup(nope) should fail")
	}
}

func TestAll_OrderAndIsolation(t *testing.T) {
	all := All()
	if len(all) == 0 {
		t.Fatal("catalog should not be empty")
	}
	if all[0].ID != "openrouter" {
		t.Errorf("first preset = %q, want openrouter", all[0].ID)
	}

	// Mutating the copy must not leak into the catalog.
	all[0].BaseURL = "http://tampered"
	p, _ := Lookup("openrouter")
	if p.BaseURL == "http://tampered" {
		t.Error("All() must return a copy of the catalog")
	}
}

func TestDefaultModel(t *testing.T) {
	for _, p := range All() {
		m, ok := p.DefaultModel()
		if !ok {
			t.Errorf("preset %s has no default model", p.ID)
			continue
		}
		if m.ID != p.DefaultModelID {
			t.Errorf("preset %s default = %q, want %q", p.ID, m.ID, p.DefaultModelID)
		}
	}

	// Missing default falls back to the first model.
	p := Preset{Models: All()[0].Models, DefaultModelID: "missing"}
	m, ok := p.DefaultModel()
	if !ok || m.ID != p.Models[0].ID {
		t.Errorf("fallback default = %+v, ok=%v", m, ok)
	}
}
