// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// ENDPOINT ROUND-TRIP TESTS
// =============================================================================

func TestEndpointRoundTrip(t *testing.T) {
	dir := t.TempDir()

	store, err := Open(dir)
	require.NoError(t, err)

	rec := EndpointRecord{
		URL:    "https://x",
		Key:    "k",
		Model:  "grok",
		Preset: "openrouter",
	}
	require.NoError(t, store.SaveEndpoint(rec))
	require.NoError(t, store.Close())

	// Reopen simulates a process restart.
	store, err = Open(dir)
	require.NoError(t, err)
	defer store.Close()

	got, ok := store.LoadEndpoint()
	require.True(t, ok, "record should survive reopen")
	assert.Equal(t, rec, got)
}

func TestLoadEndpoint_Absent(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.LoadEndpoint()
	assert.False(t, ok, "fresh store has no endpoint record")
}

func TestEraseEndpoint(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveEndpoint(EndpointRecord{URL: "https://x", Model: "m"}))
	require.NoError(t, store.EraseEndpoint())

	_, ok := store.LoadEndpoint()
	assert.False(t, ok, "erased record should read as absent")

	// Erasing an absent record is not an error.
	assert.NoError(t, store.EraseEndpoint())
}

// =============================================================================
// CORRUPTION TOLERANCE TESTS
// =============================================================================

func TestLoadEndpoint_CorruptedRecord(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.set(keyCustomEndpoint, "{not json"))

	_, ok := store.LoadEndpoint()
	assert.False(t, ok, "corrupted record must read as absent, not fail")
}

func TestLoadEndpoint_TamperedCredential(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.SaveEndpoint(EndpointRecord{URL: "https://x", Key: "secret", Model: "m"}))
	require.NoError(t, store.Close())

	// A new secret file makes the sealed credential undecryptable.
	require.NoError(t, os.Remove(filepath.Join(dir, "secret.key")))

	store, err = Open(dir)
	require.NoError(t, err)
	defer store.Close()

	_, ok := store.LoadEndpoint()
	assert.False(t, ok, "unreadable credential must degrade to absent")
}

// =============================================================================
// SEALING TESTS
// =============================================================================

func TestCredentialSealedAtRest(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveEndpoint(EndpointRecord{URL: "https://x", Key: "sk-verysecret", Model: "m"}))

	raw, ok := store.get(keyCustomEndpoint)
	require.True(t, ok)
	assert.NotContains(t, raw, "sk-verysecret", "plaintext credential must not reach disk")
	assert.Contains(t, raw, sealedPrefix)
}

func TestSeal_EmptyCredential(t *testing.T) {
	s, err := newSealer(filepath.Join(t.TempDir(), "secret.key"))
	require.NoError(t, err)

	sealed, err := s.Seal("")
	require.NoError(t, err)
	assert.Equal(t, "", sealed, "empty credential stays empty")

	plain, err := s.Unseal("")
	require.NoError(t, err)
	assert.Equal(t, "", plain)
}

func TestUnseal_LegacyPlaintext(t *testing.T) {
	s, err := newSealer(filepath.Join(t.TempDir(), "secret.key"))
	require.NoError(t, err)

	// Values without the sealed prefix pass through unchanged.
	plain, err := s.Unseal("old-plaintext-key")
	require.NoError(t, err)
	assert.Equal(t, "old-plaintext-key", plain)
}

func TestUnseal_Garbage(t *testing.T) {
	s, err := newSealer(filepath.Join(t.TempDir(), "secret.key"))
	require.NoError(t, err)

	_, err = s.Unseal(sealedPrefix + "!!!not base64!!!")
	assert.ErrorIs(t, err, ErrUnsealFailed)

	_, err = s.Unseal(sealedPrefix) // empty payload, shorter than a nonce
	assert.ErrorIs(t, err, ErrUnsealFailed)
}

// =============================================================================
// THEME NAMESPACE TESTS
// =============================================================================

func TestThemeNamespaceIsolation(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.SaveTheme("light"))
	require.NoError(t, store.SaveEndpoint(EndpointRecord{URL: "https://x", Model: "m"}))

	theme, ok := store.LoadTheme()
	require.True(t, ok)
	assert.Equal(t, "light", theme)

	// Erasing the endpoint record must not touch the theme.
	require.NoError(t, store.EraseEndpoint())
	theme, ok = store.LoadTheme()
	require.True(t, ok)
	assert.Equal(t, "light", theme)

	if strings.HasPrefix(keyTheme, keyCustomEndpoint) || strings.HasPrefix(keyCustomEndpoint, keyTheme) {
		t.Error("theme and endpoint keys must not share a prefix")
	}
}
