// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides durable local settings for the nanochat client.
package storage

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

// =============================================================================
// CONSTANTS
// =============================================================================

// sealedPrefix marks a value as sealed (format: ENC:base64(nonce|ciphertext)).
const sealedPrefix = "ENC:"

// nonceSize is the size of the nonce for AES-GCM (12 bytes / 96 bits).
const nonceSize = 12

// keySize is the size of the AES-256 key (32 bytes).
const keySize = 32

// saltSize is the size of the salt for key derivation (32 bytes).
const saltSize = 32

// kdfIterations is the PBKDF2-SHA-256 iteration count. The input is a
// 32-byte random secret rather than a human password, so stretching is not
// load-bearing; a moderate count keeps startup fast.
const kdfIterations = 10000

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrSealFailed indicates the credential could not be sealed.
	ErrSealFailed = errors.New("failed to seal credential")
	// ErrUnsealFailed indicates decryption failed (wrong key or tampered data).
	ErrUnsealFailed = errors.New("failed to unseal credential")
)

// =============================================================================
// SEALER
// =============================================================================

// sealer encrypts and decrypts credential values with AES-256-GCM. The key
// is derived from a random machine-local secret file, created on first use.
type sealer struct {
	aead cipher.AEAD
}

// newSealer loads (or creates) the secret file at secretPath and derives
// the sealing key from it.
func newSealer(secretPath string) (*sealer, error) {
	secret, err := loadOrCreateSecret(secretPath)
	if err != nil {
		return nil, err
	}
	defer zeroBytes(secret)

	// First half is the KDF input, second half the salt.
	key := pbkdf2.Key(secret[:keySize], secret[keySize:], kdfIterations, keySize, sha256.New)
	defer zeroBytes(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return &sealer{aead: aead}, nil
}

// loadOrCreateSecret reads the machine-local secret, generating it with
// 0600 permissions on first use.
func loadOrCreateSecret(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err == nil && len(data) == keySize+saltSize {
		return data, nil
	}

	secret := make([]byte, keySize+saltSize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return nil, fmt.Errorf("failed to generate secret: %w", err)
	}
	if err := os.WriteFile(path, secret, 0600); err != nil {
		return nil, fmt.Errorf("failed to store secret: %w", err)
	}
	return secret, nil
}

// Seal encrypts a plaintext credential. Empty input stays empty so the
// absence of a key round-trips cleanly.
func (s *sealer) Seal(plaintext string) (string, error) {
	if plaintext == "" {
		return "", nil
	}

	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSealFailed, err)
	}

	sealed := s.aead.Seal(nil, nonce, []byte(plaintext), nil)
	return sealedPrefix + base64.StdEncoding.EncodeToString(append(nonce, sealed...)), nil
}

// Unseal decrypts a sealed credential. Values without the sealed prefix are
// returned unchanged, which keeps records written before sealing readable.
func (s *sealer) Unseal(value string) (string, error) {
	if !strings.HasPrefix(value, sealedPrefix) {
		return value, nil
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, sealedPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsealFailed, err)
	}
	if len(raw) < nonceSize {
		return "", ErrUnsealFailed
	}

	plaintext, err := s.aead.Open(nil, raw[:nonceSize], raw[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsealFailed, err)
	}
	return string(plaintext), nil
}

// zeroBytes zeros sensitive byte slices to prevent memory disclosure.
func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
