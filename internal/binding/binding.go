// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package binding holds the active backend selection for the client.
package binding

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/jeranaias/nanochat-tui/internal/backend"
	"github.com/jeranaias/nanochat-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrConfigUnavailable indicates the config fetch failed or returned no
	// configured providers. Callers degrade to a disabled selector; this is
	// never fatal to the process.
	ErrConfigUnavailable = errors.New("backend configuration unavailable")

	// ErrValidation indicates client-side input validation failed before
	// any network call was made.
	ErrValidation = errors.New("validation failed")
)

// =============================================================================
// TYPES
// =============================================================================

// State identifies which kind of backend the binding is attached to.
type State int

const (
	// Unbound is the cold-start state before the first config load.
	Unbound State = iota
	// BoundBuiltIn means a provider+model pair is active.
	BoundBuiltIn
	// BoundCustom means an ad-hoc custom endpoint is active.
	BoundCustom
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case Unbound:
		return "Unbound"
	case BoundBuiltIn:
		return "BoundBuiltIn"
	case BoundCustom:
		return "BoundCustom"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// CustomProviderName is the provider name reported while a custom endpoint
// is bound.
const CustomProviderName = "custom"

// CustomEndpoint is an active ad-hoc backend override.
type CustomEndpoint struct {
	BaseURL  string
	APIKey   string
	ModelID  string
	PresetID string
}

// Snapshot is a read-only copy of the binding state.
type Snapshot struct {
	State       State
	Provider    string
	ModelID     string
	Custom      *CustomEndpoint
	Temperature float64
	MaxTokens   int
}

// Backend is the subset of the API client the binding needs.
type Backend interface {
	GetConfig(ctx context.Context) (*backend.ConfigResponse, error)
	SwitchModel(ctx context.Context, req backend.SwitchModelRequest) (*backend.SwitchModelResponse, error)
	BindEndpoint(ctx context.Context, req backend.BindEndpointRequest) (*backend.BindEndpointResponse, error)
}

// Persister stores the custom endpoint record across restarts.
type Persister interface {
	SaveEndpoint(rec storage.EndpointRecord) error
	LoadEndpoint() (storage.EndpointRecord, bool)
	EraseEndpoint() error
}

// =============================================================================
// BINDING
// =============================================================================

// Binding is the state machine holding the active backend selection.
//
// State is owned exclusively by this type: the rest of the system reads it
// through Snapshot and mutates it only through the transition operations.
// opMu serializes the mutating operations end to end (including their
// network call) so two transitions can never interleave; mu guards the
// fields for cheap concurrent reads.
type Binding struct {
	opMu sync.Mutex
	mu   sync.Mutex

	client Backend
	store  Persister

	state       State
	providers   []backend.Provider
	provider    string
	modelID     string
	custom      *CustomEndpoint
	temperature float64
	maxTokens   int
}

// New creates an unbound binding. store may be nil when persistence is
// unavailable; the binding then simply skips the mirror writes.
func New(client Backend, store Persister) *Binding {
	return &Binding{
		client:      client,
		store:       store,
		state:       Unbound,
		temperature: 0.7,
		maxTokens:   8192,
	}
}

// =============================================================================
// READ ACCESS
// =============================================================================

// Snapshot returns a copy of the current binding state.
func (b *Binding) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	var custom *CustomEndpoint
	if b.custom != nil {
		c := *b.custom
		custom = &c
	}
	return Snapshot{
		State:       b.state,
		Provider:    b.provider,
		ModelID:     b.modelID,
		Custom:      custom,
		Temperature: b.temperature,
		MaxTokens:   b.maxTokens,
	}
}

// ModelID returns the currently active model ID.
func (b *Binding) ModelID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.modelID
}

// Providers returns the loaded provider catalog.
func (b *Binding) Providers() []backend.Provider {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]backend.Provider, len(b.providers))
	copy(out, b.providers)
	return out
}

// SavedEndpoint returns the persisted custom endpoint record, used to
// pre-fill the endpoint form after a restart.
func (b *Binding) SavedEndpoint() (CustomEndpoint, bool) {
	if b.store == nil {
		return CustomEndpoint{}, false
	}
	rec, ok := b.store.LoadEndpoint()
	if !ok {
		return CustomEndpoint{}, false
	}
	return CustomEndpoint{BaseURL: rec.URL, APIKey: rec.Key, ModelID: rec.Model, PresetID: rec.Preset}, true
}

// =============================================================================
// TRANSITIONS
// =============================================================================

// LoadConfiguration fetches the provider catalog and the backend's active
// selection, transitioning Unbound -> BoundBuiltIn. Returns the raw config
// for UI consumption. Fails with ErrConfigUnavailable when the remote call
// errors or no provider is configured.
func (b *Binding) LoadConfiguration(ctx context.Context) (*backend.ConfigResponse, error) {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	cfg, err := b.client.GetConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}
	if len(cfg.ConfiguredProviders()) == 0 {
		return nil, fmt.Errorf("%w: no configured providers", ErrConfigUnavailable)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.providers = cfg.Providers
	b.provider = cfg.CurrentProvider
	b.modelID = cfg.CurrentModel
	if cfg.Temperature > 0 {
		b.temperature = cfg.Temperature
	}
	if cfg.MaxTokens > 0 {
		b.maxTokens = cfg.MaxTokens
	}
	b.custom = nil
	b.state = BoundBuiltIn
	return cfg, nil
}

// SelectProvider switches to a built-in provider by cascading into its
// first model (deterministic first-wins tie-break). Unknown providers and
// providers without models are a no-op.
func (b *Binding) SelectProvider(ctx context.Context, name string) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()
	return b.selectProviderLocked(ctx, name)
}

func (b *Binding) selectProviderLocked(ctx context.Context, name string) error {
	b.mu.Lock()
	var first string
	for _, p := range b.providers {
		if p.Name == name && len(p.Models) > 0 {
			first = p.Models[0].ID
			break
		}
	}
	b.mu.Unlock()

	if first == "" {
		return nil
	}
	return b.selectModelLocked(ctx, first)
}

// SelectModel commits a built-in model selection. Idempotent: when modelID
// is already current and no custom endpoint is active, no network call is
// made. On remote failure the binding is left unchanged.
func (b *Binding) SelectModel(ctx context.Context, modelID string) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()
	return b.selectModelLocked(ctx, modelID)
}

func (b *Binding) selectModelLocked(ctx context.Context, modelID string) error {
	b.mu.Lock()
	if modelID == b.modelID && b.custom == nil {
		b.mu.Unlock()
		return nil
	}
	req := backend.SwitchModelRequest{
		Model:       modelID,
		Temperature: b.temperature,
		MaxTokens:   b.maxTokens,
	}
	b.mu.Unlock()

	resp, err := b.client.SwitchModel(ctx, req)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.modelID = modelID
	if resp.Model != "" {
		b.modelID = resp.Model
	}
	b.provider = resp.Provider
	if b.provider == "" {
		b.provider = b.providerOf(b.modelID)
	}
	// Mutual exclusion: committing a built-in model deactivates any custom
	// endpoint. The persisted record stays so the form re-fills later.
	b.custom = nil
	b.state = BoundBuiltIn
	return nil
}

// providerOf finds the catalog provider owning modelID. Caller holds b.mu.
func (b *Binding) providerOf(modelID string) string {
	for _, p := range b.providers {
		for _, m := range p.Models {
			if m.ID == modelID {
				return p.Name
			}
		}
	}
	return b.provider
}

// ApplyCustomEndpoint binds the session to an ad-hoc endpoint. Inputs are
// validated before any network call; the persisted mirror is written on
// success and its failure never aborts the completed transition.
func (b *Binding) ApplyCustomEndpoint(ctx context.Context, baseURL, apiKey, modelID, presetID string) error {
	baseURL = strings.TrimSpace(baseURL)
	apiKey = strings.TrimSpace(apiKey)
	modelID = strings.TrimSpace(modelID)

	if baseURL == "" {
		return fmt.Errorf("%w: API base URL is required", ErrValidation)
	}
	if modelID == "" {
		return fmt.Errorf("%w: model name is required", ErrValidation)
	}
	baseURL = normalizeBaseURL(baseURL)

	b.opMu.Lock()
	defer b.opMu.Unlock()

	resp, err := b.client.BindEndpoint(ctx, backend.BindEndpointRequest{
		APIBase: baseURL,
		APIKey:  apiKey,
		Model:   modelID,
	})
	if err != nil {
		return err
	}
	if resp.APIBase != "" {
		baseURL = resp.APIBase
	}

	b.mu.Lock()
	b.provider = CustomProviderName
	b.modelID = modelID
	b.custom = &CustomEndpoint{BaseURL: baseURL, APIKey: apiKey, ModelID: modelID, PresetID: presetID}
	b.state = BoundCustom
	b.mu.Unlock()

	if b.store != nil {
		rec := storage.EndpointRecord{URL: baseURL, Key: apiKey, Model: modelID, Preset: presetID}
		if err := b.store.SaveEndpoint(rec); err != nil {
			log.Printf("failed to persist custom endpoint (continuing): %v", err)
		}
	}
	return nil
}

// ClearCustomEndpoint unconditionally drops the custom endpoint, erases the
// persisted copy, and re-derives a built-in binding from selectedProvider
// (the provider the UI selector currently shows). With no selected provider
// the binding stays in a deliberately inert no-active-model state rather
// than guessing.
func (b *Binding) ClearCustomEndpoint(ctx context.Context, selectedProvider string) error {
	b.opMu.Lock()
	defer b.opMu.Unlock()

	b.mu.Lock()
	b.custom = nil
	b.provider = ""
	b.modelID = ""
	b.state = Unbound
	b.mu.Unlock()

	if b.store != nil {
		if err := b.store.EraseEndpoint(); err != nil {
			log.Printf("failed to erase persisted endpoint (continuing): %v", err)
		}
	}

	if selectedProvider == "" {
		return nil
	}
	return b.selectProviderLocked(ctx, selectedProvider)
}

// SetParameters updates the request parameters applied with the next
// commit. Local only, no network call.
func (b *Binding) SetParameters(temperature float64, maxTokens int) error {
	if temperature < 0 || temperature > 2 {
		return fmt.Errorf("%w: temperature must be in [0, 2]", ErrValidation)
	}
	if maxTokens <= 0 {
		return fmt.Errorf("%w: max tokens must be positive", ErrValidation)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.temperature = temperature
	b.maxTokens = maxTokens
	return nil
}

// normalizeBaseURL strips completion-path suffixes users tend to paste;
// the backend appends them itself.
func normalizeBaseURL(u string) string {
	u = strings.TrimSuffix(u, "/")
	for _, suffix := range []string{"/v1/chat/completions", "/v1"} {
		if strings.HasSuffix(u, suffix) {
			return u[:len(u)-len(suffix)]
		}
	}
	return u
}
