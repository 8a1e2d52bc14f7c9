package app

import (
	"context"
	"fmt"

	"voicecat/internal/adapters/llm/registry"
	"voicecat/internal/domain"
)

// ProviderAPI exposes the configured LLM providers. Providers come from
// configuration; only the active selection can change at runtime.
type ProviderAPI struct {
	reg     *registry.Registry
	configs map[string]domain.Provider
}

func NewProviderAPI(reg *registry.Registry, configs ...domain.Provider) *ProviderAPI {
	m := make(map[string]domain.Provider, len(configs))
	for _, c := range configs {
		m[c.Name] = c
	}
	return &ProviderAPI{reg: reg, configs: m}
}

type ProviderDTO struct {
	Name    string `json:"name"`
	Type    string `json:"type,omitempty"`
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model,omitempty"`
	APIKey  string `json:"api_key,omitempty"`
	Active  bool   `json:"active"`
}

func (a *ProviderAPI) List() []*ProviderDTO {
	active, _, _ := a.reg.Active()
	names := a.reg.Names()
	out := make([]*ProviderDTO, 0, len(names))
	for _, n := range names {
		c := a.configs[n]
		out = append(out, &ProviderDTO{Name: n, Type: c.Type, BaseURL: c.BaseURL, Model: c.Model, APIKey: mask(c.APIKey), Active: n == active})
	}
	return out
}

func (a *ProviderAPI) SetActive(name string) error {
	if err := a.reg.SetActive(name); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return nil
}

type ModelInfo struct {
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	ContextTokens int    `json:"context_tokens,omitempty"`
}

func (a *ProviderAPI) ListModels(ctx context.Context, name string) ([]ModelInfo, error) {
	prov, ok := a.reg.Get(name)
	if !ok {
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidInput, name)
	}
	models, err := prov.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ModelInfo, 0, len(models))
	for _, m := range models {
		out = append(out, ModelInfo{Name: m.Name, Description: m.Description, ContextTokens: m.ContextTokens})
	}
	return out, nil
}

// Health reports every provider's connectivity; a nil error maps to "ok".
func (a *ProviderAPI) Health(ctx context.Context) (map[string]string, bool) {
	res := a.reg.HealthCheck(ctx)
	out := make(map[string]string, len(res))
	healthy := true
	for name, err := range res {
		if err != nil {
			out[name] = err.Error()
			healthy = false
			continue
		}
		out[name] = "ok"
	}
	return out, healthy
}

func mask(s string) string {
	if len(s) <= 4 {
		return s
	}
	return "****" + s[len(s)-4:]
}
