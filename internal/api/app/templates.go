package app

import (
	"context"
	"fmt"

	"voicecat/internal/adapters/prompt"
	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

type TemplatesAPI struct{ repo ports.TemplateRepository }

func NewTemplatesAPI(repo ports.TemplateRepository) *TemplatesAPI { return &TemplatesAPI{repo: repo} }

type UpsertTemplateRequest struct {
	Type string `json:"type"`
	Role string `json:"role"`
	Body string `json:"body"`
}

// Upsert stores a prompt override after checking it parses. An empty body
// restores the built-in prompt.
func (a *TemplatesAPI) Upsert(ctx context.Context, req UpsertTemplateRequest) (*domain.Template, error) {
	if a.repo == nil {
		return nil, fmt.Errorf("template store: %w", ErrUnavailable)
	}
	if req.Type != prompt.TypeTranslate && req.Type != prompt.TypeExtract {
		return nil, fmt.Errorf("%w: type must be %s or %s", ErrInvalidInput, prompt.TypeTranslate, prompt.TypeExtract)
	}
	if req.Role != prompt.RoleSystem && req.Role != prompt.RoleUser {
		return nil, fmt.Errorf("%w: role must be %s or %s", ErrInvalidInput, prompt.RoleSystem, prompt.RoleUser)
	}
	if err := prompt.Validate(req.Body); err != nil {
		return nil, fmt.Errorf("%w: template: %w", ErrInvalidInput, err)
	}
	t := &domain.Template{Type: req.Type, Role: req.Role, Body: req.Body}
	if err := a.repo.Upsert(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Get returns the effective body for (typ, role).
func (a *TemplatesAPI) Get(ctx context.Context, typ, role string) (*domain.Template, error) {
	if a.repo != nil {
		t, err := a.repo.Get(ctx, typ, role)
		if err != nil {
			return nil, err
		}
		if t != nil && t.Body != "" {
			return t, nil
		}
	}
	body := prompt.Builtin(typ, role)
	if body == "" {
		return nil, ports.ErrNotFound
	}
	return &domain.Template{Type: typ, Role: role, Body: body}, nil
}
