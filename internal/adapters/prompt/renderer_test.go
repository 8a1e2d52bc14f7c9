package prompt

import (
	"context"
	"errors"
	"strings"
	"testing"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

type fakeTemplates struct {
	t   *domain.Template
	err error
}

func (f fakeTemplates) Get(context.Context, string, string) (*domain.Template, error) {
	return f.t, f.err
}
func (f fakeTemplates) Upsert(context.Context, *domain.Template) error { return nil }

func TestRenderBuiltin(t *testing.T) {
	r := New(nil)
	got, err := r.Render(context.Background(), TypeExtract, RoleSystem, ports.PromptData{Categories: []string{"Food > Spices", "General"}})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "Food > Spices; General.") {
		t.Errorf("categories not rendered: %q", got)
	}
	got, _ = r.Render(context.Background(), TypeTranslate, RoleSystem, ports.PromptData{SrcLang: "ta", TgtLang: "en"})
	if !strings.Contains(got, "from ta to en") {
		t.Errorf("languages not rendered: %q", got)
	}
}

func TestRenderOverride(t *testing.T) {
	r := New(fakeTemplates{t: &domain.Template{Body: "custom {{.Text}}"}})
	got, err := r.Render(context.Background(), TypeTranslate, RoleUser, ports.PromptData{Text: "pudavai"})
	if err != nil || got != "custom pudavai" {
		t.Errorf("Render = %q, %v", got, err)
	}
	r = New(fakeTemplates{err: errors.New("db down")})
	got, err = r.Render(context.Background(), TypeTranslate, RoleUser, ports.PromptData{Text: "pudavai"})
	if err != nil || got != "source: pudavai" {
		t.Errorf("Render with failing store = %q, %v", got, err)
	}
}

func TestRenderErrors(t *testing.T) {
	if _, err := New(nil).Render(context.Background(), "unknown", RoleUser, ports.PromptData{}); err == nil {
		t.Error("expected error for unknown template")
	}
	r := New(fakeTemplates{t: &domain.Template{Body: "{{.Text"}})
	if _, err := r.Render(context.Background(), TypeTranslate, RoleUser, ports.PromptData{}); err == nil {
		t.Error("expected parse error")
	}
	if Validate("{{.Text}}") != nil || Validate("{{if}}") == nil {
		t.Error("Validate misreports template syntax")
	}
}
