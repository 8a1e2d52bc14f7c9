// Package prompt renders LLM prompts from stored templates, falling back to
// built-in bodies when no override exists.
package prompt

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"voicecat/internal/ports"
)

const (
	TypeTranslate = "translate_single"
	TypeExtract   = "extract_product"

	RoleSystem = "system"
	RoleUser   = "user"
)

type Renderer struct {
	Templates ports.TemplateRepository
}

func New(templates ports.TemplateRepository) *Renderer { return &Renderer{Templates: templates} }

func (r *Renderer) Render(ctx context.Context, typ, role string, data ports.PromptData) (string, error) {
	body := Builtin(typ, role)
	if r.Templates != nil {
		// a broken template store must not take prompts down with it
		if t, err := r.Templates.Get(ctx, typ, role); err == nil && t != nil && t.Body != "" {
			body = t.Body
		}
	}
	if body == "" {
		return "", fmt.Errorf("no template for %s/%s", typ, role)
	}
	tpl, err := template.New(typ + "/" + role).Option("missingkey=zero").Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse template %s/%s: %w", typ, role, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template %s/%s: %w", typ, role, err)
	}
	return buf.String(), nil
}

// Validate parses body without executing it.
func Validate(body string) error {
	_, err := template.New("validate").Parse(body)
	return err
}

// Builtin returns the default body for (typ, role), or "" if none exists.
func Builtin(typ, role string) string {
	switch {
	case typ == TypeTranslate && role == RoleSystem:
		return "You translate short spoken product descriptions by Indian small sellers from {{.SrcLang}} to {{.TgtLang}}. " +
			"The text may be romanized. Keep numbers, prices and units exactly. " +
			"Return only JSON: {\"translation\":\"...\"}."
	case typ == TypeTranslate && role == RoleUser:
		return "source: {{.Text}}"
	case typ == TypeExtract && role == RoleSystem:
		return "You extract product catalog attributes from a seller's description. " +
			"Use one of these categories when it fits, otherwise \"General\": " +
			"{{range $i, $c := .Categories}}{{if $i}}; {{end}}{{$c}}{{end}}. " +
			"price is a number in the stated currency or null when no price is stated. " +
			"quantity defaults to 1. title has at most five words. confidence is between 0 and 1. " +
			"Return only JSON with keys title, description, category, price, quantity, unit, brand, color, size, material, origin, tags, confidence."
	case typ == TypeExtract && role == RoleUser:
		return "description: {{.Text}}"
	}
	return ""
}
