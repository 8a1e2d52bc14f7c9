package extractor

import (
	"context"
	"errors"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

// Providers yields the provider currently used for extraction.
type Providers interface {
	Active() (string, ports.Provider, bool)
}

// LLM asks the active provider for the product record using the
// extract_product prompt templates.
type LLM struct {
	Providers   Providers
	Prompt      ports.PromptRenderer
	Model       string
	Temperature float64
}

func NewLLM(providers Providers, prompt ports.PromptRenderer, model string) *LLM {
	return &LLM{Providers: providers, Prompt: prompt, Model: model}
}

var errNoProvider = errors.New("no llm provider configured")

func (l *LLM) Extract(ctx context.Context, text string) (domain.ExtractedProduct, error) {
	_, prov, ok := l.Providers.Active()
	if !ok || prov == nil {
		return domain.ExtractedProduct{}, errNoProvider
	}
	data := ports.PromptData{Text: text, Categories: Labels()}
	system, err := l.Prompt.Render(ctx, "extract_product", "system", data)
	if err != nil {
		return domain.ExtractedProduct{}, err
	}
	user, err := l.Prompt.Render(ctx, "extract_product", "user", data)
	if err != nil {
		return domain.ExtractedProduct{}, err
	}
	res, err := prov.Extract(ctx, ports.Segment{Text: text}, ports.ExtractParams{
		Model:        l.Model,
		Temperature:  l.Temperature,
		SystemPrompt: system,
		UserPrompt:   user,
	})
	if err != nil {
		return domain.ExtractedProduct{}, err
	}
	return res.Product, nil
}
