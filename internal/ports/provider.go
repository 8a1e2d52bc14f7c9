package ports

import (
	"context"

	"voicecat/internal/domain"
)

type Segment struct {
	Text    string
	Context string
}

type TranslateParams struct {
	SourceLang   string
	TargetLang   string
	Model        string
	Temperature  float64
	SystemPrompt string
	UserPrompt   string
}

type TranslateResult struct {
	Translation string
	Raw         string
}

type ExtractParams struct {
	Model        string
	Temperature  float64
	SystemPrompt string
	UserPrompt   string
}

type ExtractResult struct {
	Product domain.ExtractedProduct
	Raw     string
}

type ModelInfo struct {
	Name          string
	Description   string
	ContextTokens int
}

// Provider represents a single LLM provider implementation.
type Provider interface {
	Translate(ctx context.Context, seg Segment, p TranslateParams) (TranslateResult, error)
	Extract(ctx context.Context, seg Segment, p ExtractParams) (ExtractResult, error)
	ListModels(ctx context.Context) ([]ModelInfo, error)
	Test(ctx context.Context) error
}
