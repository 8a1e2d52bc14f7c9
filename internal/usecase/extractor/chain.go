// Package extractor turns post-processed English text into a structured
// product record: an optional LLM extractor first, deterministic rules after.
package extractor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

const (
	MethodLLM   = "llm"
	MethodRules = "rules"
)

// Chain runs Primary and falls back to Fallback on any primary failure.
// A nil Primary means the LLM capability is not configured.
type Chain struct {
	Primary  ports.Extractor
	Fallback ports.Extractor
	Timeout  time.Duration
	Logger   *slog.Logger
}

func NewChain(primary ports.Extractor, timeout time.Duration, logger *slog.Logger) *Chain {
	if logger == nil {
		logger = slog.Default()
	}
	return &Chain{Primary: primary, Fallback: NewRules(), Timeout: timeout, Logger: logger}
}

// Run never returns an error; failures are reported inside the result.
func (c *Chain) Run(ctx context.Context, text string) domain.ExtractionResult {
	if c.Primary != nil {
		p, err := c.runPrimary(ctx, text)
		if err == nil {
			p = Sanitize(p, text)
			return domain.ExtractionResult{Success: true, Method: MethodLLM, Details: &p}
		}
		c.Logger.Warn("llm extraction failed, using rules", "error", err)
	}
	fallback := c.Fallback
	if fallback == nil {
		fallback = NewRules()
	}
	p, err := safeExtract(ctx, fallback, text)
	if err != nil {
		c.Logger.Error("rule extraction failed", "error", err)
		return domain.ExtractionResult{Success: false, Method: MethodRules, Error: err.Error()}
	}
	return domain.ExtractionResult{Success: true, Method: MethodRules, Details: &p}
}

func (c *Chain) runPrimary(ctx context.Context, text string) (domain.ExtractedProduct, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	return safeExtract(ctx, c.Primary, text)
}

func safeExtract(ctx context.Context, e ports.Extractor, text string) (p domain.ExtractedProduct, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("extractor panic: %v", r)
		}
	}()
	return e.Extract(ctx, text)
}
