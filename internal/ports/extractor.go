package ports

import (
	"context"

	"voicecat/internal/domain"
)

// Extractor turns English product text into a structured record.
type Extractor interface {
	Extract(ctx context.Context, text string) (domain.ExtractedProduct, error)
}
