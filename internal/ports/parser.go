package ports

import "voicecat/internal/domain"

type ParseResult struct {
	Items []domain.BatchItem
}

type Parser interface {
	Format() string
	Parse(data []byte) (ParseResult, error)
}
