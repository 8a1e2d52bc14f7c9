package ports

import "voicecat/internal/domain"

type Exporter interface {
	Format() string
	ContentType() string
	Export(entries []*domain.CatalogEntry) ([]byte, error)
}
