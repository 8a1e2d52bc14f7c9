package json

import (
	"encoding/json"

	"voicecat/internal/domain"
)

// Exporter writes the catalog as an indented JSON array.
type Exporter struct{}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "json" }

func (e *Exporter) ContentType() string { return "application/json" }

func (e *Exporter) Export(entries []*domain.CatalogEntry) ([]byte, error) {
	if entries == nil {
		entries = []*domain.CatalogEntry{}
	}
	return json.MarshalIndent(entries, "", "  ")
}
