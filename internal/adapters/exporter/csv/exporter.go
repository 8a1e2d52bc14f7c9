package csv

import (
	"bytes"
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"voicecat/internal/domain"
)

type Exporter struct {
	// Comma is the field separator; zero means ','.
	Comma rune
}

func New() *Exporter { return &Exporter{} }

func (e *Exporter) Format() string { return "csv" }

func (e *Exporter) ContentType() string { return "text/csv; charset=utf-8" }

var header = []string{
	"id", "title", "description", "category", "price", "quantity", "unit",
	"unit_price", "total", "brand", "color", "size", "material", "origin", "tags",
	"source_language", "created_at", "updated_at",
}

func (e *Exporter) Export(entries []*domain.CatalogEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if e.Comma != 0 {
		w.Comma = e.Comma
	}
	_ = w.Write(header)
	for _, it := range entries {
		_ = w.Write([]string{
			it.ID, it.Title, it.Description, it.Category, number(it.Price),
			strconv.FormatFloat(it.Quantity, 'f', -1, 64), it.Unit,
			number(it.UnitPrice), number(it.Total),
			it.Brand, it.Color, it.Size, it.Material, it.Origin,
			strings.Join(it.Tags, "|"), string(it.SourceLanguage),
			it.CreatedAt.UTC().Format(time.RFC3339), it.UpdatedAt.UTC().Format(time.RFC3339),
		})
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// number renders an optional amount; unknown is an empty cell.
func number(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
