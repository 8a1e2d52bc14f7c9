package csvparser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

// Parser reads batch transcripts from CSV with a header row. A text column
// is required; key and language are optional.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "csv" }

func (p *Parser) Parse(data []byte) (ports.ParseResult, error) {
	data = stripBOM(data)
	r := csv.NewReader(bufio.NewReader(bytes.NewReader(data)))
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	header, err := r.Read()
	if err == io.EOF {
		return ports.ParseResult{}, errors.New("csv is empty")
	}
	if err != nil {
		return ports.ParseResult{}, err
	}
	idx := map[string]int{}
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	textIdx := column(idx, "text", "transcript", "source", "description")
	if textIdx == -1 {
		return ports.ParseResult{}, errors.New("csv missing text column (text/transcript/source/description)")
	}
	keyIdx := column(idx, "key", "id", "sku")
	langIdx := column(idx, "language", "lang")

	var items []domain.BatchItem
	for row := 1; ; row++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return ports.ParseResult{}, err
		}
		text := strings.TrimSpace(field(rec, textIdx))
		if text == "" {
			continue
		}
		key := strings.TrimSpace(field(rec, keyIdx))
		if key == "" {
			key = fmt.Sprintf("row-%d", row)
		}
		items = append(items, domain.BatchItem{
			Key:          key,
			Text:         text,
			LanguageHint: domain.Language(strings.ToLower(strings.TrimSpace(field(rec, langIdx)))),
		})
	}
	return ports.ParseResult{Items: items}, nil
}

func column(idx map[string]int, names ...string) int {
	for _, n := range names {
		if i, ok := idx[n]; ok {
			return i
		}
	}
	return -1
}

func field(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return rec[i]
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
