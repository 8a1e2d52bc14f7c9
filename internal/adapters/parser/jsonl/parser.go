package jsonl

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

// Parser reads one {"key","text","language"} object per line. A single flat
// JSON object {key: text, ...} is accepted too.
type Parser struct{}

func New() *Parser { return &Parser{} }

func (p *Parser) Format() string { return "jsonl" }

type line struct {
	Key      string `json:"key"`
	ID       string `json:"id"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (p *Parser) Parse(data []byte) (ports.ParseResult, error) {
	data = bytes.TrimSpace(stripBOM(data))
	if items, ok := parseFlatObject(data); ok {
		return ports.ParseResult{Items: items}, nil
	}
	var items []domain.BatchItem
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	for n := 1; sc.Scan(); n++ {
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		var l line
		if err := json.Unmarshal(raw, &l); err != nil {
			return ports.ParseResult{}, fmt.Errorf("line %d: invalid json: %w", n, err)
		}
		text := strings.TrimSpace(l.Text)
		if text == "" {
			continue
		}
		key := l.Key
		if key == "" {
			key = l.ID
		}
		if key == "" {
			key = fmt.Sprintf("line-%d", n)
		}
		items = append(items, domain.BatchItem{Key: key, Text: text, LanguageHint: domain.Language(strings.ToLower(l.Language))})
	}
	if err := sc.Err(); err != nil {
		return ports.ParseResult{}, err
	}
	return ports.ParseResult{Items: items}, nil
}

// parseFlatObject handles {key: text}; metadata keys starting with $ are skipped.
func parseFlatObject(data []byte) ([]domain.BatchItem, bool) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	if _, hasText := m["text"]; hasText {
		return nil, false
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	items := make([]domain.BatchItem, 0, len(m))
	for _, k := range keys {
		if len(k) > 0 && k[0] == '$' {
			continue
		}
		s, ok := m[k].(string)
		if !ok || strings.TrimSpace(s) == "" {
			continue
		}
		items = append(items, domain.BatchItem{Key: k, Text: strings.TrimSpace(s)})
	}
	return items, true
}

func stripBOM(b []byte) []byte {
	bom := []byte{0xEF, 0xBB, 0xBF}
	if len(b) >= 3 && bytes.Equal(b[:3], bom) {
		return b[3:]
	}
	return b
}
