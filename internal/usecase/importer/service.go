// Package importer turns uploaded batch files into transcript items.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

var ErrUnsupportedFormat = errors.New("unsupported format")

// ErrNoItems is returned for files without a single usable transcript.
var ErrNoItems = errors.New("file contains no transcripts")

type Parsers interface {
	Get(format string) (ports.Parser, bool)
}

type Service struct {
	Parsers  Parsers
	MaxItems int
}

func New(reg Parsers, maxItems int) *Service { return &Service{Parsers: reg, MaxItems: maxItems} }

type ImportArgs struct {
	Filename string
	Format   string // inferred from Filename when empty
	Content  []byte
}

func (s *Service) Import(_ context.Context, in ImportArgs) ([]domain.BatchItem, error) {
	format := in.Format
	if format == "" {
		format = formatFromName(in.Filename)
	}
	parser, ok := s.Parsers.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	pr, err := parser.Parse(in.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", format, err)
	}
	if len(pr.Items) == 0 {
		return nil, ErrNoItems
	}
	if s.MaxItems > 0 && len(pr.Items) > s.MaxItems {
		return nil, fmt.Errorf("file has %d transcripts, limit is %d", len(pr.Items), s.MaxItems)
	}
	seen := make(map[string]int, len(pr.Items))
	for i := range pr.Items {
		k := pr.Items[i].Key
		if n := seen[k]; n > 0 {
			pr.Items[i].Key = fmt.Sprintf("%s#%d", k, n+1)
		}
		seen[k]++
	}
	return pr.Items, nil
}

func formatFromName(name string) string {
	i := strings.LastIndex(name, ".")
	if i < 0 {
		return ""
	}
	switch ext := strings.ToLower(name[i+1:]); ext {
	case "ndjson", "json":
		return "jsonl"
	default:
		return ext
	}
}
