package registry

import (
	"sort"
	"strings"

	"voicecat/internal/ports"
)

type Registry struct {
	byFormat map[string]ports.Parser
}

func New(parsers ...ports.Parser) *Registry {
	r := &Registry{byFormat: map[string]ports.Parser{}}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

func (r *Registry) Register(p ports.Parser) { r.byFormat[p.Format()] = p }

func (r *Registry) Get(format string) (ports.Parser, bool) {
	p, ok := r.byFormat[strings.ToLower(strings.TrimSpace(format))]
	return p, ok
}

func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.byFormat))
	for f := range r.byFormat {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
