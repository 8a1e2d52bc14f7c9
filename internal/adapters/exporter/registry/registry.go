package registry

import (
	"sort"
	"strings"

	"voicecat/internal/ports"
)

type Registry struct{ byFormat map[string]ports.Exporter }

func New(exporters ...ports.Exporter) *Registry {
	r := &Registry{byFormat: map[string]ports.Exporter{}}
	for _, e := range exporters {
		r.Register(e)
	}
	return r
}

func (r *Registry) Register(e ports.Exporter) { r.byFormat[e.Format()] = e }

func (r *Registry) Get(format string) (ports.Exporter, bool) {
	e, ok := r.byFormat[strings.ToLower(strings.TrimSpace(format))]
	return e, ok
}

func (r *Registry) Formats() []string {
	out := make([]string, 0, len(r.byFormat))
	for f := range r.byFormat {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}
