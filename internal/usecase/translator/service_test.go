package translator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"voicecat/internal/adapters/prompt"
	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

type scriptedProvider struct {
	ports.Provider
	replies []string
	errs    []error
	calls   int
	lastSys string
}

func (p *scriptedProvider) Translate(_ context.Context, _ ports.Segment, tp ports.TranslateParams) (ports.TranslateResult, error) {
	i := p.calls
	p.calls++
	p.lastSys = tp.SystemPrompt
	var err error
	if i < len(p.errs) {
		err = p.errs[i]
	}
	if err != nil {
		return ports.TranslateResult{}, err
	}
	return ports.TranslateResult{Translation: p.replies[i]}, nil
}

type single struct {
	name string
	p    ports.Provider
}

func (s single) Active() (string, ports.Provider, bool) { return s.name, s.p, s.p != nil }

type mapCache map[string]*domain.CacheEntry

func (m mapCache) key(src, sl, tl, prov, model string) string {
	return src + "|" + sl + "|" + tl + "|" + prov + "|" + model
}

func (m mapCache) Get(_ context.Context, src, sl, tl, prov, model string) (*domain.CacheEntry, error) {
	return m[m.key(src, sl, tl, prov, model)], nil
}

func (m mapCache) Put(_ context.Context, e *domain.CacheEntry) error {
	m[m.key(e.SourceText, e.SrcLang, e.TgtLang, e.Provider, e.Model)] = e
	return nil
}

func newService(p ports.Provider, cache ports.CacheRepository) *Service {
	return New(Deps{Providers: single{"local", p}, Cache: cache, Prompt: prompt.New(nil), Backoff: time.Millisecond})
}

func TestTranslateCachesResult(t *testing.T) {
	prov := &scriptedProvider{replies: []string{"saree 500 rupees"}}
	cache := mapCache{}
	svc := newService(prov, cache)
	for i := 0; i < 2; i++ {
		got, err := svc.Translate(context.Background(), " pudavai 500 rupai ", "ta", "en")
		if err != nil || got != "saree 500 rupees" {
			t.Fatalf("Translate #%d = %q, %v", i+1, got, err)
		}
	}
	if prov.calls != 1 {
		t.Errorf("provider called %d times, want 1", prov.calls)
	}
	if !strings.Contains(prov.lastSys, "from Tamil to English") {
		t.Errorf("system prompt = %q", prov.lastSys)
	}
}

func TestTranslateRetriesParseAndNumberErrors(t *testing.T) {
	prov := &scriptedProvider{
		replies: []string{"", "saree rupees", "saree 500 rupees"},
		errs:    []error{errors.New("failed to parse translation JSON; content: ?"), nil, nil},
	}
	got, err := newService(prov, nil).Translate(context.Background(), "pudavai 500 rupai", "ta", "en")
	if err != nil || got != "saree 500 rupees" {
		t.Fatalf("Translate = %q, %v", got, err)
	}
	if prov.calls != 3 {
		t.Errorf("provider called %d times, want 3", prov.calls)
	}
}

func TestTranslateDoesNotRetryTransportErrors(t *testing.T) {
	prov := &scriptedProvider{errs: []error{errors.New("401 Unauthorized")}}
	if _, err := newService(prov, nil).Translate(context.Background(), "pudavai", "ta", "en"); err == nil {
		t.Fatal("expected error")
	}
	if prov.calls != 1 {
		t.Errorf("provider called %d times, want 1", prov.calls)
	}
}

func TestTranslateWithoutProvider(t *testing.T) {
	if _, err := newService(nil, nil).Translate(context.Background(), "pudavai", "ta", "en"); !errors.Is(err, ErrNoProvider) {
		t.Errorf("error = %v, want ErrNoProvider", err)
	}
}

func TestExtractNumbers(t *testing.T) {
	got := extractNumbers("2 kg at 1,500 rupees, 2 packs of 0.5 kg")
	want := []string{"2", "1500", "0.5"}
	if len(got) != len(want) {
		t.Fatalf("extractNumbers = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("extractNumbers[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
