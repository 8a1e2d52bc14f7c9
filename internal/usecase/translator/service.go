// Package translator translates transcripts with the active LLM provider,
// backed by the translation cache.
package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

// Providers yields the provider currently used for translation.
type Providers interface {
	Active() (string, ports.Provider, bool)
}

type Deps struct {
	Providers Providers
	Cache     ports.CacheRepository // optional
	Prompt    ports.PromptRenderer
	Logger    *slog.Logger

	Model       string
	Temperature float64
	Attempts    int
	Backoff     time.Duration
	BypassCache bool
}

type Service struct{ d Deps }

func New(d Deps) *Service {
	if d.Attempts <= 0 {
		d.Attempts = 3
	}
	if d.Backoff <= 0 {
		d.Backoff = 200 * time.Millisecond
	}
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	return &Service{d: d}
}

var ErrNoProvider = errors.New("no llm provider configured")

// Translate implements ports.Translator.
func (s *Service) Translate(ctx context.Context, text, from, to string) (string, error) {
	name, prov, ok := s.d.Providers.Active()
	if !ok || prov == nil {
		return "", ErrNoProvider
	}
	text = strings.TrimSpace(text)
	if !s.d.BypassCache && s.d.Cache != nil {
		if ce, _ := s.d.Cache.Get(ctx, text, from, to, name, s.d.Model); ce != nil {
			return ce.Translation, nil
		}
	}

	data := ports.PromptData{SrcLang: domain.Language(from).Name(), TgtLang: domain.Language(to).Name(), Text: text}
	system, err := s.d.Prompt.Render(ctx, "translate_single", "system", data)
	if err != nil {
		return "", err
	}
	user, err := s.d.Prompt.Render(ctx, "translate_single", "user", data)
	if err != nil {
		return "", err
	}
	numbers := extractNumbers(text)

	var translated string
	for attempt := 1; attempt <= s.d.Attempts; attempt++ {
		var res ports.TranslateResult
		res, err = prov.Translate(ctx, ports.Segment{Text: text}, ports.TranslateParams{
			SourceLang:   from,
			TargetLang:   to,
			Model:        s.d.Model,
			Temperature:  s.d.Temperature,
			SystemPrompt: system,
			UserPrompt:   user,
		})
		if err == nil {
			translated = strings.TrimSpace(res.Translation)
			err = checkNumbers(translated, numbers)
		}
		if err == nil {
			break
		}
		// Retry only on parse/formatting errors that models often flake on
		if !isRetryableTranslateError(err) || attempt == s.d.Attempts {
			return "", err
		}
		s.d.Logger.Warn("retrying translation", "attempt", attempt, "error", err)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt) * s.d.Backoff):
		}
	}

	if s.d.Cache != nil {
		_ = s.d.Cache.Put(ctx, &domain.CacheEntry{
			SourceText:  text,
			SrcLang:     from,
			TgtLang:     to,
			Provider:    name,
			Model:       s.d.Model,
			Translation: translated,
		})
	}
	return translated, nil
}

var numberRE = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

func extractNumbers(s string) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range numberRE.FindAllString(s, -1) {
		m = strings.ReplaceAll(m, ",", "")
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

// numberMissingError marks a translation that dropped a figure from the source.
type numberMissingError struct{ n string }

func (e numberMissingError) Error() string {
	return fmt.Sprintf("number missing in translation: %s", e.n)
}

func checkNumbers(translated string, numbers []string) error {
	plain := strings.ReplaceAll(translated, ",", "")
	for _, n := range numbers {
		if !strings.Contains(plain, n) {
			return numberMissingError{n}
		}
	}
	return nil
}

// isRetryableTranslateError returns true for transient output/format issues that
// are likely to succeed on retry.
func isRetryableTranslateError(err error) bool {
	if err == nil {
		return false
	}
	var nm numberMissingError
	if errors.As(err, &nm) {
		return true
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "failed to parse translation json"):
		return true
	case strings.Contains(msg, "no choices returned"):
		return true
	case strings.Contains(msg, "unexpected end of"):
		return true
	case strings.Contains(msg, "invalid character"):
		return true
	default:
		return false
	}
}
