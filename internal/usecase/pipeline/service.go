// Package pipeline runs one transcript through normalization, language
// detection, translation, post-processing, extraction and cataloging.
package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
	"voicecat/internal/usecase/extractor"
)

type Normalizer interface {
	Normalize(text string) string
}

type Detector interface {
	Detect(text string) domain.Language
}

type PostProcessor interface {
	Process(translated string) string
}

type Deps struct {
	Normalizer    Normalizer
	Detector      Detector
	Translator    ports.Translator
	PostProcessor PostProcessor
	Extractor     *extractor.Chain
	// Catalog and Events are optional.
	Catalog ports.CatalogRepository
	Events  ports.EventEmitter
	Logger  *slog.Logger

	TranslateTimeout time.Duration
}

type Service struct{ d Deps }

func New(d Deps) *Service {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Extractor == nil {
		d.Extractor = extractor.NewChain(nil, 0, d.Logger)
	}
	return &Service{d: d}
}

// Process runs the whole pipeline. Only an empty transcript and a translation
// failure abort the run; extraction and cataloging degrade to partial results.
func (s *Service) Process(ctx context.Context, in domain.TranscriptText) (*domain.PipelineResponse, error) {
	if strings.TrimSpace(in.Text) == "" {
		return nil, ErrEmptyTranscript
	}
	processed := s.d.Normalizer.Normalize(in.Text)
	lang := s.language(processed, in.LanguageHint)
	log := s.d.Logger.With("language", string(lang))

	translated, err := s.translate(ctx, processed, lang)
	if err != nil {
		log.Error("translation failed", "error", err)
		return nil, &TranslationError{Language: lang, Err: err}
	}
	english := s.d.PostProcessor.Process(translated)

	resp := &domain.PipelineResponse{
		TranslationResult: domain.TranslationResult{
			DetectedLanguage: lang,
			TranslatedText:   english,
			OriginalText:     in.Text,
			ProcessedText:    processed,
		},
	}
	resp.ExtractedDetails = s.d.Extractor.Run(ctx, english)
	log.Info("pipeline extracted", "method", resp.ExtractedDetails.Method, "success", resp.ExtractedDetails.Success)

	if s.d.Catalog != nil && resp.ExtractedDetails.Success && resp.ExtractedDetails.Details != nil {
		entry := domain.NewCatalogEntry(*resp.ExtractedDetails.Details)
		entry.SourceLanguage = lang
		entry.Transcript = in.Text
		if err := s.d.Catalog.Create(ctx, entry); err != nil {
			log.Error("catalog create failed", "error", err)
			resp.CatalogError = err.Error()
		} else {
			resp.CatalogEntry = entry
			if s.d.Events != nil {
				s.d.Events.Emit("catalog.entry.created", map[string]any{"id": entry.ID, "title": entry.Title, "category": entry.Category, "language": string(lang)})
			}
		}
	}
	return resp, nil
}

// language prefers a supported caller hint; English is passed through so the
// translator can be skipped.
func (s *Service) language(processed string, hint domain.Language) domain.Language {
	h := domain.Language(strings.ToLower(strings.TrimSpace(string(hint))))
	if h == domain.English || h.IsSupported() {
		return h
	}
	return s.d.Detector.Detect(processed)
}

func (s *Service) translate(ctx context.Context, text string, lang domain.Language) (string, error) {
	if lang == domain.English {
		return text, nil
	}
	if s.d.TranslateTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.d.TranslateTimeout)
		defer cancel()
	}
	return s.d.Translator.Translate(ctx, text, string(lang), string(domain.English))
}
