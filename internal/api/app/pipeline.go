package app

import (
	"context"
	"fmt"
	"strings"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

type Processor interface {
	Process(ctx context.Context, in domain.TranscriptText) (*domain.PipelineResponse, error)
}

type PipelineAPI struct {
	svc Processor
	stt ports.SpeechToText
}

// NewPipelineAPI wires the pipeline; stt may be nil when voice input is disabled.
func NewPipelineAPI(svc Processor, stt ports.SpeechToText) *PipelineAPI {
	return &PipelineAPI{svc: svc, stt: stt}
}

type ProcessRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (a *PipelineAPI) Process(ctx context.Context, req ProcessRequest) (*domain.PipelineResponse, error) {
	return a.svc.Process(ctx, domain.TranscriptText{Text: req.Text, LanguageHint: hint(req.Language)})
}

type VoiceRequest struct {
	Filename string
	Audio    []byte
	Language string
}

type VoiceResponse struct {
	Transcription domain.Transcription     `json:"transcription"`
	Result        *domain.PipelineResponse `json:"result"`
}

// Voice transcribes the audio and runs the pipeline on the transcript. The
// language whisper reports is used as a hint when the caller gave none.
func (a *PipelineAPI) Voice(ctx context.Context, req VoiceRequest) (*VoiceResponse, error) {
	if a.stt == nil {
		return nil, fmt.Errorf("speech-to-text: %w", ErrUnavailable)
	}
	if len(req.Audio) == 0 {
		return nil, fmt.Errorf("%w: audio is required", ErrInvalidInput)
	}
	tr, err := a.stt.Transcribe(ctx, ports.AudioInput{Filename: req.Filename, Data: req.Audio, LanguageHint: req.Language})
	if err != nil {
		return nil, err
	}
	lang := hint(req.Language)
	if lang == domain.Unknown {
		lang = hint(tr.Language)
	}
	res, err := a.svc.Process(ctx, domain.TranscriptText{Text: tr.Text, LanguageHint: lang})
	if err != nil {
		return nil, err
	}
	return &VoiceResponse{Transcription: tr, Result: res}, nil
}

type LanguageDTO struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func (a *PipelineAPI) Languages() []LanguageDTO {
	out := make([]LanguageDTO, 0, len(domain.SupportedLanguages))
	for _, l := range domain.SupportedLanguages {
		out = append(out, LanguageDTO{Code: string(l), Name: l.Name()})
	}
	return out
}

func hint(s string) domain.Language {
	l := domain.Language(strings.ToLower(strings.TrimSpace(s)))
	if l == domain.English || l.IsSupported() {
		return l
	}
	return domain.Unknown
}
