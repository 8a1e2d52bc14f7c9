package app

import (
	"context"
	"errors"
	"testing"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

type processFunc func(ctx context.Context, in domain.TranscriptText) (*domain.PipelineResponse, error)

func (f processFunc) Process(ctx context.Context, in domain.TranscriptText) (*domain.PipelineResponse, error) {
	return f(ctx, in)
}

type sttFunc func(ctx context.Context, in ports.AudioInput) (domain.Transcription, error)

func (f sttFunc) Transcribe(ctx context.Context, in ports.AudioInput) (domain.Transcription, error) {
	return f(ctx, in)
}

func TestVoiceLanguageHint(t *testing.T) {
	tests := []struct {
		name, requested, whisper string
		want                     domain.Language
	}{
		{"caller hint wins", "hi", "ta", domain.Hindi},
		{"whisper language used", "", "te", domain.Telugu},
		{"unsupported whisper language ignored", "", "fr", domain.Unknown},
		{"unsupported caller hint falls through", "xx", "ml", domain.Malayalam},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Language
			proc := processFunc(func(_ context.Context, in domain.TranscriptText) (*domain.PipelineResponse, error) {
				got = in.LanguageHint
				return &domain.PipelineResponse{}, nil
			})
			stt := sttFunc(func(context.Context, ports.AudioInput) (domain.Transcription, error) {
				return domain.Transcription{Text: "x", Language: tt.whisper}, nil
			})
			if _, err := NewPipelineAPI(proc, stt).Voice(context.Background(), VoiceRequest{Audio: []byte{1}, Language: tt.requested}); err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("hint = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVoiceWithoutSTT(t *testing.T) {
	_, err := NewPipelineAPI(nil, nil).Voice(context.Background(), VoiceRequest{Audio: []byte{1}})
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v", err)
	}
}

func TestLanguages(t *testing.T) {
	langs := NewPipelineAPI(nil, nil).Languages()
	if len(langs) != len(domain.SupportedLanguages) || langs[0].Code != "ta" || langs[0].Name != "Tamil" {
		t.Errorf("languages = %+v", langs)
	}
}

func TestMask(t *testing.T) {
	for in, want := range map[string]string{"": "", "abcd": "abcd", "sk-or-123456": "****3456"} {
		if got := mask(in); got != want {
			t.Errorf("mask(%q) = %q, want %q", in, got, want)
		}
	}
}
