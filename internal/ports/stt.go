package ports

import (
	"context"

	"voicecat/internal/domain"
)

type AudioInput struct {
	Filename     string
	Data         []byte
	LanguageHint string
}

// SpeechToText transcribes one audio payload.
type SpeechToText interface {
	Transcribe(ctx context.Context, in AudioInput) (domain.Transcription, error)
}
