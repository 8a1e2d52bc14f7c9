package pipeline

import (
	"errors"
	"fmt"

	"voicecat/internal/domain"
)

// ErrEmptyTranscript rejects a request before any stage runs.
var ErrEmptyTranscript = errors.New("transcript text is required")

// TranslationError aborts a run. It carries the language detected before the
// translator failed so callers can retry with it as a hint.
type TranslationError struct {
	Language domain.Language
	Err      error
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("translate from %s: %v", e.Language, e.Err)
}

func (e *TranslationError) Unwrap() error { return e.Err }
