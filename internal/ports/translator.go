package ports

import "context"

// Translator turns source-language text into target-language text.
// Any error is a hard failure for the calling pipeline run.
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}
