package domain

// TranscriptText is the raw speech-to-text output handed to the pipeline.
type TranscriptText struct {
	Text         string   `json:"text"`
	LanguageHint Language `json:"language,omitempty"`
}

// Transcription is what the speech-to-text collaborator reports for one upload.
type Transcription struct {
	Text            string  `json:"text"`
	Language        string  `json:"language"`
	Confidence      float64 `json:"confidence"`
	DurationSeconds float64 `json:"duration_seconds"`
}
