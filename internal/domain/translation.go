package domain

// TranslationResult is produced by the translate + post-process step and
// consumed right away by extraction.
type TranslationResult struct {
	DetectedLanguage Language `json:"detected_language"`
	TranslatedText   string   `json:"translated_text"`
	OriginalText     string   `json:"original_text"`
	ProcessedText    string   `json:"processed_text"`
}

// PipelineResponse is returned to the caller for one pipeline run.
type PipelineResponse struct {
	TranslationResult
	ExtractedDetails ExtractionResult `json:"extracted_details"`
	CatalogEntry     *CatalogEntry    `json:"catalog_entry,omitempty"`
	CatalogError     string           `json:"catalog_error,omitempty"`
}
