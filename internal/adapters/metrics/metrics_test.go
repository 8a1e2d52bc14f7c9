package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"voicecat/internal/domain"
	"voicecat/internal/usecase/pipeline"
)

type stubProcessor struct {
	resp *domain.PipelineResponse
	err  error
}

func (s stubProcessor) Process(context.Context, domain.TranscriptText) (*domain.PipelineResponse, error) {
	return s.resp, s.err
}

func TestProcessorOutcomes(t *testing.T) {
	m := New()
	ok := &domain.PipelineResponse{
		ExtractedDetails: domain.ExtractionResult{Success: true, Method: "rules"},
		CatalogEntry:     &domain.CatalogEntry{ID: "1"},
	}
	tests := []struct {
		name string
		p    stubProcessor
		want string
	}{
		{"cataloged", stubProcessor{resp: ok}, "cataloged"},
		{"catalog failed", stubProcessor{resp: &domain.PipelineResponse{CatalogError: "disk full"}}, "catalog_failed"},
		{"empty", stubProcessor{err: pipeline.ErrEmptyTranscript}, "rejected"},
		{"translation", stubProcessor{err: &pipeline.TranslationError{Language: domain.Tamil, Err: errors.New("down")}}, "translation_failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(m.runs.WithLabelValues(tt.want))
			_, _ = m.WrapProcessor(tt.p).Process(context.Background(), domain.TranscriptText{Text: "x"})
			if got := testutil.ToFloat64(m.runs.WithLabelValues(tt.want)); got != before+1 {
				t.Errorf("runs{%s} = %v, want %v", tt.want, got, before+1)
			}
		})
	}
	if got := testutil.ToFloat64(m.extractions.WithLabelValues("rules", "true")); got != 1 {
		t.Errorf("extractions{rules,true} = %v", got)
	}
}

func TestHandlerExposesRequests(t *testing.T) {
	m := New()
	m.ObserveRequest("GET /healthz", 200, 5*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), `voicecat_http_requests_total{route="GET /healthz",status="200"} 1`) {
		t.Errorf("metrics output missing request counter:\n%s", body)
	}
}
