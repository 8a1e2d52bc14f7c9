// Package metrics exports Prometheus counters for the HTTP API and the pipeline.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voicecat/internal/domain"
	"voicecat/internal/usecase/pipeline"
)

type Metrics struct {
	reg *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	runs            *prometheus.CounterVec
	runDuration     prometheus.Histogram
	extractions     *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicecat", Name: "http_requests_total", Help: "HTTP requests by route and status.",
		}, []string{"route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "voicecat", Name: "http_request_duration_seconds", Help: "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicecat", Name: "pipeline_runs_total", Help: "Pipeline runs by outcome.",
		}, []string{"outcome"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "voicecat", Name: "pipeline_run_duration_seconds", Help: "End-to-end pipeline latency.",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 20, 40},
		}),
		extractions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "voicecat", Name: "extractions_total", Help: "Attribute extractions by method and result.",
		}, []string{"method", "success"}),
	}
	m.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.requestDuration, m.runs, m.runDuration, m.extractions,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// ObserveRequest records one served request under its route pattern.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	m.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// Gatherer exposes the registry for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.reg }

type processor interface {
	Process(ctx context.Context, in domain.TranscriptText) (*domain.PipelineResponse, error)
}

// Processor counts pipeline outcomes around next.
type Processor struct {
	next processor
	m    *Metrics
	now  func() time.Time
}

func (m *Metrics) WrapProcessor(next processor) *Processor {
	return &Processor{next: next, m: m, now: time.Now}
}

func (p *Processor) Process(ctx context.Context, in domain.TranscriptText) (*domain.PipelineResponse, error) {
	start := p.now()
	resp, err := p.next.Process(ctx, in)
	p.m.runDuration.Observe(p.now().Sub(start).Seconds())
	p.m.runs.WithLabelValues(outcome(resp, err)).Inc()
	if resp != nil {
		method := resp.ExtractedDetails.Method
		if method == "" {
			method = "none"
		}
		p.m.extractions.WithLabelValues(method, strconv.FormatBool(resp.ExtractedDetails.Success)).Inc()
	}
	return resp, err
}

func outcome(resp *domain.PipelineResponse, err error) string {
	var te *pipeline.TranslationError
	switch {
	case errors.Is(err, pipeline.ErrEmptyTranscript):
		return "rejected"
	case errors.As(err, &te):
		return "translation_failed"
	case err != nil:
		return "error"
	case resp.CatalogError != "":
		return "catalog_failed"
	case resp.CatalogEntry == nil:
		return "not_cataloged"
	}
	return "cataloged"
}
