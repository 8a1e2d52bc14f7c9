// Package httpapi serves the JSON HTTP API over the app facades.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"voicecat/internal/adapters/stt/whisper"
	"voicecat/internal/api/app"
	"voicecat/internal/domain"
	"voicecat/internal/ports"
	"voicecat/internal/usecase/catalog"
	"voicecat/internal/usecase/pipeline"
)

// RequestObserver receives one call per served request.
type RequestObserver interface {
	ObserveRequest(route string, status int, d time.Duration)
}

type Server struct {
	Pipeline  *app.PipelineAPI
	Catalog   *app.CatalogAPI
	Jobs      *app.JobsAPI
	Providers *app.ProviderAPI
	Templates *app.TemplatesAPI

	Logger   *slog.Logger
	Observer RequestObserver
	Metrics  http.Handler

	MaxUploadBytes int64
}

const defaultMaxUpload = 25 << 20

func (s *Server) Handler() http.Handler {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	if s.MaxUploadBytes <= 0 {
		s.MaxUploadBytes = defaultMaxUpload
	}
	mux := http.NewServeMux()
	s.handle(mux, "POST /api/pipeline", s.pipeline)
	s.handle(mux, "POST /api/voice", s.voice)
	s.handle(mux, "GET /api/languages", s.languages)

	s.handle(mux, "GET /api/catalog", s.listCatalog)
	s.handle(mux, "POST /api/catalog", s.createEntry)
	s.handle(mux, "GET /api/catalog/search", s.searchCatalog)
	s.handle(mux, "GET /api/catalog/export", s.exportCatalog)
	s.handle(mux, "GET /api/catalog/{id}", s.getEntry)
	s.handle(mux, "PATCH /api/catalog/{id}", s.updateEntry)
	s.handle(mux, "DELETE /api/catalog/{id}", s.deleteEntry)

	s.handle(mux, "POST /api/batch", s.startBatch)
	s.handle(mux, "GET /api/jobs", s.listJobs)
	s.handle(mux, "GET /api/jobs/{id}", s.getJob)
	s.handle(mux, "POST /api/jobs/{id}/cancel", s.cancelJob)

	s.handle(mux, "GET /api/templates/{type}/{role}", s.getTemplate)
	s.handle(mux, "PUT /api/templates", s.putTemplate)

	s.handle(mux, "GET /api/providers", s.listProviders)
	s.handle(mux, "PUT /api/providers/active", s.setActiveProvider)
	s.handle(mux, "GET /api/providers/{name}/models", s.listModels)

	s.handle(mux, "GET /healthz", s.health)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics)
	}
	return mux
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		h(rec, r)
		d := time.Since(start)
		s.Logger.Debug("http request", "route", pattern, "path", r.URL.Path, "status", rec.status, "duration", d)
		if s.Observer != nil {
			s.Observer.ObserveRequest(pattern, rec.status, d)
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error            string `json:"error"`
	DetectedLanguage string `json:"detected_language,omitempty"`
}

// writeError maps domain errors to HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{Error: err.Error()}
	var te *pipeline.TranslationError
	var maxErr *http.MaxBytesError
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &te):
		status = http.StatusBadGateway
		body.DetectedLanguage = string(te.Language)
	case errors.Is(err, pipeline.ErrEmptyTranscript),
		errors.Is(err, catalog.ErrInvalid),
		errors.Is(err, app.ErrInvalidInput),
		errors.Is(err, whisper.ErrNoSpeech):
		status = http.StatusBadRequest
	case errors.As(err, &maxErr):
		status = http.StatusRequestEntityTooLarge
	case errors.Is(err, ports.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, whisper.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, whisper.ErrQuota):
		status = http.StatusTooManyRequests
	case errors.Is(err, app.ErrUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status >= 500 {
		s.Logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, body)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("%w: %w", app.ErrInvalidInput, err)
	}
	return nil
}

// formFile reads one multipart file field fully.
func (s *Server) formFile(w http.ResponseWriter, r *http.Request, field string) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.MaxUploadBytes); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("%w: %w", app.ErrInvalidInput, err)
	}
	f, hdr, err := r.FormFile(field)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s file is required", app.ErrInvalidInput, field)
	}
	defer f.Close()
	b, err := io.ReadAll(f)
	if err != nil {
		return "", nil, err
	}
	return hdr.Filename, b, nil
}

func (s *Server) pipeline(w http.ResponseWriter, r *http.Request) {
	var req app.ProcessRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Pipeline.Process(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) voice(w http.ResponseWriter, r *http.Request) {
	name, audio, err := s.formFile(w, r, "audio")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Pipeline.Voice(r.Context(), app.VoiceRequest{Filename: name, Audio: audio, Language: r.FormValue("language")})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) languages(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Pipeline.Languages())
}

func (s *Server) listCatalog(w http.ResponseWriter, r *http.Request) {
	list, err := s.Catalog.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (s *Server) searchCatalog(w http.ResponseWriter, r *http.Request) {
	list, err := s.Catalog.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func (s *Server) createEntry(w http.ResponseWriter, r *http.Request) {
	var req app.CreateEntryRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.Catalog.Create(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

func (s *Server) getEntry(w http.ResponseWriter, r *http.Request) {
	e, err := s.Catalog.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) updateEntry(w http.ResponseWriter, r *http.Request) {
	var patch domain.CatalogPatch
	if err := s.decode(w, r, &patch); err != nil {
		s.writeError(w, r, err)
		return
	}
	e, err := s.Catalog.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

func (s *Server) deleteEntry(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Catalog.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) exportCatalog(w http.ResponseWriter, r *http.Request) {
	res, err := s.Catalog.Export(r.Context(), r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+res.Filename+`"`)
	_, _ = w.Write(res.Content)
}

func (s *Server) startBatch(w http.ResponseWriter, r *http.Request) {
	name, content, err := s.formFile(w, r, "file")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := s.Jobs.StartBatch(r.Context(), app.StartBatchRequest{Filename: name, Format: r.FormValue("format"), Content: content})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}

func (s *Server) listJobs(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", app.ErrInvalidInput))
			return
		}
		limit = n
	}
	list, err := s.Jobs.List(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(list))
}

func jobID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: job id must be an integer", app.ErrInvalidInput)
	}
	return id, nil
}

func (s *Server) getJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	st, err := s.Jobs.Get(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) cancelJob(w http.ResponseWriter, r *http.Request) {
	id, err := jobID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"canceled": s.Jobs.Cancel(id)})
}

func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	t, err := s.Templates.Get(r.Context(), r.PathValue("type"), r.PathValue("role"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) putTemplate(w http.ResponseWriter, r *http.Request) {
	var req app.UpsertTemplateRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	t, err := s.Templates.Upsert(r.Context(), req)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) listProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.Providers.List())
}

func (s *Server) setActiveProvider(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Providers.SetActive(req.Name); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.Providers.List())
}

func (s *Server) listModels(w http.ResponseWriter, r *http.Request) {
	models, err := s.Providers.ListModels(r.Context(), r.PathValue("name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

// health is 200 when every registered LLM provider answers; rule-based
// extraction keeps working otherwise, so the body lists each provider.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.Providers == nil {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "providers": map[string]string{}})
		return
	}
	res, ok := s.Providers.Health(r.Context())
	status, code := "ok", http.StatusOK
	if !ok {
		status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]any{"status": status, "providers": res})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
