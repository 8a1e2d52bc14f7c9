// Package whisper transcribes audio through an OpenAI-compatible
// /v1/audio/transcriptions endpoint.
package whisper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

var (
	ErrUnauthorized = errors.New("speech-to-text: credentials rejected")
	ErrQuota        = errors.New("speech-to-text: quota exceeded")
	ErrNoSpeech     = errors.New("speech-to-text: no speech recognized")
)

const defaultBaseURL = "https://api.openai.com"

type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	http    *resty.Client
}

func New(baseURL, apiKey, model string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if model == "" {
		model = "whisper-1"
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), APIKey: apiKey, Model: model, http: resty.New().SetTimeout(timeout)}
}

type verboseResponse struct {
	Text     string  `json:"text"`
	Language string  `json:"language"`
	Duration float64 `json:"duration"`
	Segments []struct {
		AvgLogprob float64 `json:"avg_logprob"`
	} `json:"segments"`
}

// whisper reports languages by English name
var whisperNames = map[string]domain.Language{
	"tamil":     domain.Tamil,
	"hindi":     domain.Hindi,
	"telugu":    domain.Telugu,
	"malayalam": domain.Malayalam,
	"kannada":   domain.Kannada,
	"marathi":   domain.Marathi,
	"english":   domain.English,
}

func (c *Client) Transcribe(ctx context.Context, in ports.AudioInput) (domain.Transcription, error) {
	if len(in.Data) == 0 {
		return domain.Transcription{}, fmt.Errorf("speech-to-text: empty audio")
	}
	filename := in.Filename
	if filename == "" {
		filename = "audio.wav"
	}
	form := map[string]string{"model": c.Model, "response_format": "verbose_json"}
	if l := domain.Language(strings.ToLower(in.LanguageHint)); l.IsSupported() || l == domain.English {
		form["language"] = string(l)
	}
	var out verboseResponse
	r, err := c.http.R().SetContext(ctx).
		SetAuthToken(c.APIKey).
		SetFileReader("file", filename, bytes.NewReader(in.Data)).
		SetFormData(form).
		SetResult(&out).
		Post(c.BaseURL + "/v1/audio/transcriptions")
	if err != nil {
		return domain.Transcription{}, fmt.Errorf("speech-to-text: %w", err)
	}
	switch code := r.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return domain.Transcription{}, ErrUnauthorized
	case code == http.StatusTooManyRequests:
		return domain.Transcription{}, ErrQuota
	case r.IsError():
		return domain.Transcription{}, fmt.Errorf("speech-to-text: %s; body: %s", r.Status(), r.String())
	}
	text := strings.TrimSpace(out.Text)
	if text == "" {
		return domain.Transcription{}, ErrNoSpeech
	}
	lang := string(whisperNames[strings.ToLower(out.Language)])
	if lang == "" {
		lang = out.Language
	}
	return domain.Transcription{
		Text:            text,
		Language:        lang,
		Confidence:      confidence(out),
		DurationSeconds: out.Duration,
	}, nil
}

// confidence is the mean per-segment token probability.
func confidence(r verboseResponse) float64 {
	if len(r.Segments) == 0 {
		return 0
	}
	var sum float64
	for _, s := range r.Segments {
		sum += math.Exp(s.AvgLogprob)
	}
	return math.Min(1, sum/float64(len(r.Segments)))
}
