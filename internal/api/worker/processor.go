// Package worker turns broker commands into pipeline runs and publishes
// their results.
package worker

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"voicecat/internal/domain"
	"voicecat/internal/ports"
	"voicecat/internal/usecase/pipeline"
)

const (
	StatusDone   = "done"
	StatusFailed = "failed"
)

type Command struct {
	ID       string `json:"id"`
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type Result struct {
	ID               string                   `json:"id"`
	Status           string                   `json:"status"`
	Result           *domain.PipelineResponse `json:"result,omitempty"`
	Error            string                   `json:"error,omitempty"`
	DetectedLanguage string                   `json:"detected_language,omitempty"`
}

type Processor interface {
	Process(ctx context.Context, in domain.TranscriptText) (*domain.PipelineResponse, error)
}

type CommandProcessor struct {
	Pipeline    Processor
	Publisher   ports.MessagePublisher
	ResultQueue string
	Timeout     time.Duration
	Logger      *slog.Logger
}

func NewCommandProcessor(p Processor, pub ports.MessagePublisher, resultQueue string, timeout time.Duration, logger *slog.Logger) *CommandProcessor {
	if logger == nil {
		logger = slog.Default()
	}
	return &CommandProcessor{Pipeline: p, Publisher: pub, ResultQueue: resultQueue, Timeout: timeout, Logger: logger}
}

// ProcessMessage handles one delivery. Every well-formed command gets exactly
// one result message; malformed bodies are logged and dropped. The returned
// error is only a publish failure.
func (c *CommandProcessor) ProcessMessage(ctx context.Context, body []byte) error {
	var cmd Command
	if err := json.Unmarshal(body, &cmd); err != nil {
		c.Logger.Warn("invalid command", "error", err, "bytes", len(body))
		return nil
	}
	log := c.Logger.With("command_id", cmd.ID)
	log.Info("command received")

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	res := Result{ID: cmd.ID, Status: StatusDone}
	resp, err := c.Pipeline.Process(ctx, domain.TranscriptText{Text: cmd.Text, LanguageHint: domain.Language(cmd.Language)})
	if err != nil {
		res.Status = StatusFailed
		res.Error = err.Error()
		var te *pipeline.TranslationError
		if errors.As(err, &te) {
			res.DetectedLanguage = string(te.Language)
		}
		log.Error("command failed", "error", err)
	} else {
		res.Result = resp
		res.DetectedLanguage = string(resp.DetectedLanguage)
	}

	out, err := json.Marshal(res)
	if err != nil {
		return err
	}
	return c.Publisher.Publish(c.ResultQueue, out)
}
