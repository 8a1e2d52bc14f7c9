// Package httpclient talks to chat-completion LLM backends (OpenRouter and
// Ollama) for translation and product attribute extraction.
package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"voicecat/internal/ports"
)

const (
	defaultOpenRouterURL = "https://openrouter.ai"
	defaultOllamaURL     = "http://localhost:11434"
)

type Client struct {
	ProviderType string
	APIKey       string
	BaseURL      string
	Model        string
	http         *resty.Client
}

func New(providerType, apiKey, baseURL, model string) *Client {
	c := resty.New().SetTimeout(20 * time.Second)
	return &Client{ProviderType: strings.ToLower(providerType), APIKey: apiKey, BaseURL: baseURL, Model: model, http: c}
}

// SetTimeout overrides the per-request HTTP timeout.
func (c *Client) SetTimeout(d time.Duration) *Client {
	c.http.SetTimeout(d)
	return c
}

type chatRequest struct {
	Model       string
	Temperature float64
	System      string
	User        string
	SchemaName  string
	Schema      map[string]any
}

var translationSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"translation": map[string]any{"type": "string"},
	},
	"required":             []string{"translation"},
	"additionalProperties": false,
}

func (c *Client) Translate(ctx context.Context, _ ports.Segment, p ports.TranslateParams) (ports.TranslateResult, error) {
	content, err := c.chat(ctx, chatRequest{
		Model: p.Model, Temperature: p.Temperature,
		System: p.SystemPrompt, User: p.UserPrompt,
		SchemaName: "translation", Schema: translationSchema,
	})
	if err != nil {
		return ports.TranslateResult{}, fmt.Errorf("%s translate: %w", c.ProviderType, err)
	}
	tr, err := extractTranslation(content)
	if err != nil {
		return ports.TranslateResult{}, err
	}
	return ports.TranslateResult{Translation: tr, Raw: content}, nil
}

func (c *Client) Extract(ctx context.Context, _ ports.Segment, p ports.ExtractParams) (ports.ExtractResult, error) {
	content, err := c.chat(ctx, chatRequest{
		Model: p.Model, Temperature: p.Temperature,
		System: p.SystemPrompt, User: p.UserPrompt,
		SchemaName: "product", Schema: productSchema,
	})
	if err != nil {
		return ports.ExtractResult{}, fmt.Errorf("%s extract: %w", c.ProviderType, err)
	}
	prod, err := extractProduct(content)
	if err != nil {
		return ports.ExtractResult{}, err
	}
	return ports.ExtractResult{Product: prod, Raw: content}, nil
}

func (c *Client) chat(ctx context.Context, req chatRequest) (string, error) {
	if req.Model == "" {
		req.Model = c.Model
	}
	switch c.ProviderType {
	case "openrouter":
		return c.chatOpenRouter(ctx, req)
	case "ollama":
		return c.chatOllama(ctx, req)
	default:
		return "", fmt.Errorf("unsupported provider: %s", c.ProviderType)
	}
}

func (c *Client) ListModels(ctx context.Context) ([]ports.ModelInfo, error) {
	switch c.ProviderType {
	case "ollama":
		url := strings.TrimRight(c.base(), "/") + "/api/tags"
		var resp struct {
			Models []struct {
				Name string `json:"name"`
			} `json:"models"`
		}
		r, err := c.http.R().SetContext(ctx).SetResult(&resp).Get(url)
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("ollama list models: %s; body: %s", r.Status(), r.String())
		}
		out := make([]ports.ModelInfo, 0, len(resp.Models))
		for _, m := range resp.Models {
			out = append(out, ports.ModelInfo{Name: m.Name})
		}
		return out, nil
	case "openrouter":
		var resp struct {
			Data []struct {
				ID            string `json:"id"`
				Name          string `json:"name"`
				ContextLength int    `json:"context_length"`
			} `json:"data"`
		}
		r, err := c.http.R().SetContext(ctx).
			SetAuthToken(c.APIKey).
			SetResult(&resp).
			Get(openRouterURL(c.base(), "/models"))
		if err != nil {
			return nil, err
		}
		if r.IsError() {
			return nil, fmt.Errorf("openrouter list models: %s; body: %s", r.Status(), r.String())
		}
		out := make([]ports.ModelInfo, 0, len(resp.Data))
		for _, d := range resp.Data {
			label := d.Name
			if label == "" {
				label = d.ID
			}
			out = append(out, ports.ModelInfo{Name: d.ID, Description: label, ContextTokens: d.ContextLength})
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", c.ProviderType)
	}
}

func (c *Client) Test(ctx context.Context) error { _, err := c.ListModels(ctx); return err }

func (c *Client) base() string {
	if c.BaseURL != "" {
		return c.BaseURL
	}
	if c.ProviderType == "ollama" {
		return defaultOllamaURL
	}
	return defaultOpenRouterURL
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) chatOpenRouter(ctx context.Context, req chatRequest) (string, error) {
	url := openRouterURL(c.base(), "/chat/completions")
	body := map[string]any{
		"model": req.Model,
		"messages": []map[string]string{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.User},
		},
		"temperature": req.Temperature,
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name":   req.SchemaName,
				"strict": true,
				"schema": req.Schema,
			},
		},
	}
	post := func() (*resty.Response, *chatResponse, error) {
		var resp chatResponse
		rr, err := c.http.R().SetContext(ctx).
			SetAuthToken(c.APIKey).
			SetHeader("HTTP-Referer", "https://github.com/voicecat").
			SetHeader("X-Title", "voicecat").
			SetHeader("Content-Type", "application/json").
			SetBody(body).SetResult(&resp).
			Post(url)
		return rr, &resp, err
	}
	rr, resp, err := post()
	if err != nil {
		return "", err
	}
	// Models without structured output support reject json_schema with 400.
	if rr.StatusCode() == http.StatusBadRequest {
		body["response_format"] = map[string]string{"type": "json_object"}
		if rr, resp, err = post(); err != nil {
			return "", err
		}
	}
	if rr.IsError() {
		return "", fmt.Errorf("%s; body: %s", rr.Status(), abbreviate(rr.String(), 500))
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func (c *Client) chatOllama(ctx context.Context, req chatRequest) (string, error) {
	url := strings.TrimRight(c.base(), "/") + "/api/chat"
	body := map[string]any{
		"model": req.Model,
		"messages": []map[string]string{
			{"role": "system", "content": req.System},
			{"role": "user", "content": req.User},
		},
		"stream":  false,
		"format":  "json",
		"options": map[string]any{"temperature": req.Temperature},
	}
	var resp struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	}
	rr, err := c.http.R().SetContext(ctx).SetHeader("Content-Type", "application/json").SetBody(body).SetResult(&resp).Post(url)
	if err != nil {
		return "", err
	}
	if rr.IsError() {
		return "", fmt.Errorf("%s; body: %s", rr.Status(), abbreviate(rr.String(), 500))
	}
	return strings.TrimSpace(resp.Message.Content), nil
}

// openRouterURL builds a URL for OpenRouter whether base contains /api/v1 or not.
func openRouterURL(base, tail string) string {
	b := strings.TrimRight(base, "/")
	if idx := strings.Index(b, "/api/v1"); idx >= 0 {
		return b[:idx+len("/api/v1")] + tail
	}
	return b + "/api/v1" + tail
}
