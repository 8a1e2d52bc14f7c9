// Package libretranslate calls a LibreTranslate server's /translate endpoint.
package libretranslate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

type Client struct {
	BaseURL string
	APIKey  string
	http    *resty.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), APIKey: apiKey, http: resty.New().SetTimeout(timeout)}
}

type translateRequest struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	var ok struct {
		TranslatedText string `json:"translatedText"`
	}
	var fail struct {
		Error string `json:"error"`
	}
	r, err := c.http.R().SetContext(ctx).
		SetBody(translateRequest{Q: text, Source: from, Target: to, Format: "text", APIKey: c.APIKey}).
		SetResult(&ok).SetError(&fail).
		Post(c.BaseURL + "/translate")
	if err != nil {
		return "", fmt.Errorf("libretranslate: %w", err)
	}
	if r.IsError() {
		if fail.Error != "" {
			return "", fmt.Errorf("libretranslate: %s: %s", r.Status(), fail.Error)
		}
		return "", fmt.Errorf("libretranslate: %s", r.Status())
	}
	if strings.TrimSpace(ok.TranslatedText) == "" {
		return "", fmt.Errorf("libretranslate: empty translation")
	}
	return ok.TranslatedText, nil
}
