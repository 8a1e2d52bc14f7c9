// Package google calls the Cloud Translation v2 REST API.
package google

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultEndpoint = "https://translation.googleapis.com/language/translate/v2"

type Client struct {
	Endpoint string
	APIKey   string
	http     *resty.Client
}

func New(endpoint, apiKey string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Client{Endpoint: endpoint, APIKey: apiKey, http: resty.New().SetTimeout(timeout)}
}

type response struct {
	Data struct {
		Translations []struct {
			TranslatedText string `json:"translatedText"`
		} `json:"translations"`
	} `json:"data"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) Translate(ctx context.Context, text, from, to string) (string, error) {
	var ok response
	var fail errorResponse
	r, err := c.http.R().SetContext(ctx).
		SetQueryParam("key", c.APIKey).
		SetBody(map[string]string{"q": text, "source": from, "target": to, "format": "text"}).
		SetResult(&ok).SetError(&fail).
		Post(c.Endpoint)
	if err != nil {
		return "", fmt.Errorf("google translate: %w", err)
	}
	if r.IsError() {
		if fail.Error.Message != "" {
			return "", fmt.Errorf("google translate: %s: %s", r.Status(), fail.Error.Message)
		}
		return "", fmt.Errorf("google translate: %s", r.Status())
	}
	if len(ok.Data.Translations) == 0 {
		return "", fmt.Errorf("google translate: no translations returned")
	}
	// format=text should not escape, but older deployments still do
	return html.UnescapeString(strings.TrimSpace(ok.Data.Translations[0].TranslatedText)), nil
}
