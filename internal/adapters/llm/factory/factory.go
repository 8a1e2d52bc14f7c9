package factory

import (
	"fmt"
	"strings"
	"time"

	"voicecat/internal/adapters/llm/httpclient"
	"voicecat/internal/domain"
	"voicecat/internal/ports"
)

// FromProvider returns an HTTP-backed provider for the given record.
func FromProvider(p domain.Provider, timeout time.Duration) (ports.Provider, error) {
	switch strings.ToLower(p.Type) {
	case "openrouter":
		if p.APIKey == "" {
			return nil, fmt.Errorf("provider %q: openrouter requires an api key", p.Name)
		}
	case "ollama":
	default:
		return nil, fmt.Errorf("provider %q: unsupported type %q", p.Name, p.Type)
	}
	c := httpclient.New(p.Type, p.APIKey, p.BaseURL, p.Model)
	if timeout > 0 {
		c.SetTimeout(timeout)
	}
	return c, nil
}
