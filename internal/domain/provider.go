package domain

// Provider describes one configured LLM backend.
type Provider struct {
	Type    string `json:"type"` // ollama | openrouter
	Name    string `json:"name"`
	BaseURL string `json:"base_url"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key"`
}
