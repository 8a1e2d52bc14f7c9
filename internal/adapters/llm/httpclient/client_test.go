package httpclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"voicecat/internal/ports"
)

func TestOpenRouterFallsBackToJSONObject(t *testing.T) {
	var formats []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := r.Header.Get("Authorization"); got != "Bearer secret" {
			t.Errorf("Authorization = %q", got)
		}
		var body struct {
			Model          string `json:"model"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Model != "test-model" {
			t.Errorf("model = %q", body.Model)
		}
		formats = append(formats, body.ResponseFormat.Type)
		if body.ResponseFormat.Type == "json_schema" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"response_format not supported"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"{\"translation\":\"saree 500 rupees\"}"}}]}`))
	}))
	defer srv.Close()

	c := New("OpenRouter", "secret", srv.URL, "test-model")
	res, err := c.Translate(context.Background(), ports.Segment{Text: "pudavai 500 rupai"}, ports.TranslateParams{SystemPrompt: "s", UserPrompt: "u"})
	if err != nil {
		t.Fatalf("Translate error: %v", err)
	}
	if res.Translation != "saree 500 rupees" {
		t.Errorf("Translation = %q", res.Translation)
	}
	if len(formats) != 2 || formats[0] != "json_schema" || formats[1] != "json_object" {
		t.Errorf("response formats sent = %v", formats)
	}
}

func TestOllamaExtract(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			http.NotFound(w, r)
			return
		}
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["format"] != "json" || body["stream"] != false {
			t.Errorf("request body = %v", body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":{"content":"{\"title\":\"Turmeric Powder\",\"category\":\"Food > Spices\",\"price\":120,\"quantity\":1,\"tags\":[\"turmeric\"]}"}}`))
	}))
	defer srv.Close()

	c := New("ollama", "", srv.URL, "llama3")
	res, err := c.Extract(context.Background(), ports.Segment{}, ports.ExtractParams{SystemPrompt: "s", UserPrompt: "u"})
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	if res.Product.Title != "Turmeric Powder" || res.Product.Price == nil || *res.Product.Price != 120 {
		t.Errorf("Product = %+v", res.Product)
	}
}

func TestChatErrorsAndUnsupportedProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	if _, err := New("openrouter", "bad", srv.URL, "m").Extract(context.Background(), ports.Segment{}, ports.ExtractParams{}); err == nil {
		t.Error("expected error for 401 response")
	}
	if err := New("openrouter", "bad", srv.URL, "m").Test(context.Background()); err == nil {
		t.Error("expected Test to fail for 401 response")
	}
	if _, err := New("bard", "", srv.URL, "m").Translate(context.Background(), ports.Segment{}, ports.TranslateParams{}); err == nil {
		t.Error("expected error for unsupported provider")
	}
}

func TestListModelsOllama(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"qwen2"}]}`))
	}))
	defer srv.Close()
	models, err := New("ollama", "", srv.URL, "").ListModels(context.Background())
	if err != nil || len(models) != 2 || models[1].Name != "qwen2" {
		t.Errorf("ListModels = %v, %v", models, err)
	}
}
