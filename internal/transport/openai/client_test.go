package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Sergio973-web/buscador-mega/internal/domain"
	"github.com/Sergio973-web/buscador-mega/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Register()
	os.Exit(m.Run())
}

type embeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

type usage struct {
	PromptTokens int `json:"prompt_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// chatRequest mirrors the fields of the chat completion request we assert on.
type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content []struct {
			Type     string `json:"type"`
			Text     string `json:"text"`
			ImageURL *struct {
				URL string `json:"url"`
			} `json:"image_url"`
		} `json:"content"`
	} `json:"messages"`
}

func newTestClient(url string) *Client {
	return NewClient(&Config{
		APIKey:         "test-key",
		BaseURL:        url,
		VisionModel:    "vision-test",
		EmbeddingModel: "embed-test",
		Prompt:         "Describe este producto",
	})
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestClient_Embed(t *testing.T) {
	expected := []float32{0.1, 0.2, 0.3, 0.4}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}
		writeJSON(t, w, map[string]any{
			"object": "list",
			"model":  "embed-test",
			"data":   []embeddingData{{Object: "embedding", Embedding: expected}},
			"usage":  usage{PromptTokens: 12, TotalTokens: 12},
		})
	}))
	defer server.Close()

	before := testutil.ToFloat64(metrics.OpenAIRequestsTotal.WithLabelValues("embed", "embed-test", "success"))

	result, err := newTestClient(server.URL).Embed(context.Background(), "anillo de plata")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(result.Embedding) != len(expected) || result.Embedding[2] != 0.3 {
		t.Errorf("unexpected embedding %v", result.Embedding)
	}
	if result.PromptTokens != 12 || result.TotalTokens != 12 {
		t.Errorf("unexpected usage %+v", result)
	}

	after := testutil.ToFloat64(metrics.OpenAIRequestsTotal.WithLabelValues("embed", "embed-test", "success"))
	if after != before+1 {
		t.Errorf("success counter moved by %f, want 1", after-before)
	}
}

func TestClient_Embed_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"object": "list", "data": []embeddingData{}})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Embed(context.Background(), "x")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Errorf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestClient_Embed_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "rate limit exceeded", "type": "rate_limit_error"},
		})
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Embed(context.Background(), "x")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestClient_Describe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.Model != "vision-test" || len(req.Messages) != 1 {
			t.Errorf("unexpected request: %+v", req)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		parts := req.Messages[0].Content
		if len(parts) != 2 || parts[0].Text != "Describe este producto" {
			t.Errorf("unexpected content parts: %+v", parts)
		}
		if len(parts) < 2 || parts[1].ImageURL == nil || parts[1].ImageURL.URL != "https://img.example.com/p.jpg" {
			t.Errorf("image part missing: %+v", parts)
		}

		writeJSON(t, w, map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "vision-test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message": map[string]any{
					"role":    "assistant",
					"content": "  Anillo de plata 925 con piedra, uso diario.  ",
				},
			}},
			"usage": usage{PromptTokens: 800, TotalTokens: 830},
		})
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Describe(context.Background(), "https://img.example.com/p.jpg")
	if err != nil {
		t.Fatalf("Describe failed: %v", err)
	}
	if got != "Anillo de plata 925 con piedra, uso diario." {
		t.Errorf("unexpected description %q", got)
	}
}

func TestClient_Describe_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"object": "chat.completion", "choices": []any{}})
	}))
	defer server.Close()

	got, err := newTestClient(server.URL).Describe(context.Background(), "https://img/x.jpg")
	if err != nil || got != "" {
		t.Errorf("got %q, %v; want empty description", got, err)
	}
}

func TestClient_Describe_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"detail": "image too large"}`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).Describe(context.Background(), "https://img/x.jpg")
	if !errors.Is(err, domain.ErrDescriptionProviderError) {
		t.Fatalf("expected ErrDescriptionProviderError, got %v", err)
	}
}

func TestClient_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		writeJSON(t, w, map[string]any{"object": "list", "data": []any{}})
	}))
	defer server.Close()

	if err := newTestClient(server.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	if got := extractDetail([]byte(`{"detail":"quota"}`)); got != "quota" {
		t.Errorf("extractDetail = %q", got)
	}
	if got := extractDetail([]byte(`not json`)); got != "" {
		t.Errorf("extractDetail = %q, want empty", got)
	}
}
