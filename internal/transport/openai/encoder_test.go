package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/recommender/internal/domain"
	"github.com/kailas-cloud/recommender/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.RegisterEncoderMetrics()
	os.Exit(m.Run())
}

type embeddingData struct {
	Object    string    `json:"object"`
	Embedding []float32 `json:"embedding"`
	Index     int       `json:"index"`
}

// embeddingResponse mirrors the OpenAI-compatible API embedding response.
type embeddingResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
	Model  string          `json:"model"`
	Usage  struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

func newTestEncoder(url string) *Encoder {
	return NewEncoder(&Config{
		APIKey:     "test-key",
		BaseURL:    url,
		Model:      "test-model",
		Dimensions: 4,
		Provider:   "test",
		Logger:     zap.NewNop(),
	})
}

func TestEncoder_Encode(t *testing.T) {
	expectedVec := []float32{0.1, 0.2, 0.3, 0.4}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embeddings" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		var body struct {
			Input      []string `json:"input"`
			Dimensions int      `json:"dimensions"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Input) != 1 || body.Input[0] != "silk saree" {
			t.Errorf("unexpected input: %v", body.Input)
		}
		if body.Dimensions != 4 {
			t.Errorf("dimensions = %d, want 4", body.Dimensions)
		}

		resp := embeddingResponse{Object: "list", Model: "test-model"}
		resp.Data = append(resp.Data, embeddingData{Object: "embedding", Embedding: expectedVec})
		resp.Usage.PromptTokens = 3
		resp.Usage.TotalTokens = 3

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	result, err := newTestEncoder(server.URL).Encode(context.Background(), "silk saree")
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	if len(result.Vector) != len(expectedVec) {
		t.Fatalf("expected %d dimensions, got %d", len(expectedVec), len(result.Vector))
	}
	for i, v := range result.Vector {
		if v != expectedVec[i] {
			t.Errorf("vec[%d] = %f, expected %f", i, v, expectedVec[i])
		}
	}
	if result.TotalTokens != 3 || result.PromptTokens != 3 {
		t.Errorf("usage = %d/%d, want 3/3", result.PromptTokens, result.TotalTokens)
	}
}

func TestEncoder_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(embeddingResponse{Object: "list", Model: "test-model"})
	}))
	defer server.Close()

	_, err := newTestEncoder(server.URL).Encode(context.Background(), "x")
	if !errors.Is(err, domain.ErrEncoderFailure) {
		t.Fatalf("expected ErrEncoderFailure, got %v", err)
	}
}

func TestEncoder_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	}))
	defer server.Close()

	_, err := newTestEncoder(server.URL).Encode(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected error for 429 response")
	}
	if !errors.Is(err, domain.ErrEncoderFailure) {
		t.Errorf("expected ErrEncoderFailure, got %v", err)
	}
}

func TestEncoder_HealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": []any{}})
	}))
	defer server.Close()

	if err := newTestEncoder(server.URL).HealthCheck(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{`{"detail":"model not found"}`, "model not found"},
		{`{"other":"x"}`, ""},
		{`not json`, ""},
	}
	for _, tc := range tests {
		if got := extractDetail([]byte(tc.body)); got != tc.want {
			t.Errorf("extractDetail(%s) = %q, want %q", tc.body, got, tc.want)
		}
	}
}
