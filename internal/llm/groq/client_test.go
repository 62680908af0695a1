package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/guru-api/internal/llm"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
	Stream bool `json:"stream"`
}

func completion(content string) map[string]interface{} {
	return map[string]interface{}{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   DefaultModel,
		"choices": []map[string]interface{}{
			{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			},
		},
	}
}

func apiError(message string) map[string]interface{} {
	return map[string]interface{}{
		"error": map[string]interface{}{
			"message": message,
			"type":    "invalid_request_error",
		},
	}
}

func TestClient_Ask(t *testing.T) {
	logger := zap.NewNop()

	tests := []struct {
		name       string
		response   interface{}
		statusCode int
		want       string
		wantErr    error
		wantKind   llm.ErrorKind
	}{
		{
			name:       "json object content",
			response:   completion(`{"data":{"question":"q","purports":[]}}`),
			statusCode: http.StatusOK,
			want:       `{"data":{"question":"q","purports":[]}}`,
		},
		{
			name:       "malformed content",
			response:   completion("I am Guru, not a JSON printer."),
			statusCode: http.StatusOK,
			wantErr:    llm.ErrMalformedOutput,
			wantKind:   llm.KindMalformed,
		},
		{
			name:       "empty content",
			response:   completion(""),
			statusCode: http.StatusOK,
			wantErr:    llm.ErrEmptyResponse,
			wantKind:   llm.KindEmpty,
		},
		{
			name: "no choices",
			response: map[string]interface{}{
				"id":      "chatcmpl-test",
				"object":  "chat.completion",
				"choices": []interface{}{},
			},
			statusCode: http.StatusOK,
			wantErr:    llm.ErrEmptyResponse,
			wantKind:   llm.KindEmpty,
		},
		{
			name:       "unauthorized",
			response:   apiError("Invalid API Key"),
			statusCode: http.StatusUnauthorized,
			wantErr:    llm.ErrAuthFailed,
			wantKind:   llm.KindProvider,
		},
		{
			name:       "provider rate limit",
			response:   apiError("Rate limit reached"),
			statusCode: http.StatusTooManyRequests,
			wantErr:    llm.ErrRateLimit,
			wantKind:   llm.KindProvider,
		},
		{
			name:       "server error",
			response:   apiError("internal"),
			statusCode: http.StatusInternalServerError,
			wantErr:    llm.ErrRequestFailed,
			wantKind:   llm.KindProvider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("Authorization") != "Bearer test-key" {
					t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
				}
				if r.URL.Path != "/chat/completions" {
					t.Errorf("path = %q, want /chat/completions", r.URL.Path)
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.statusCode)
				json.NewEncoder(w).Encode(tt.response)
			}))
			defer server.Close()

			client := New(Config{
				APIKey:       "test-key",
				BaseURL:      server.URL,
				SystemPrompt: "You are Guru.",
				Timeout:      5 * time.Second,
			}, logger)

			got, err := client.Ask(context.Background(), "What is dharma?")

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Ask() error = %v, wantErr %v", err, tt.wantErr)
				}
				var ce *llm.CompletionError
				if !errors.As(err, &ce) {
					t.Fatalf("Ask() error %T is not a CompletionError", err)
				}
				if ce.Kind != tt.wantKind {
					t.Errorf("Kind = %v, want %v", ce.Kind, tt.wantKind)
				}
				return
			}

			if err != nil {
				t.Fatalf("Ask() unexpected error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("Ask() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClient_Ask_RequestShape(t *testing.T) {
	var captured chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(completion(`{"ok":true}`))
	}))
	defer server.Close()

	client := New(Config{
		APIKey:       "test-key",
		BaseURL:      server.URL,
		SystemPrompt: "You are Guru.",
	}, zap.NewNop())

	question := "  How should I deal with failure?  "
	if _, err := client.Ask(context.Background(), question); err != nil {
		t.Fatalf("Ask() error = %v", err)
	}

	if captured.Model != DefaultModel {
		t.Errorf("model = %q, want %q", captured.Model, DefaultModel)
	}
	if captured.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format.type = %q, want json_object", captured.ResponseFormat.Type)
	}
	if captured.Stream {
		t.Error("stream should not be requested")
	}
	if len(captured.Messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(captured.Messages))
	}
	if captured.Messages[0].Role != "system" || captured.Messages[0].Content != "You are Guru." {
		t.Errorf("system message = %+v", captured.Messages[0])
	}
	if captured.Messages[1].Role != "user" || captured.Messages[1].Content != question {
		t.Errorf("user message = %+v", captured.Messages[1])
	}
}

func TestClient_Ask_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := New(Config{APIKey: "test-key", BaseURL: url}, zap.NewNop())

	_, err := client.Ask(context.Background(), "anyone there?")

	var ce *llm.CompletionError
	if !errors.As(err, &ce) {
		t.Fatalf("Ask() error = %v, want CompletionError", err)
	}
	if ce.Kind != llm.KindTransport {
		t.Errorf("Kind = %v, want transport", ce.Kind)
	}
	if !errors.Is(err, llm.ErrRequestFailed) {
		t.Errorf("error should wrap ErrRequestFailed: %v", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New(Config{APIKey: "k"}, zap.NewNop())
	if c.Model() != DefaultModel {
		t.Errorf("Model() = %q, want %q", c.Model(), DefaultModel)
	}
}
