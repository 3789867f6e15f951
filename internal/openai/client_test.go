package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/oukeidos/locstr/internal/apperrors"
)

func TestClientCompleteErrors(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		responseBody   string
		expectedErrMsg string
		expectedKind   apperrors.Kind
		sensitiveMark  string
	}{
		{
			name:           "429 Too Many Requests",
			status:         http.StatusTooManyRequests,
			responseBody:   `{"error": {"message": "Rate limit reached: SECRET_STRING_VALUE", "type": "rate_limit_error", "code": "rate_limit_exceeded"}}`,
			expectedErrMsg: "OpenAI API rate limit exceeded (429)",
			expectedKind:   apperrors.KindRateLimit,
			sensitiveMark:  "SECRET_STRING_VALUE",
		},
		{
			name:           "401 Unauthorized",
			status:         http.StatusUnauthorized,
			responseBody:   `{"error": {"message": "Invalid API Key: SECRET_STRING_VALUE", "type": "auth_error"}}`,
			expectedErrMsg: "OpenAI API authentication/authorization failed (401)",
			expectedKind:   apperrors.KindAuth,
			sensitiveMark:  "SECRET_STRING_VALUE",
		},
		{
			name:           "500 Internal Server Error",
			status:         http.StatusInternalServerError,
			responseBody:   "server down SECRET_STRING_VALUE",
			expectedErrMsg: "OpenAI server error (500)",
			expectedKind:   apperrors.KindTransient,
			sensitiveMark:  "SECRET_STRING_VALUE",
		},
		{
			name:           "404 model not found",
			status:         http.StatusNotFound,
			responseBody:   `{"error": {"message": "The model does not exist or you do not have access to it.", "code": "model_not_found"}}`,
			expectedErrMsg: "The model does not exist",
			expectedKind:   apperrors.KindBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.responseBody)
			}))
			defer server.Close()

			client := NewClient("test-key", "test-model")
			client.baseURL = server.URL

			_, err := client.Complete(context.Background(), "system", "user")
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.expectedErrMsg) {
				t.Errorf("error = %q, want contains %q", err.Error(), tt.expectedErrMsg)
			}
			if kind, _ := apperrors.KindOf(err); kind != tt.expectedKind {
				t.Errorf("kind = %q, want %q", kind, tt.expectedKind)
			}
			if tt.sensitiveMark != "" && strings.Contains(err.Error(), tt.sensitiveMark) {
				t.Errorf("error message leaks upstream body: %q", err.Error())
			}
		})
	}
}

func TestClientCompleteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req requestData
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("model = %q", req.Model)
		}
		if req.Temperature != 0.3 {
			t.Errorf("temperature = %v", req.Temperature)
		}
		if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
			t.Errorf("response_format = %+v", req.ResponseFormat)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}

		fmt.Fprint(w, `{
			"id": "chatcmpl-1",
			"choices": [{"message": {"role": "assistant", "content": "{\"translations\": [\"Hallo\"]}"}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 40, "completion_tokens": 8, "total_tokens": 48}
		}`)
	}))
	defer server.Close()

	client := NewClient("test-key", "test-model")
	client.baseURL = server.URL

	comp, err := client.Complete(context.Background(), "system prompt", "user prompt")
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if !strings.Contains(comp.Text, "Hallo") {
		t.Errorf("Text = %q", comp.Text)
	}
	if comp.Usage.TotalTokens != 48 {
		t.Errorf("TotalTokens = %d, want 48", comp.Usage.TotalTokens)
	}
}

func TestClientCompleteEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id": "chatcmpl-2", "choices": [], "usage": {}}`)
	}))
	defer server.Close()

	client := NewClient("test-key", "test-model")
	client.baseURL = server.URL

	_, err := client.Complete(context.Background(), "s", "u")
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
	if kind, _ := apperrors.KindOf(err); kind != apperrors.KindValidation {
		t.Errorf("kind = %q, want validation", kind)
	}
}
