package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_ChatWithMessages(t *testing.T) {
	tests := []struct {
		name       string
		serverResp func(w http.ResponseWriter, r *http.Request)
		params     ChatParams
		want       string
		wantErr    bool
	}{
		{
			name: "successful completion",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/chat/completions" {
					t.Errorf("expected /v1/chat/completions, got %s", r.URL.Path)
				}

				var req ChatRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if req.Model != "test-model" {
					t.Errorf("request model = %s, want test-model", req.Model)
				}
				if req.MaxTokens != 1000 {
					t.Errorf("request max_tokens = %d, want 1000", req.MaxTokens)
				}

				resp := ChatResponse{
					Choices: []ChatChoice{
						{Message: ChatChoiceMessage{Role: "assistant", Content: "ANSWER: yes"}},
					},
				}
				w.Header().Set("Content-Type", "application/json")
				_ = json.NewEncoder(w).Encode(resp)
			},
			params:  ChatParams{MaxTokens: 1000, Temperature: 0.3},
			want:    "ANSWER: yes",
			wantErr: false,
		},
		{
			name: "model override",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				var req ChatRequest
				_ = json.NewDecoder(r.Body).Decode(&req)
				if req.Model != "other-model" {
					t.Errorf("request model = %s, want other-model", req.Model)
				}

				resp := ChatResponse{
					Choices: []ChatChoice{
						{Message: ChatChoiceMessage{Content: "ok"}},
					},
				}
				_ = json.NewEncoder(w).Encode(resp)
			},
			params:  ChatParams{Model: "other-model"},
			want:    "ok",
			wantErr: false,
		},
		{
			name: "no choices",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(ChatResponse{})
			},
			wantErr: true,
		},
		{
			name: "server error",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "rate limited", http.StatusTooManyRequests)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, "test-key", "test-model")

			got, err := client.ChatWithMessages(context.Background(), []Message{
				{Role: "user", Content: "hello"},
			}, tt.params)

			if tt.wantErr {
				if err == nil {
					t.Error("ChatWithMessages() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("ChatWithMessages() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ChatWithMessages() = %q, want %q", got, tt.want)
			}
		})
	}
}
