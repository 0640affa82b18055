package deid

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Redact(t *testing.T) {
	tests := []struct {
		name         string
		serverResp   func(w http.ResponseWriter, r *http.Request)
		wantText     string
		wantEntities int
		wantErr      bool
	}{
		{
			name: "successful redaction",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/language/:analyze-text" {
					t.Errorf("expected /language/:analyze-text, got %s", r.URL.Path)
				}
				if r.URL.Query().Get("api-version") != "2023-04-01" {
					t.Errorf("missing api-version query parameter")
				}
				if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
					t.Errorf("missing subscription key header")
				}

				var req analyzeRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if req.Kind != "PiiEntityRecognition" {
					t.Errorf("request kind = %s, want PiiEntityRecognition", req.Kind)
				}
				if len(req.AnalysisInput.Documents) != 1 || req.AnalysisInput.Documents[0].Language != "en" {
					t.Errorf("unexpected documents: %+v", req.AnalysisInput.Documents)
				}

				_, _ = w.Write([]byte(`{
					"results": {
						"documents": [{
							"id": "1",
							"redactedText": "********** seen today.",
							"entities": [
								{"text": "John Smith", "category": "Person", "confidenceScore": 0.99}
							]
						}],
						"errors": []
					}
				}`))
			},
			wantText:     "********** seen today.",
			wantEntities: 1,
		},
		{
			name: "document error",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{
					"results": {
						"documents": [],
						"errors": [{"id": "1", "error": {"message": "invalid document"}}]
					}
				}`))
			},
			wantErr: true,
		},
		{
			name: "no documents returned",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"results": {"documents": [], "errors": []}}`))
			},
			wantErr: true,
		},
		{
			name: "server error",
			serverResp: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(tt.serverResp))
			defer server.Close()

			client := NewClient(server.URL, "test-key")

			result, err := client.Redact(context.Background(), "John Smith seen today.", "en")

			if tt.wantErr {
				if err == nil {
					t.Error("Redact() expected error, got nil")
				}
				return
			}

			if err != nil {
				t.Fatalf("Redact() unexpected error: %v", err)
			}
			if result.RedactedText != tt.wantText {
				t.Errorf("RedactedText = %q, want %q", result.RedactedText, tt.wantText)
			}
			if len(result.Entities) != tt.wantEntities {
				t.Fatalf("got %d entities, want %d", len(result.Entities), tt.wantEntities)
			}
			if result.Entities[0].Category != "Person" || result.Entities[0].Confidence != 0.99 {
				t.Errorf("entity not mapped: %+v", result.Entities[0])
			}
		})
	}
}

func TestNewClientTrimsTrailingSlash(t *testing.T) {
	client := NewClient("https://example.cognitiveservices.azure.com/", "key")
	if client.Endpoint != "https://example.cognitiveservices.azure.com" {
		t.Errorf("Endpoint = %q, trailing slash not trimmed", client.Endpoint)
	}
}
