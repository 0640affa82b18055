// Package deid provides the text de-identification capability used by the
// ingestion pipeline. The client speaks the Azure AI Language PII detection
// REST shape; callers are expected to treat any error (including timeouts) as
// a recoverable capability outage and substitute the sentinel redaction.
package deid

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_redactor.go -package=mocks patient360/internal/deid Redactor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"patient360/internal/storage"
)

// Result holds the output of a redaction call.
type Result struct {
	RedactedText string
	Entities     []storage.PHIEntity
}

// Redactor defines the de-identification capability contract.
type Redactor interface {
	// Redact removes sensitive spans from text, returning the redacted text and
	// the list of detected entities.
	Redact(ctx context.Context, text, language string) (Result, error)
}

// Client is a Redactor backed by an Azure AI Language style PII detection endpoint.
type Client struct {
	Endpoint string
	APIKey   string
	client   *http.Client
}

// NewClient creates a new de-identification client.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		Endpoint: strings.TrimRight(endpoint, "/"),
		APIKey:   apiKey,
		client:   http.DefaultClient,
	}
}

type analyzeRequest struct {
	Kind          string        `json:"kind"`
	AnalysisInput analysisInput `json:"analysisInput"`
	Parameters    piiParameters `json:"parameters"`
}

type analysisInput struct {
	Documents []document `json:"documents"`
}

type document struct {
	ID       string `json:"id"`
	Language string `json:"language"`
	Text     string `json:"text"`
}

type piiParameters struct {
	ModelVersion string `json:"modelVersion"`
}

type analyzeResponse struct {
	Results struct {
		Documents []struct {
			ID           string `json:"id"`
			RedactedText string `json:"redactedText"`
			Entities     []struct {
				Text            string  `json:"text"`
				Category        string  `json:"category"`
				Subcategory     string  `json:"subcategory"`
				ConfidenceScore float64 `json:"confidenceScore"`
			} `json:"entities"`
		} `json:"documents"`
		Errors []struct {
			ID    string `json:"id"`
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		} `json:"errors"`
	} `json:"results"`
}

// Redact removes sensitive spans from text using the PII detection endpoint.
func (c *Client) Redact(ctx context.Context, text, language string) (Result, error) {
	url := fmt.Sprintf("%s/language/:analyze-text?api-version=2023-04-01", c.Endpoint)

	payload := analyzeRequest{
		Kind: "PiiEntityRecognition",
		AnalysisInput: analysisInput{
			Documents: []document{
				{ID: "1", Language: language, Text: text},
			},
		},
		Parameters: piiParameters{ModelVersion: "latest"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Ocp-Apim-Subscription-Key", c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return Result{}, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var analyzeResp analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analyzeResp); err != nil {
		return Result{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(analyzeResp.Results.Errors) > 0 {
		return Result{}, fmt.Errorf("document error: %s", analyzeResp.Results.Errors[0].Error.Message)
	}
	if len(analyzeResp.Results.Documents) == 0 {
		return Result{}, fmt.Errorf("no documents returned")
	}

	doc := analyzeResp.Results.Documents[0]
	entities := make([]storage.PHIEntity, 0, len(doc.Entities))
	for _, e := range doc.Entities {
		entities = append(entities, storage.PHIEntity{
			Text:        e.Text,
			Category:    e.Category,
			Subcategory: e.Subcategory,
			Confidence:  e.ConfidenceScore,
		})
	}

	return Result{
		RedactedText: doc.RedactedText,
		Entities:     entities,
	}, nil
}
