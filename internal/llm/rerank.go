package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// RerankClient is a Reranker backed by a Cohere-style rerank API.
type RerankClient struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewRerankClient creates a new rerank client.
func NewRerankClient(baseURL, apiKey, model string) *RerankClient {
	return &RerankClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// RerankRequest represents the request payload for the rerank API.
type RerankRequest struct {
	Model     string   `json:"model"`
	Query     string   `json:"query"`
	Documents []string `json:"documents"`
	TopN      int      `json:"top_n,omitempty"`
}

// RerankResult represents a single result in the rerank response.
type RerankResult struct {
	Index          int     `json:"index"`
	RelevanceScore float64 `json:"relevance_score"`
}

// RerankResponse represents the response from the rerank API.
type RerankResponse struct {
	Results []RerankResult `json:"results"`
}

// Rank reorders the submitted documents by relevance to the query.
// The returned rankings are in reranker order; Position is the 0-based rank.
// Results referencing out-of-range document indices are dropped.
func (c *RerankClient) Rank(ctx context.Context, query string, docs []Document) ([]Ranking, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	url := fmt.Sprintf("%s/v1/rerank", c.BaseURL)

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}

	payload := RerankRequest{
		Model:     c.Model,
		Query:     query,
		Documents: texts,
		TopN:      len(docs),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.APIKey))
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s", resp.StatusCode, string(raw))
	}

	var rerankResp RerankResponse
	if err := json.NewDecoder(resp.Body).Decode(&rerankResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	rankings := make([]Ranking, 0, len(rerankResp.Results))
	for position, result := range rerankResp.Results {
		if result.Index < 0 || result.Index >= len(docs) {
			continue
		}
		rankings = append(rankings, Ranking{
			ID:       docs[result.Index].ID,
			Position: position,
			Score:    result.RelevanceScore,
		})
	}

	return rankings, nil
}
