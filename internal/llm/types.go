package llm

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_providers.go -package=mocks patient360/internal/llm Embedder,Reranker,Completer

import "context"

// Message represents a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model specifies the model to use. If empty, the client's default model is used.
	Model string

	// MaxTokens specifies the maximum number of tokens to generate.
	// If 0, no limit is applied.
	MaxTokens int

	// Temperature controls the randomness of the output.
	Temperature float32
}

// Embedder defines the embedding capability contract. A nil Embedder means the
// capability is unconfigured; consumers fall back to keyword scoring.
type Embedder interface {
	// EmbedTexts generates one fixed-dimension vector per input text.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Document is an (id, text) pair submitted to the reranking capability.
type Document struct {
	ID   string
	Text string
}

// Ranking is one entry of the ordering returned by the reranking capability.
type Ranking struct {
	ID       string
	Position int // 0-based rank assigned by the reranker
	Score    float64
}

// Reranker defines the reranking capability contract. A nil Reranker means the
// capability is unconfigured; retrieval keeps its stage-1 ordering.
type Reranker interface {
	// Rank reorders the submitted documents by relevance to the query.
	// It may return a subset of the submitted ids.
	Rank(ctx context.Context, query string, docs []Document) ([]Ranking, error)
}

// Completer defines the chat completion capability contract, used by answer
// generation. A nil Completer means answers come from the template fallback.
type Completer interface {
	// ChatWithMessages sends a structured chat completion request.
	ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error)
}
