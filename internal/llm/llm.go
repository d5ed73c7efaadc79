package llm

import "context"

// Turn is one conversational exchange passed to the generation capability.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generator produces an assistant completion from conversation turns.
// A leading turn with role "system" carries instructions.
type Generator interface {
	Generate(ctx context.Context, turns []Turn) (string, error)
}

// Embedder converts text to similarity vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}
