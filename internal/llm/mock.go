package llm

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
)

// MockClient provides deterministic local replies and embeddings when no
// Gemini key is configured.
type MockClient struct {
	Dim int
}

func NewMockClient(dim int) *MockClient {
	if dim <= 0 {
		dim = 16
	}
	return &MockClient{Dim: dim}
}

func (m *MockClient) Generate(ctx context.Context, turns []Turn) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == "user" {
			base := strings.TrimSpace(turns[i].Content)
			if base == "" {
				base = "I am listening."
			}
			return fmt.Sprintf("I heard you: %s", base), nil
		}
	}
	return "I am listening.", nil
}

// Embed hashes lowercased words into a fixed-dimension bag-of-words vector,
// so texts sharing vocabulary score as similar.
func (m *MockClient) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, m.Dim)
	for _, word := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		h.Write([]byte(strings.Trim(word, ".,!?\"'")))
		vec[int(h.Sum32())%m.Dim]++
	}
	return vec, nil
}

func (m *MockClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
