package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/vivekmuskan03/sahayak/internal/reliability"
)

const (
	maxEmbedChars = 8000

	maxAttempts = 3
	backoffBase = 200 * time.Millisecond
	backoffCap  = 2 * time.Second
)

// GeminiClient implements Generator and Embedder on the Gemini API.
type GeminiClient struct {
	client     *genai.Client
	chatModel  string
	embedModel string
}

type GeminiConfig struct {
	APIKey     string
	ChatModel  string
	EmbedModel string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client init failed: %w", err)
	}
	chatModel := cfg.ChatModel
	if chatModel == "" {
		chatModel = "gemini-1.5-flash"
	}
	embedModel := cfg.EmbedModel
	if embedModel == "" {
		embedModel = "text-embedding-004"
	}
	return &GeminiClient{client: client, chatModel: chatModel, embedModel: embedModel}, nil
}

func (c *GeminiClient) Close() error {
	return c.client.Close()
}

func (c *GeminiClient) Generate(ctx context.Context, turns []Turn) (string, error) {
	if len(turns) == 0 {
		return "", fmt.Errorf("no turns to generate from")
	}
	model := c.client.GenerativeModel(c.chatModel)

	// The API has no system role; fold instructions into the system field.
	var history []*genai.Content
	for _, turn := range turns {
		switch turn.Role {
		case "system":
			model.SystemInstruction = &genai.Content{
				Parts: []genai.Part{genai.Text(turn.Content)},
			}
		case "assistant":
			history = append(history, &genai.Content{
				Role:  "model",
				Parts: []genai.Part{genai.Text(turn.Content)},
			})
		default:
			history = append(history, &genai.Content{
				Role:  "user",
				Parts: []genai.Part{genai.Text(turn.Content)},
			})
		}
	}
	if len(history) == 0 || history[len(history)-1].Role != "user" {
		return "", fmt.Errorf("conversation must end with a user turn")
	}

	chat := model.StartChat()
	chat.History = history[:len(history)-1]
	var resp *genai.GenerateContentResponse
	err := withRetry(ctx, func() error {
		var sendErr error
		resp, sendErr = chat.SendMessage(ctx, history[len(history)-1].Parts...)
		return sendErr
	})
	if err != nil {
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			out.WriteString(string(txt))
		}
	}
	if out.Len() == 0 {
		return "", fmt.Errorf("gemini returned a non-text response")
	}
	return out.String(), nil
}

func (c *GeminiClient) Embed(ctx context.Context, text string) ([]float32, error) {
	em := c.client.EmbeddingModel(c.embedModel)
	var res *genai.EmbedContentResponse
	err := withRetry(ctx, func() error {
		var embedErr error
		res, embedErr = em.EmbedContent(ctx, genai.Text(clip(text)))
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("gemini embedding failed: %w", err)
	}
	if res.Embedding == nil || len(res.Embedding.Values) == 0 {
		return nil, fmt.Errorf("gemini returned an empty embedding")
	}
	return res.Embedding.Values, nil
}

func (c *GeminiClient) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	em := c.client.EmbeddingModel(c.embedModel)
	batch := em.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(clip(t)))
	}
	var res *genai.BatchEmbedContentsResponse
	err := withRetry(ctx, func() error {
		var embedErr error
		res, embedErr = em.BatchEmbedContents(ctx, batch)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("gemini batch embedding failed: %w", err)
	}
	vectors := make([][]float32, 0, len(res.Embeddings))
	for _, e := range res.Embeddings {
		vectors = append(vectors, e.Values)
	}
	return vectors, nil
}

// withRetry re-runs call on transient API errors with capped exponential
// backoff. Permanent errors return immediately.
func withRetry(ctx context.Context, call func() error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err = call(); err == nil || !reliability.IsRetryableError(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(reliability.ExponentialBackoff(attempt, backoffBase, backoffCap)):
		}
	}
	return err
}

func clip(text string) string {
	if len(text) > maxEmbedChars {
		return text[:maxEmbedChars]
	}
	return text
}
