package embeddings

import (
	"context"
	"fmt"
	"os"

	"github.com/sashabaranov/go-openai"

	"funcscan/internal/config"
)

type Client struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewClient() *Client {
	apiKey := config.Get("OPENAI_API_KEY", "openai_key")
	if apiKey == "" {
		fmt.Fprintf(os.Stderr, "⚠ Warning: OPENAI_API_KEY is not set\n")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := config.Get("OPENAI_BASE_URL", "openai_base_url"); baseURL != "" {
		cfg.BaseURL = baseURL
		fmt.Fprintf(os.Stderr, "→ Using custom API endpoint: %s\n", baseURL)
	}

	model := openai.SmallEmbedding3
	if modelName := config.Get("OPENAI_EMBEDDING_MODEL", "openai_embedding_model"); modelName != "" {
		model = openai.EmbeddingModel(modelName)
		fmt.Fprintf(os.Stderr, "→ Using embedding model: %s\n", modelName)
	}

	return &Client{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}
}

func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("no embeddings returned")
	}
	return vectors[0], nil
}

func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: c.model,
		Input: texts,
	})
	if err != nil {
		return nil, err
	}
	results := make([][]float32, len(resp.Data))
	for _, data := range resp.Data {
		results[data.Index] = data.Embedding
	}
	return results, nil
}
