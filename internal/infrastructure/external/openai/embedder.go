package openai

import (
	"context"
	"fmt"

	"github.com/Nazim-fad/prototype-of-an-AI-agent/internal/application/port"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Embedder implements port.Embedder with the embeddings endpoint
type Embedder struct {
	client *Client
}

// NewEmbedder creates an embedder on client
func NewEmbedder(client *Client) *Embedder {
	return &Embedder{client: client}
}

// Embed returns one vector per input text, in input order
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	resp, err := e.client.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(e.client.embeddingModel),
	})
	if err != nil {
		e.client.logger.Error("OpenAI embeddings call failed",
			zap.String("model", e.client.embeddingModel),
			zap.Error(err))
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embeddings count mismatch: got %d, want %d", len(resp.Data), len(texts))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("embedding index out of range: %d", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// Verify interface compliance
var _ port.Embedder = (*Embedder)(nil)
