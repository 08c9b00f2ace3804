package rag

import (
	"context"
	"errors"
	"fmt"

	"github.com/philippgille/chromem-go"

	"github.com/ChaymaBrk/conv-AI/internal/ai"
)

// ErrEmbedding marks a failed call to the external embedding service.
var ErrEmbedding = errors.New("embedding service failed")

// DashScope and similar APIs often limit batch size.
const embeddingBatchSize = 10

// Embedder converts chunk text into fixed-length vectors through an
// OpenAI-compatible embeddings endpoint. Vector dimensionality is
// whatever the provider returns; nothing here validates or normalizes it.
type Embedder struct {
	client *ai.OpenAICompatibleClient
	cfg    ai.EmbeddingConfig
}

func NewEmbedder(client *ai.OpenAICompatibleClient, cfg ai.EmbeddingConfig) *Embedder {
	return &Embedder{client: client, cfg: cfg}
}

// EmbedChunks returns one vector per chunk, in input order. There is no
// retry: the first failed batch aborts the whole call.
func (e *Embedder) EmbedChunks(ctx context.Context, chunks []Chunk) ([][]float32, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	var embeddings [][]float32
	for i := 0; i < len(texts); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := e.client.EmbedBatch(ctx, e.cfg, texts[i:end])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
		}
		embeddings = append(embeddings, batch...)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("%w: got %d vectors for %d chunks", ErrEmbedding, len(embeddings), len(chunks))
	}
	return embeddings, nil
}

// EmbedQuery embeds a single query string.
func (e *Embedder) EmbedQuery(ctx context.Context, query string) ([]float32, error) {
	vec, err := e.client.Embed(ctx, e.cfg, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}
	return vec, nil
}

// EmbeddingFunc adapts the embedder to the vector store's callback shape,
// used when the index embeds query text internally during search.
func (e *Embedder) EmbeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, text string) ([]float32, error) {
		return e.EmbedQuery(ctx, text)
	}
}
