package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Pipeline ties the chunker, embedder and vector index together for the
// fixed source document. Instead of dropping and rebuilding the index on
// every request, it keeps a content hash of the source document and only
// re-ingests when the file changed or the index is empty.
type Pipeline struct {
	index    *VectorIndex
	embedder *Embedder

	sourcePath string
	chunkSize  int

	mu       sync.Mutex
	lastHash string
}

func NewPipeline(index *VectorIndex, embedder *Embedder, sourcePath string, chunkSize int) *Pipeline {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Pipeline{
		index:      index,
		embedder:   embedder,
		sourcePath: sourcePath,
		chunkSize:  chunkSize,
	}
}

// EnsureIndexed makes the source document searchable. When the document's
// content hash matches the last ingest and the index is non-empty, it
// returns immediately; otherwise the collection is reset and rebuilt.
func (p *Pipeline) EnsureIndexed(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	hash, err := fileHash(p.sourcePath)
	if err != nil {
		return fmt.Errorf("%w: hash %s: %v", ErrDocumentRead, p.sourcePath, err)
	}
	if hash == p.lastHash && p.index.Count() > 0 {
		return nil
	}

	chunks, err := SplitDocument(p.sourcePath, p.chunkSize)
	if err != nil {
		return err
	}
	if len(chunks) == 0 {
		log.Warn().Str("path", p.sourcePath).Msg("source document has no extractable text")
		p.lastHash = hash
		return nil
	}

	embeddings, err := p.embedder.EmbedChunks(ctx, chunks)
	if err != nil {
		return err
	}

	if err := p.index.Reset(ctx); err != nil {
		return err
	}
	if err := p.IndexChunks(ctx, chunks, embeddings); err != nil {
		return err
	}

	p.lastHash = hash
	log.Info().Str("path", p.sourcePath).Int("chunks", len(chunks)).Msg("source document indexed")
	return nil
}

// IndexChunks embeds nothing itself; it stores already-embedded chunks
// under fresh UUIDs. Uploaded documents go through here without a reset.
func (p *Pipeline) IndexChunks(ctx context.Context, chunks []Chunk, embeddings [][]float32) error {
	ids := make([]string, len(chunks))
	for i := range ids {
		ids[i] = uuid.NewString()
	}
	return p.index.InsertBatch(ctx, chunks, embeddings, ids)
}

// Embed exposes the pipeline's embedder for callers that chunk their own
// documents (the upload path).
func (p *Pipeline) Embed(ctx context.Context, chunks []Chunk) ([][]float32, error) {
	return p.embedder.EmbedChunks(ctx, chunks)
}

// Search returns the contents of the k nearest indexed chunks.
func (p *Pipeline) Search(ctx context.Context, query string, k int) ([]string, error) {
	return p.index.Search(ctx, query, k)
}

// ChunkSize reports the configured window size.
func (p *Pipeline) ChunkSize() int {
	return p.chunkSize
}

func fileHash(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:]), nil
}
