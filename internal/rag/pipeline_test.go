package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipeline_EnsureIndexedMissingSource(t *testing.T) {
	index := newTestIndex(t)
	pipeline := NewPipeline(index, nil, "testdata/does-not-exist.pdf", 500)

	err := pipeline.EnsureIndexed(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDocumentRead)
}

func TestPipeline_IndexChunksAssignsFreshIDs(t *testing.T) {
	index := newTestIndex(t)
	pipeline := NewPipeline(index, nil, "unused.pdf", 500)

	chunks := []Chunk{
		{PageNumber: 1, Content: "first upload chunk"},
		{PageNumber: 2, Content: "second upload chunk"},
	}
	embeddings := embedChunks(t, chunks)

	require.NoError(t, pipeline.IndexChunks(context.Background(), chunks, embeddings))
	assert.Equal(t, 2, index.Count())

	// Indexing the same chunks again must add entries, not overwrite,
	// since uploads never reset the collection.
	require.NoError(t, pipeline.IndexChunks(context.Background(), chunks, embeddings))
	assert.Equal(t, 4, index.Count())
}

func TestPipeline_SearchDelegatesToIndex(t *testing.T) {
	index := newTestIndex(t)
	pipeline := NewPipeline(index, nil, "unused.pdf", 500)

	chunks := []Chunk{{PageNumber: 1, Content: "roasted vegetables"}}
	require.NoError(t, pipeline.IndexChunks(context.Background(), chunks, embedChunks(t, chunks)))

	results, err := pipeline.Search(context.Background(), "vegetables", 3)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "roasted vegetables", results[0])
}

func TestPipeline_ChunkSizeDefault(t *testing.T) {
	pipeline := NewPipeline(newTestIndex(t), nil, "unused.pdf", 0)
	assert.Equal(t, 500, pipeline.ChunkSize())
}
