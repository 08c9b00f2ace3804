package rag

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"
)

// VectorIndex wraps an embedded chromem-go collection. All mutating
// operations go through a single handle guarded by a mutex, so resetting
// the collection never races an in-flight insert or search and no
// out-of-band filesystem cleanup is needed.
type VectorIndex struct {
	mu         sync.Mutex
	db         *chromem.DB
	collection *chromem.Collection
	name       string
	embedFunc  chromem.EmbeddingFunc
}

// NewVectorIndex opens (or creates) a persistent collection under dataDir.
func NewVectorIndex(dataDir, name string, embedFunc chromem.EmbeddingFunc) (*VectorIndex, error) {
	db, err := chromem.NewPersistentDB(dataDir, false)
	if err != nil {
		return nil, fmt.Errorf("open vector store failed: %w", err)
	}
	return newIndex(db, name, embedFunc)
}

// NewMemoryVectorIndex creates a non-persistent index, used in tests.
func NewMemoryVectorIndex(name string, embedFunc chromem.EmbeddingFunc) (*VectorIndex, error) {
	return newIndex(chromem.NewDB(), name, embedFunc)
}

func newIndex(db *chromem.DB, name string, embedFunc chromem.EmbeddingFunc) (*VectorIndex, error) {
	collection, err := db.GetOrCreateCollection(name, nil, embedFunc)
	if err != nil {
		return nil, fmt.Errorf("open collection %s failed: %w", name, err)
	}
	return &VectorIndex{
		db:         db,
		collection: collection,
		name:       name,
		embedFunc:  embedFunc,
	}, nil
}

// Reset drops the collection and recreates it empty. Deleting a
// collection that does not exist is a no-op, so Reset is idempotent.
func (x *VectorIndex) Reset(ctx context.Context) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if err := x.db.DeleteCollection(x.name); err != nil {
		return fmt.Errorf("delete collection %s failed: %w", x.name, err)
	}
	collection, err := x.db.GetOrCreateCollection(x.name, nil, x.embedFunc)
	if err != nil {
		return fmt.Errorf("recreate collection %s failed: %w", x.name, err)
	}
	x.collection = collection
	return nil
}

// Insert adds one chunk with its embedding and page-number metadata.
func (x *VectorIndex) Insert(ctx context.Context, chunk Chunk, embedding []float32, id string) error {
	return x.InsertBatch(ctx, []Chunk{chunk}, [][]float32{embedding}, []string{id})
}

// InsertBatch adds chunks positionally paired with embeddings and ids.
func (x *VectorIndex) InsertBatch(ctx context.Context, chunks []Chunk, embeddings [][]float32, ids []string) error {
	if len(chunks) == 0 {
		return nil
	}
	if len(embeddings) != len(chunks) || len(ids) != len(chunks) {
		return fmt.Errorf("insert batch mismatch: %d chunks, %d embeddings, %d ids",
			len(chunks), len(embeddings), len(ids))
	}

	docs := make([]chromem.Document, len(chunks))
	for i := range chunks {
		docs[i] = chromem.Document{
			ID:        ids[i],
			Content:   chunks[i].Content,
			Embedding: embeddings[i],
			Metadata: map[string]string{
				"page_number": strconv.Itoa(chunks[i].PageNumber),
			},
		}
	}

	x.mu.Lock()
	defer x.mu.Unlock()
	if err := x.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("add documents failed: %w", err)
	}
	return nil
}

// Search embeds the query text through the index's embedding function and
// returns the contents of the k nearest entries. The result count is
// clamped to the number of indexed entries, so it never exceeds k nor the
// index size.
func (x *VectorIndex) Search(ctx context.Context, query string, k int) ([]string, error) {
	x.mu.Lock()
	defer x.mu.Unlock()

	if count := x.collection.Count(); count < k {
		k = count
	}
	if k <= 0 {
		return nil, nil
	}

	results, err := x.collection.Query(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	contents := make([]string, len(results))
	for i := range results {
		contents[i] = results[i].Content
	}
	return contents, nil
}

// Count reports the number of indexed entries.
func (x *VectorIndex) Count() int {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.collection.Count()
}
