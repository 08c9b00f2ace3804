package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ChaymaBrk/conv-AI/internal/model"
	"github.com/ChaymaBrk/conv-AI/internal/rag"
)

type DocumentStore interface {
	Create(doc *model.Document) error
	CreatePages(pages []model.DocumentPage) error
	MarkProcessed(documentID uint) error
	List() ([]model.Document, error)
}

type ChunkIndexer interface {
	Embed(ctx context.Context, chunks []rag.Chunk) ([][]float32, error)
	IndexChunks(ctx context.Context, chunks []rag.Chunk, embeddings [][]float32) error
	ChunkSize() int
}

// DocumentService handles PDF uploads: the file is saved under a
// generated name, its pages recorded, and its chunks embedded and added
// to the vector index without resetting what is already there.
type DocumentService struct {
	docs       DocumentStore
	indexer    ChunkIndexer
	uploadsDir string
}

func NewDocumentService(docs DocumentStore, indexer ChunkIndexer, uploadsDir string) *DocumentService {
	return &DocumentService{
		docs:       docs,
		indexer:    indexer,
		uploadsDir: uploadsDir,
	}
}

type ProcessResult struct {
	Message      string `json:"message"`
	NumChunks    int    `json:"num_chunks"`
	DocumentName string `json:"document_name"`
}

func (s *DocumentService) ProcessUpload(ctx context.Context, filename string, src io.Reader) (*ProcessResult, error) {
	filename = filepath.Base(strings.TrimSpace(filename))
	if filename == "" || filename == "." {
		return nil, ErrInvalidInput
	}

	path, err := s.saveUpload(filename, src)
	if err != nil {
		return nil, err
	}

	doc := &model.Document{Title: filename, FilePath: path}
	if err := s.docs.Create(doc); err != nil {
		return nil, err
	}

	pages, err := rag.LoadPages(path)
	if err != nil {
		return nil, err
	}

	pageRows := make([]model.DocumentPage, 0, len(pages))
	for _, page := range pages {
		if strings.TrimSpace(page.Text) == "" {
			continue
		}
		pageRows = append(pageRows, model.DocumentPage{
			DocumentID: doc.ID,
			PageNumber: page.Number,
			Content:    page.Text,
		})
	}
	if err := s.docs.CreatePages(pageRows); err != nil {
		return nil, err
	}

	chunks := rag.SplitPages(pages, s.indexer.ChunkSize())
	if len(chunks) == 0 {
		return nil, fmt.Errorf("%w: document has no extractable text", ErrInvalidInput)
	}

	embeddings, err := s.indexer.Embed(ctx, chunks)
	if err != nil {
		return nil, err
	}
	if err := s.indexer.IndexChunks(ctx, chunks, embeddings); err != nil {
		return nil, err
	}

	if err := s.docs.MarkProcessed(doc.ID); err != nil {
		// The chunks are already searchable; a stale flag is not fatal.
		log.Warn().Err(err).Uint("document_id", doc.ID).Msg("mark document processed failed")
	}

	return &ProcessResult{
		Message:      "Document processed and stored successfully.",
		NumChunks:    len(chunks),
		DocumentName: filename,
	}, nil
}

// ListDocuments returns the uploaded documents on record.
func (s *DocumentService) ListDocuments() ([]model.Document, error) {
	return s.docs.List()
}

func (s *DocumentService) saveUpload(filename string, src io.Reader) (string, error) {
	if err := os.MkdirAll(s.uploadsDir, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir failed: %w", err)
	}

	path := filepath.Join(s.uploadsDir, uuid.NewString()+"_"+filename)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file failed: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write upload file failed: %w", err)
	}
	return path, nil
}
