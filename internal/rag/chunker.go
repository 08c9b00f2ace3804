package rag

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ChaymaBrk/conv-AI/internal/pkg/pdfextract"
)

// ErrDocumentRead marks a source document that could not be opened or parsed.
var ErrDocumentRead = errors.New("document read failed")

const defaultChunkSize = 500

// Chunk is a bounded slice of a document's text plus its source page
// number. Chunks are transient: they live only for the duration of an
// ingest and are never written to the relational store.
type Chunk struct {
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

// PageText is the extracted text of one page, numbered from 1.
type PageText struct {
	Number int
	Text   string
}

// LoadPages extracts per-page text from the PDF at path.
func LoadPages(path string) ([]PageText, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrDocumentRead, path, err)
	}
	defer f.Close()

	texts, err := pdfextract.ExtractPages(f)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrDocumentRead, path, err)
	}

	pages := make([]PageText, len(texts))
	for i, text := range texts {
		pages[i] = PageText{Number: i + 1, Text: text}
	}
	return pages, nil
}

// SplitDocument extracts text from the PDF at path page by page and
// splits it into non-overlapping windows of chunkSize characters.
func SplitDocument(path string, chunkSize int) ([]Chunk, error) {
	pages, err := LoadPages(path)
	if err != nil {
		return nil, err
	}
	return SplitPages(pages, chunkSize), nil
}

// SplitPages slides a non-overlapping window of chunkSize runes across
// each page's text, in page order then offset order. Windows are
// whitespace-trimmed and empty windows are discarded, so a page with no
// extractable text contributes zero chunks.
func SplitPages(pages []PageText, chunkSize int) []Chunk {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}

	var chunks []Chunk
	for _, page := range pages {
		runes := []rune(page.Text)
		for i := 0; i < len(runes); i += chunkSize {
			end := i + chunkSize
			if end > len(runes) {
				end = len(runes)
			}
			content := strings.TrimSpace(string(runes[i:end]))
			if content == "" {
				continue
			}
			chunks = append(chunks, Chunk{
				PageNumber: page.Number,
				Content:    content,
			})
		}
	}
	return chunks
}
