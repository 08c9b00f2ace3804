package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChaymaBrk/conv-AI/internal/app"
	"github.com/ChaymaBrk/conv-AI/internal/model"
	"github.com/ChaymaBrk/conv-AI/internal/rag"
)

// The validation paths below reject the request before the service runs,
// so a handler wired with a nil service is safe to exercise.
func newDocumentRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewDocumentHandler(nil)
	r := gin.New()
	r.POST("/documents", h.Upload)
	return r
}

func multipartUpload(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestDocumentHandler_UploadMissingFile(t *testing.T) {
	r := newDocumentRouter()

	buf, contentType := multipartUpload(t, "attachment", "food.pdf", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/documents", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing file")
}

func TestDocumentHandler_UploadRejectsNonPDF(t *testing.T) {
	r := newDocumentRouter()

	for _, filename := range []string{"notes.txt", "image.png", "report"} {
		buf, contentType := multipartUpload(t, "file", filename, []byte("x"))
		req := httptest.NewRequest(http.MethodPost, "/documents", buf)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code, "filename %q", filename)
		assert.Contains(t, w.Body.String(), "only PDF files are allowed")
	}
}

func TestDocumentHandler_UploadUnparsablePDF(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := app.NewDocumentService(&memoryDocumentStore{}, noopIndexer{}, t.TempDir())
	h := NewDocumentHandler(svc)
	r := gin.New()
	r.POST("/documents", h.Upload)

	// .PDF passes the case-insensitive extension check, then parsing
	// rejects the junk content with the invalid-document code.
	buf, contentType := multipartUpload(t, "file", "MENU.PDF", []byte("this is not a pdf"))
	req := httptest.NewRequest(http.MethodPost, "/documents", buf)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotContains(t, w.Body.String(), "only PDF files are allowed")
	assert.Contains(t, w.Body.String(), `"code":40002`)
}

type memoryDocumentStore struct {
	nextID uint
}

func (s *memoryDocumentStore) Create(doc *model.Document) error {
	s.nextID++
	doc.ID = s.nextID
	return nil
}

func (s *memoryDocumentStore) CreatePages(_ []model.DocumentPage) error { return nil }
func (s *memoryDocumentStore) MarkProcessed(_ uint) error               { return nil }
func (s *memoryDocumentStore) List() ([]model.Document, error)          { return nil, nil }

type noopIndexer struct{}

func (noopIndexer) Embed(_ context.Context, chunks []rag.Chunk) ([][]float32, error) {
	return make([][]float32, len(chunks)), nil
}

func (noopIndexer) IndexChunks(_ context.Context, _ []rag.Chunk, _ [][]float32) error {
	return nil
}

func (noopIndexer) ChunkSize() int { return 500 }
