package handler

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ChaymaBrk/conv-AI/internal/app"
	"github.com/ChaymaBrk/conv-AI/internal/rag"
	"github.com/ChaymaBrk/conv-AI/internal/transport/http/response"
)

const maxPDFSize = 10 << 20 // 10 MB

type DocumentHandler struct {
	documentService *app.DocumentService
}

func NewDocumentHandler(documentService *app.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// Upload accepts a multipart form with "file" (PDF), saves it to the
// uploads directory and indexes its chunks.
func (h *DocumentHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}
	if file.Size > maxPDFSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file too large (max 10MB)")
		return
	}
	if ext := strings.ToLower(filepath.Ext(file.Filename)); ext != ".pdf" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "only PDF files are allowed")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	result, err := h.documentService.ProcessUpload(c.Request.Context(), file.Filename, f)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, rag.ErrDocumentRead):
			response.Error(c, http.StatusBadRequest, response.CodeInvalidDocument, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "Error processing document: "+err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *DocumentHandler) List(c *gin.Context) {
	docs, err := h.documentService.ListDocuments()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "list documents failed")
		return
	}
	response.OK(c, docs)
}
