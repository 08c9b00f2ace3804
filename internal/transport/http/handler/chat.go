package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ChaymaBrk/conv-AI/internal/app"
	"github.com/ChaymaBrk/conv-AI/internal/rag"
	"github.com/ChaymaBrk/conv-AI/internal/transport/http/response"
)

type ChatHandler struct {
	chatService *app.ChatService
}

type MessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// MessageResponse is the fixed wire shape of POST /messages.
type MessageResponse struct {
	Response string `json:"response"`
}

func NewChatHandler(chatService *app.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

func (h *ChatHandler) HandleMessage(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "invalid request payload")
		return
	}

	result, err := h.chatService.HandleMessage(c.Request.Context(), req.Content)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrMessageEmpty), errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrUnsupportedQuery):
			response.Error(c, http.StatusBadRequest, response.CodeUnsupportedQuery, "Unsupported query type.")
		case errors.Is(err, rag.ErrDocumentRead):
			response.Error(c, http.StatusInternalServerError, response.CodeInvalidDocument, err.Error())
		case errors.Is(err, app.ErrMessageEnqueue):
			response.Error(c, http.StatusServiceUnavailable, response.CodeInternalServer, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "handle message failed")
		}
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Response: result.Response})
}

func (h *ChatHandler) GetHistory(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	history, err := h.chatService.GetHistory(limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "get history failed")
		return
	}

	response.OK(c, history)
}
