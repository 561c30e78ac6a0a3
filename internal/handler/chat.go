package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"cybersafe-backend/internal/models"
	"cybersafe-backend/internal/service"
)

type ChatHandler interface {
	ListMessages(c *gin.Context)
	PostMessage(c *gin.Context)
}

type chatHandler struct {
	chatService *service.ChatService
	logger      *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, logger *zap.Logger) ChatHandler {
	return &chatHandler{chatService: chatService, logger: logger}
}

// ListMessages handles GET /api/chat/:chatId/messages. First access of a
// session with an assigned officer inserts the officer greeting.
func (h *chatHandler) ListMessages(c *gin.Context) {
	chatID := c.Param("chatId")

	messages, err := h.chatService.Messages(chatID)
	if err != nil {
		if errors.Is(err, service.ErrReportUnavailable) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Report for this chat session was not found"})
			return
		}
		h.logger.Error("Failed to list chat messages", zap.String("chat_id", chatID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve chat messages"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// PostMessageRequest is the body for POST /api/chat/:chatId/messages. ID is
// optional: retries carrying the same id replace the stored message.
type PostMessageRequest struct {
	ID     string `json:"id"`
	Sender string `json:"sender" binding:"required"`
	Text   string `json:"text" binding:"required"`
}

func (h *chatHandler) PostMessage(c *gin.Context) {
	chatID := c.Param("chatId")

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed to bind chat message", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chatService.PostMessage(chatID, &models.ChatMessage{
		ID:     req.ID,
		Sender: req.Sender,
		Text:   req.Text,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("Failed to post chat message", zap.String("chat_id", chatID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post chat message"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": message})
}
