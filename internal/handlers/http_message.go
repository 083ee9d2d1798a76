package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avoron/groupchat/internal/handlers/dto"
	"github.com/avoron/groupchat/internal/middleware"
	"github.com/avoron/groupchat/internal/models"
	"github.com/avoron/groupchat/internal/service"
	ws "github.com/avoron/groupchat/internal/websocket"
)

type HTTPMessageHandler struct {
	chats *service.ChatService
	hub   *ws.Hub
}

func NewHTTPMessageHandler(chats *service.ChatService, hub *ws.Hub) *HTTPMessageHandler {
	return &HTTPMessageHandler{chats: chats, hub: hub}
}

// GetChatMessages получает историю сообщений чата с пагинацией
func (h *HTTPMessageHandler) GetChatMessages(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	// Параметры пагинации
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	var beforeID *uuid.UUID
	if before := c.Query("before"); before != "" {
		if id, err := uuid.Parse(before); err == nil {
			beforeID = &id
		}
	}

	messages, err := h.chats.ChatHistory(chatID, userID, limit, beforeID)
	if err != nil {
		respondError(c, err, "chat not found")
		return
	}

	result := make([]dto.MessageResponse, len(messages))
	for i, msg := range messages {
		result[i] = formatMessageResponse(&msg)
	}

	c.JSON(http.StatusOK, gin.H{
		"messages": result,
		"has_more": len(messages) == limit,
	})
}

// SendMessage отправляет сообщение через HTTP (альтернатива WebSocket).
// Запись в хранилище предшествует рассылке; при ошибке записи рассылки нет.
func (h *HTTPMessageHandler) SendMessage(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	var req struct {
		Content string `json:"content" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message, err := h.chats.PostMessage(chatID, userID, req.Content)
	if err != nil {
		respondError(c, err, "chat or user not found")
		return
	}

	announceMessage(h.hub, message)

	c.JSON(http.StatusCreated, formatMessageResponse(message))
}

func formatMessageResponse(msg *models.Message) dto.MessageResponse {
	return dto.MessageResponse{
		ID:        msg.ID,
		ChatID:    msg.ChatID,
		UserID:    msg.UserID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt,
	}
}
