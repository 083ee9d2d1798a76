package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/avoron/groupchat/internal/handlers/dto"
	"github.com/avoron/groupchat/internal/middleware"
	"github.com/avoron/groupchat/internal/models"
	"github.com/avoron/groupchat/internal/service"
	ws "github.com/avoron/groupchat/internal/websocket"
)

type ChatHandler struct {
	chats *service.ChatService
	hub   *ws.Hub
}

func NewChatHandler(chats *service.ChatService, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{chats: chats, hub: hub}
}

// CreateChat создает чат; создатель сразу становится участником
func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	var req dto.CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	chat, err := h.chats.CreateChat(req.Title, userID)
	if err != nil {
		respondError(c, err, "creator not found")
		return
	}

	c.JSON(http.StatusCreated, formatChatResponse(chat))
}

// ListChats возвращает все чаты
func (h *ChatHandler) ListChats(c *gin.Context) {
	// Поиск по подстроке названия через ?title=
	if title := c.Query("title"); title != "" {
		chats, err := h.chats.SearchChats(title)
		if err != nil {
			respondError(c, err, "no chats match the title")
			return
		}
		c.JSON(http.StatusOK, gin.H{"chats": formatChatList(chats)})
		return
	}

	chats, err := h.chats.GetAllChats()
	if err != nil {
		respondError(c, err, "chats not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"chats": formatChatList(chats)})
}

// GetChat получает чат по ID
func (h *ChatHandler) GetChat(c *gin.Context) {
	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	chat, err := h.chats.GetChatByID(chatID)
	if err != nil {
		respondError(c, err, "chat not found")
		return
	}

	response := formatChatResponse(chat)
	response.OnlineUsers = h.hub.ChatUsers(chat.ID)

	c.JSON(http.StatusOK, response)
}

// DeleteChat удаляет чат. Сначала фиксируется удаление в хранилище,
// затем группе объявляется chat_deleted и её живая регистрация выселяется.
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	if err := h.chats.DeleteChat(chatID, userID); err != nil {
		respondError(c, err, "chat not found")
		return
	}

	announceChatDeleted(h.hub, chatID, userID)

	c.Status(http.StatusNoContent)
}

// JoinChat добавляет пользователя в чат
func (h *ChatHandler) JoinChat(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	if err := h.chats.JoinChat(chatID, userID); err != nil {
		respondError(c, err, "chat or user not found")
		return
	}

	// Живая регистрация происходит на WebSocket-подключении; HTTP-join
	// только фиксирует членство и объявляет его группе.
	announceUserJoined(h.hub, chatID, userID)

	c.JSON(http.StatusOK, gin.H{"message": "joined chat"})
}

// LeaveChat удаляет членство и снимает все подключения пользователя
// с живой группы. Анонс уходит группе до снятия, включая самого уходящего.
func (h *ChatHandler) LeaveChat(c *gin.Context) {
	userID := c.MustGet(middleware.UserIDKey).(uuid.UUID)

	chatID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return
	}

	if err := h.chats.LeaveChat(chatID, userID); err != nil {
		respondError(c, err, "membership not found")
		return
	}

	announceUserLeft(h.hub, chatID, userID)
	h.hub.LeaveChatUser(chatID, userID)

	c.JSON(http.StatusOK, gin.H{"message": "left chat"})
}

func formatChatResponse(chat *models.Chat) dto.ChatResponse {
	return dto.ChatResponse{
		ID:        chat.ID,
		Title:     chat.Title,
		CreatorID: chat.CreatorID,
		CreatedAt: chat.CreatedAt,
	}
}

func formatChatList(chats []models.Chat) []dto.ChatResponse {
	result := make([]dto.ChatResponse, len(chats))
	for i := range chats {
		result[i] = formatChatResponse(&chats[i])
	}
	return result
}
