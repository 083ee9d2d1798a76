package handlers

import (
	"github.com/google/uuid"

	"github.com/avoron/groupchat/internal/handlers/dto"
	"github.com/avoron/groupchat/internal/models"
	ws "github.com/avoron/groupchat/internal/websocket"
)

// Вторая фаза каждой мутирующей операции: рассылка события группе.
// Вызывается только после успешной долговременной записи; сбои доставки
// логируются хабом и никогда не влияют на результат операции.

func announceMessage(hub *ws.Hub, message *models.Message) {
	hub.AnnounceToChat(message.ChatID, ws.TypeMessage, message.UserID, dto.MessageResponse{
		ID:        message.ID,
		ChatID:    message.ChatID,
		UserID:    message.UserID,
		Content:   message.Content,
		CreatedAt: message.CreatedAt,
	})
}

func announceUserJoined(hub *ws.Hub, chatID, userID uuid.UUID) {
	hub.AnnounceToChat(chatID, ws.TypeUserJoined, userID, nil)
}

func announceUserLeft(hub *ws.Hub, chatID, userID uuid.UUID) {
	hub.AnnounceToChat(chatID, ws.TypeUserLeft, userID, nil)
}

// announceChatDeleted объявляет удаление всей группе и затем выселяет
// её живую регистрацию целиком.
func announceChatDeleted(hub *ws.Hub, chatID, byUserID uuid.UUID) {
	hub.AnnounceToChat(chatID, ws.TypeChatDeleted, byUserID, map[string]uuid.UUID{"chat_id": chatID})
	hub.EvictChat(chatID)
}
