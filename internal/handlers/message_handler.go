package handlers

import (
	"encoding/json"
	"log"

	"github.com/avoron/groupchat/internal/handlers/dto"
	"github.com/avoron/groupchat/internal/service"
	ws "github.com/avoron/groupchat/internal/websocket"
)

// MessageHandler обрабатывает команды живого канала. Каждая мутирующая
// команда проходит две фазы: долговременная запись (её ошибка уходит
// только инициатору), затем best-effort рассылка группе.
type MessageHandler struct {
	chats *service.ChatService
	hub   *ws.Hub
}

func NewMessageHandler(chats *service.ChatService, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{chats: chats, hub: hub}
}

func (h *MessageHandler) HandleMessage(client *ws.Client, msg *ws.Message) error {
	switch msg.Type {
	case ws.TypeJoin:
		return h.handleJoin(client, msg)

	case ws.TypeLeave:
		return h.handleLeave(client, msg)

	case ws.TypeMessage:
		return h.handleTextMessage(client, msg)

	case ws.TypeDeleteChat:
		return h.handleDeleteChat(client, msg)

	default:
		log.Printf("Unknown message type: %s", msg.Type)
		return nil
	}
}

// handleJoin: членство в хранилище -> живая регистрация -> анонс группе.
// Такой порядок гарантирует, что клиент не получит рассылку чата,
// участником которого он ещё не стал.
func (h *MessageHandler) handleJoin(client *ws.Client, msg *ws.Message) error {
	if msg.ChatID == nil {
		return ws.ErrChatRequired
	}

	if err := h.chats.JoinChat(*msg.ChatID, client.UserID); err != nil {
		return err
	}

	h.hub.JoinChat(client, *msg.ChatID)
	announceUserJoined(h.hub, *msg.ChatID, client.UserID)

	return nil
}

// handleLeave: сняв членство, анонсирует уход группе (включая самого
// уходящего — он ещё зарегистрирован) и только потом убирает подключение.
func (h *MessageHandler) handleLeave(client *ws.Client, msg *ws.Message) error {
	if msg.ChatID == nil {
		return ws.ErrChatRequired
	}

	if err := h.chats.LeaveChat(*msg.ChatID, client.UserID); err != nil {
		return err
	}

	announceUserLeft(h.hub, *msg.ChatID, client.UserID)
	h.hub.LeaveChat(client, *msg.ChatID)

	return nil
}

func (h *MessageHandler) handleTextMessage(client *ws.Client, msg *ws.Message) error {
	if msg.ChatID == nil {
		return ws.ErrChatRequired
	}

	var payload dto.MessagePayload
	if err := json.Unmarshal(msg.Data, &payload); err != nil {
		return ws.ErrInvalidMessage
	}

	if payload.Content == "" {
		return ws.ErrInvalidMessage
	}

	message, err := h.chats.PostMessage(*msg.ChatID, client.UserID, payload.Content)
	if err != nil {
		return err
	}

	announceMessage(h.hub, message)

	return nil
}

func (h *MessageHandler) handleDeleteChat(client *ws.Client, msg *ws.Message) error {
	if msg.ChatID == nil {
		return ws.ErrChatRequired
	}

	if err := h.chats.DeleteChat(*msg.ChatID, client.UserID); err != nil {
		return err
	}

	announceChatDeleted(h.hub, *msg.ChatID, client.UserID)

	return nil
}
