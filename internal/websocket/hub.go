package websocket

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// MessageType определяет типы сообщений живого канала
type MessageType string

const (
	// Системные типы
	TypePing MessageType = "ping"
	TypePong MessageType = "pong"

	// Входящие команды клиента
	TypeJoin       MessageType = "join"
	TypeLeave      MessageType = "leave"
	TypeMessage    MessageType = "message"
	TypeDeleteChat MessageType = "delete_chat"

	// Исходящие события группы
	TypeUserJoined  MessageType = "user_joined"
	TypeUserLeft    MessageType = "user_left"
	TypeChatDeleted MessageType = "chat_deleted"
	TypeChatUsers   MessageType = "chat_users"
	TypeError       MessageType = "error"
)

type Message struct {
	Type      MessageType     `json:"type"`
	ChatID    *uuid.UUID      `json:"chat_id,omitempty"`
	UserID    uuid.UUID       `json:"user_id"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

type Client struct {
	ID     uuid.UUID
	UserID uuid.UUID
	Conn   *websocket.Conn
	Send   chan []byte
	Chats  map[uuid.UUID]bool
	Hub    *Hub
	mu     sync.RWMutex
}

// Hub владеет справочником живых подключений: chatID -> множество клиентов.
// Справочник — эфемерный кэш для рассылки; источник истины о членстве —
// хранилище. Вся мутация идёт через Register/Unregister/JoinChat/LeaveChat/
// EvictChat под одним мьютексом.
type Hub struct {
	clients map[uuid.UUID]*Client

	// Подключения по чатам; запись создаётся лениво при первом join
	// и убирается, когда пустеет или чат удалён
	chats map[uuid.UUID]map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	// Контекст для graceful shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// NewHub создает новый Hub
func NewHub() *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:    make(map[uuid.UUID]*Client),
		chats:      make(map[uuid.UUID]map[uuid.UUID]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		ctx:        ctx,
		cancel:     cancel,
	}
}

// Run запускает hub
func (h *Hub) Run() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-h.ctx.Done():
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case <-ticker.C:
			h.ping()
		}
	}
}

// Stop останавливает hub
func (h *Hub) Stop() {
	h.cancel()

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.clients {
		close(client.Send)
		client.Conn.Close()
	}
	h.clients = make(map[uuid.UUID]*Client)
	h.chats = make(map[uuid.UUID]map[uuid.UUID]*Client)
}

// Register регистрирует нового клиента
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister отменяет регистрацию клиента
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client.ID] = client

	log.Printf("Client registered: %s (User: %s)", client.ID, client.UserID)
}

// unregisterClient убирает клиента из всех чатов справочника: обрыв связи
// без явного leave не трогает долговременное членство, но живая доставка
// на этот handle прекращается сразу.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}

	for _, chatID := range client.ChatIDs() {
		h.leaveChatUnsafe(client, chatID)
	}

	delete(h.clients, client.ID)
	close(client.Send)

	log.Printf("Client unregistered: %s (User: %s)", client.ID, client.UserID)
}

// JoinChat добавляет клиента в живую группу чата и отправляет ему снимок
// участников. Анонсов здесь нет: их шлёт вызывающий слой и только после
// успешной долговременной записи.
func (h *Hub) JoinChat(client *Client, chatID uuid.UUID) {
	// Повторная регистрация того же подключения — no-op,
	// снимок участников ему не переотправляется
	if client.IsInChat(chatID) {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.chats[chatID]; !ok {
		h.chats[chatID] = make(map[uuid.UUID]*Client)
	}

	h.chats[chatID][client.ID] = client
	client.mu.Lock()
	client.Chats[chatID] = true
	client.mu.Unlock()

	h.sendChatUsers(client, chatID)
}

// LeaveChat убирает клиента из живой группы; отсутствие записи — no-op.
func (h *Hub) LeaveChat(client *Client, chatID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveChatUnsafe(client, chatID)
}

func (h *Hub) leaveChatUnsafe(client *Client, chatID uuid.UUID) {
	chat, ok := h.chats[chatID]
	if !ok {
		return
	}

	delete(chat, client.ID)
	client.mu.Lock()
	delete(client.Chats, chatID)
	client.mu.Unlock()

	if len(chat) == 0 {
		delete(h.chats, chatID)
	}
}

// LeaveChatUser убирает из живой группы чата все подключения пользователя.
// Используется, когда leave пришёл не с живого канала и конкретный
// handle неизвестен.
func (h *Hub) LeaveChatUser(chatID, userID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	chat := h.chats[chatID]
	for _, client := range chat {
		if client.UserID == userID {
			h.leaveChatUnsafe(client, chatID)
		}
	}
}

// EvictChat полностью выселяет живую группу удалённого чата.
func (h *Hub) EvictChat(chatID uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, client := range h.chats[chatID] {
		client.mu.Lock()
		delete(client.Chats, chatID)
		client.mu.Unlock()
	}
	delete(h.chats, chatID)
}

// SendToChat доставляет payload каждому подключению группы. Доставка
// best-effort: забитый канал одного клиента не блокирует остальных
// и не проваливает операцию, вызвавшую рассылку.
func (h *Hub) SendToChat(chatID uuid.UUID, message []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.chats[chatID] {
		select {
		case client.Send <- message:
		default:
			log.Printf("Client %s send channel full, dropping broadcast", client.ID)
		}
	}
}

// AnnounceToChat сериализует событие и рассылает его группе чата.
func (h *Hub) AnnounceToChat(chatID uuid.UUID, msgType MessageType, userID uuid.UUID, data interface{}) {
	msg := Message{
		Type:      msgType,
		ChatID:    &chatID,
		UserID:    userID,
		Timestamp: time.Now(),
	}

	if data != nil {
		payload, err := json.Marshal(data)
		if err != nil {
			log.Printf("Failed to marshal %s event: %v", msgType, err)
			return
		}
		msg.Data = payload
	}

	raw, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Failed to marshal %s envelope: %v", msgType, err)
		return
	}

	h.SendToChat(chatID, raw)
}

func (h *Hub) sendChatUsers(client *Client, chatID uuid.UUID) {
	users := make([]uuid.UUID, 0)

	if chat, ok := h.chats[chatID]; ok {
		seen := make(map[uuid.UUID]bool)
		for _, c := range chat {
			if !seen[c.UserID] {
				seen[c.UserID] = true
				users = append(users, c.UserID)
			}
		}
	}

	msg := Message{
		Type:      TypeChatUsers,
		ChatID:    &chatID,
		UserID:    client.UserID,
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(users); err == nil {
		msg.Data = data
		if raw, err := json.Marshal(msg); err == nil {
			select {
			case client.Send <- raw:
			default:
				log.Printf("Failed to send chat users to client %s", client.ID)
			}
		}
	}
}

func (h *Hub) ping() {
	h.mu.RLock()
	defer h.mu.RUnlock()

	msg := Message{
		Type:      TypePing,
		Timestamp: time.Now(),
	}

	if data, err := json.Marshal(msg); err == nil {
		for _, client := range h.clients {
			select {
			case client.Send <- data:
			default:
			}
		}
	}
}

// ChatUsers возвращает снимок пользователей, подключённых к чату
func (h *Hub) ChatUsers(chatID uuid.UUID) []uuid.UUID {
	h.mu.RLock()
	defer h.mu.RUnlock()

	seen := make(map[uuid.UUID]bool)
	if chat, ok := h.chats[chatID]; ok {
		for _, client := range chat {
			seen[client.UserID] = true
		}
	}

	users := make([]uuid.UUID, 0, len(seen))
	for userID := range seen {
		users = append(users, userID)
	}
	return users
}
