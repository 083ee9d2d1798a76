// Package service — бизнес-правила поверх шлюза хранилища. Операции
// возвращают типизированные исходы из apperr; рассылка живых событий
// остаётся за вызывающим слоем и выполняется только после успешной записи.
package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/avoron/groupchat/internal/apperr"
	"github.com/avoron/groupchat/internal/models"
)

// ChatStore — контракт шлюза для чатов, членств и сообщений.
// Реализация обязана сама отбивать дубликаты ключей как Conflict.
type ChatStore interface {
	CreateChat(chat *models.Chat) error
	GetChat(id string) (*models.Chat, error)
	GetAllChats() ([]models.Chat, error)
	SearchChatsByTitle(title string) ([]models.Chat, error)
	DeleteChat(id string) error
	AddMember(chatID, userID string) error
	RemoveMember(chatID, userID string) error
	IsMember(chatID, userID string) (bool, error)
	SaveMessage(message *models.Message) error
	GetChatMessages(chatID string, limit int, beforeID *uuid.UUID) ([]models.Message, error)
}

type ChatService struct {
	chats ChatStore
	users UserStore
}

func NewChatService(chats ChatStore, users UserStore) *ChatService {
	return &ChatService{chats: chats, users: users}
}

// CreateChat создает чат и членство создателя одной записью шлюза.
// Дубликат (title, creator) — Conflict, несуществующий создатель — NotFound.
func (s *ChatService) CreateChat(title string, creatorID uuid.UUID) (*models.Chat, error) {
	if _, err := s.users.GetUser(creatorID.String()); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	chat := &models.Chat{
		Title:     title,
		CreatorID: creatorID,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.chats.CreateChat(chat); err != nil {
		return nil, fmt.Errorf("create chat: %w", err)
	}

	return chat, nil
}

func (s *ChatService) GetChatByID(id uuid.UUID) (*models.Chat, error) {
	return s.chats.GetChat(id.String())
}

func (s *ChatService) GetAllChats() ([]models.Chat, error) {
	return s.chats.GetAllChats()
}

// SearchChats ищет чаты по подстроке названия; отсутствие совпадений — NotFound.
func (s *ChatService) SearchChats(title string) ([]models.Chat, error) {
	return s.chats.SearchChatsByTitle(title)
}

// DeleteChat удаляет чат по первичному ключу. Удалять может только создатель.
func (s *ChatService) DeleteChat(id, requesterID uuid.UUID) error {
	chat, err := s.chats.GetChat(id.String())
	if err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}

	if chat.CreatorID != requesterID {
		return fmt.Errorf("delete chat: %w: only the creator can delete a chat", apperr.ErrForbidden)
	}

	if err := s.chats.DeleteChat(id.String()); err != nil {
		return fmt.Errorf("delete chat: %w", err)
	}

	return nil
}

// JoinChat вставляет долговременное членство. Повторный join той же пары —
// Conflict, причём арбитром выступает составной ключ БД, а не предпроверка.
func (s *ChatService) JoinChat(chatID, userID uuid.UUID) error {
	if err := s.chats.AddMember(chatID.String(), userID.String()); err != nil {
		return fmt.Errorf("join chat: %w", err)
	}
	return nil
}

func (s *ChatService) LeaveChat(chatID, userID uuid.UUID) error {
	if err := s.chats.RemoveMember(chatID.String(), userID.String()); err != nil {
		return fmt.Errorf("leave chat: %w", err)
	}
	return nil
}

// PostMessage сохраняет сообщение с серверной меткой времени. Шлюз повторно
// проверяет существование чата и членство в транзакции вставки, поэтому
// гонка с параллельным удалением чата заканчивается NotFound.
func (s *ChatService) PostMessage(chatID, userID uuid.UUID, content string) (*models.Message, error) {
	if _, err := s.users.GetUser(userID.String()); err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}

	message := &models.Message{
		ChatID:    chatID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.chats.SaveMessage(message); err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}

	return message, nil
}

// ChatHistory отдает историю сообщений; доступна только участникам.
func (s *ChatService) ChatHistory(chatID, userID uuid.UUID, limit int, beforeID *uuid.UUID) ([]models.Message, error) {
	if _, err := s.chats.GetChat(chatID.String()); err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}

	member, err := s.chats.IsMember(chatID.String(), userID.String())
	if err != nil {
		return nil, fmt.Errorf("chat history: %w", err)
	}
	if !member {
		return nil, fmt.Errorf("chat history: %w: not a member", apperr.ErrForbidden)
	}

	return s.chats.GetChatMessages(chatID.String(), limit, beforeID)
}
