package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avoron/groupchat/internal/apperr"
	"github.com/avoron/groupchat/internal/models"
)

// SaveMessage проверяет существование чата и членство отправителя в той же
// транзакции, что и вставка: удаление чата, закоммиченное параллельно,
// делает запись NotFound, а не оставляет осиротевшее сообщение.
func (d *Database) SaveMessage(message *models.Message) error {
	return translate(d.db.Transaction(func(tx *gorm.DB) error {
		var chat models.Chat
		if err := tx.First(&chat, "id = ?", message.ChatID).Error; err != nil {
			return err
		}

		var count int64
		err := tx.Model(&models.ChatMember{}).
			Where("chat_id = ? AND user_id = ?", message.ChatID, message.UserID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count == 0 {
			return apperr.ErrForbidden
		}

		return tx.Create(message).Error
	}))
}

func (d *Database) GetMessage(id string) (*models.Message, error) {
	var message models.Message
	if err := d.db.First(&message, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &message, nil
}

// GetChatMessages получает сообщения чата с пагинацией
func (d *Database) GetChatMessages(chatID string, limit int, beforeID *uuid.UUID) ([]models.Message, error) {
	query := d.db.Where("chat_id = ?", chatID)

	// Если указан beforeID, получаем сообщения до него
	if beforeID != nil {
		var beforeMsg models.Message
		if err := d.db.First(&beforeMsg, "id = ?", beforeID).Error; err == nil {
			query = query.Where("created_at < ?", beforeMsg.CreatedAt)
		}
	}

	var messages []models.Message
	err := query.
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, translate(err)
	}

	// Разворачиваем порядок, чтобы старые сообщения были первыми
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}
