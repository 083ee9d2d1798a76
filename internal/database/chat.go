package database

import (
	"gorm.io/gorm"

	"github.com/avoron/groupchat/internal/models"
)

// CreateChat атомарно сохраняет чат и членство создателя.
// Дубликат (title, creator_id) возвращается как Conflict.
func (d *Database) CreateChat(chat *models.Chat) error {
	return translate(d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return err
		}
		return tx.Create(&models.ChatMember{ChatID: chat.ID, UserID: chat.CreatorID}).Error
	}))
}

func (d *Database) GetChat(id string) (*models.Chat, error) {
	var chat models.Chat
	if err := d.db.First(&chat, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &chat, nil
}

func (d *Database) GetAllChats() ([]models.Chat, error) {
	var chats []models.Chat
	if err := d.db.Order("created_at ASC").Find(&chats).Error; err != nil {
		return nil, translate(err)
	}
	return chats, nil
}

// SearchChatsByTitle ищет по подстроке названия; пустой результат — NotFound.
func (d *Database) SearchChatsByTitle(title string) ([]models.Chat, error) {
	var chats []models.Chat
	if err := d.db.Where("title LIKE ?", "%"+title+"%").Order("created_at ASC").Find(&chats).Error; err != nil {
		return nil, translate(err)
	}
	if len(chats) == 0 {
		return nil, translate(gorm.ErrRecordNotFound)
	}
	return chats, nil
}

// DeleteChat удаляет чат и зависимые строки одной транзакцией.
func (d *Database) DeleteChat(id string) error {
	return translate(d.db.Transaction(func(tx *gorm.DB) error {
		var chat models.Chat
		if err := tx.First(&chat, "id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Message{}, "chat_id = ?", id).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.ChatMember{}, "chat_id = ?", id).Error; err != nil {
			return err
		}

		return tx.Delete(&chat).Error
	}))
}
