package database

import (
	"gorm.io/gorm"

	"github.com/avoron/groupchat/internal/models"
)

// AddMember вставляет членство. Составной первичный ключ (chat_id, user_id)
// отбивает повторную вставку как Conflict — в том числе при гонке
// двух одновременных join.
func (d *Database) AddMember(chatID, userID string) error {
	return translate(d.db.Transaction(func(tx *gorm.DB) error {
		var chat models.Chat
		if err := tx.First(&chat, "id = ?", chatID).Error; err != nil {
			return err
		}
		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Create(&models.ChatMember{ChatID: chat.ID, UserID: user.ID}).Error
	}))
}

func (d *Database) RemoveMember(chatID, userID string) error {
	return translate(d.db.Transaction(func(tx *gorm.DB) error {
		var member models.ChatMember
		if err := tx.First(&member, "chat_id = ? AND user_id = ?", chatID, userID).Error; err != nil {
			return err
		}
		return tx.Delete(&member).Error
	}))
}

func (d *Database) IsMember(chatID, userID string) (bool, error) {
	var count int64
	err := d.db.Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Count(&count).Error
	if err != nil {
		return false, translate(err)
	}
	return count > 0, nil
}
